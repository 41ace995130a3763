package catalog

import (
	"sync"
	"time"
)

// Snapshot holds one atomically replaceable view of the catalog. Lookups read
// the snapshot that was current when they started; a concurrent reload swaps
// the whole view at once.
type Snapshot struct {
	mu       sync.RWMutex
	courses  []Course
	tutors   []Tutor
	loadedAt time.Time
}

// Replace swaps in freshly loaded lists.
func (s *Snapshot) Replace(courses []Course, tutors []Tutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = courses
	s.tutors = tutors
	s.loadedAt = time.Now().UTC()
}

// Ready reports whether a load has completed at least once.
func (s *Snapshot) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loadedAt.IsZero()
}

// LoadedAt returns the time of the last successful load.
func (s *Snapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Courses returns the current course list. Callers must not mutate it.
func (s *Snapshot) Courses() []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.courses
}

// Tutors returns the current tutor list. Callers must not mutate it.
func (s *Snapshot) Tutors() []Tutor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tutors
}

// CourseByID finds a course in the current snapshot. Absence is not an error.
func (s *Snapshot) CourseByID(id int64) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, course := range s.courses {
		if course.ID == id {
			return course, true
		}
	}
	return Course{}, false
}

// TutorByID finds a tutor in the current snapshot. Absence is not an error.
func (s *Snapshot) TutorByID(id int64) (Tutor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tutor := range s.tutors {
		if tutor.ID == id {
			return tutor, true
		}
	}
	return Tutor{}, false
}
