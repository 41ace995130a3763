package catalog

import (
	"context"
	"fmt"

	"github.com/noah-isme/backend-lingua/internal/school"
)

// Source provides the raw catalog lists.
type Source interface {
	ListCourses(ctx context.Context) ([]Course, error)
	ListTutors(ctx context.Context) ([]Tutor, error)
}

// APISource fetches the catalog lists from the school API, consulting the
// Redis cache first when one is configured.
type APISource struct {
	client *school.Client
	cache  *Cache
}

// NewAPISource constructs a source backed by the school API.
func NewAPISource(client *school.Client, cache *Cache) *APISource {
	return &APISource{client: client, cache: cache}
}

// ListCourses returns all courses.
func (s *APISource) ListCourses(ctx context.Context) ([]Course, error) {
	var courses []Course
	if hit, err := s.cache.GetJSON(ctx, coursesCacheKey, &courses); err == nil && hit {
		return courses, nil
	}
	if err := s.client.Get(ctx, "/courses", nil, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	_ = s.cache.SetJSON(ctx, coursesCacheKey, courses)
	return courses, nil
}

// ListTutors returns all tutors.
func (s *APISource) ListTutors(ctx context.Context) ([]Tutor, error) {
	var tutors []Tutor
	if hit, err := s.cache.GetJSON(ctx, tutorsCacheKey, &tutors); err == nil && hit {
		return tutors, nil
	}
	if err := s.client.Get(ctx, "/tutors", nil, &tutors); err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	_ = s.cache.SetJSON(ctx, tutorsCacheKey, tutors)
	return tutors, nil
}
