package catalog

import (
	"sort"
	"strings"
)

// FilterCourses narrows courses by a free-text query and a level. The query
// matches case-insensitively against name or description; an empty query
// matches everything. An empty level matches all levels. The input order is
// preserved and the input slice never mutated.
func FilterCourses(courses []Course, query string, level Level) []Course {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]Course, 0, len(courses))
	for _, course := range courses {
		if level != "" && course.Level != level {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(course.Name), needle) &&
			!strings.Contains(strings.ToLower(course.Description), needle) {
			continue
		}
		out = append(out, course)
	}
	return out
}

// FilterTutors narrows tutors by an offered language and a minimum number of
// years of experience. Unset filters match everything; order is preserved.
func FilterTutors(tutors []Tutor, language string, minExperience int) []Tutor {
	wanted := strings.TrimSpace(language)
	out := make([]Tutor, 0, len(tutors))
	for _, tutor := range tutors {
		if tutor.WorkExperience < minExperience {
			continue
		}
		if wanted != "" && !offersLanguage(tutor, wanted) {
			continue
		}
		out = append(out, tutor)
	}
	return out
}

// Languages returns the sorted distinct set of languages offered across all
// tutors.
func Languages(tutors []Tutor) []string {
	seen := make(map[string]struct{})
	for _, tutor := range tutors {
		for _, lang := range tutor.Languages {
			trimmed := strings.TrimSpace(lang)
			if trimmed == "" {
				continue
			}
			seen[trimmed] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

func offersLanguage(tutor Tutor, language string) bool {
	for _, lang := range tutor.Languages {
		if strings.EqualFold(strings.TrimSpace(lang), language) {
			return true
		}
	}
	return false
}
