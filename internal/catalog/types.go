package catalog

import "github.com/noah-isme/backend-lingua/internal/pricing"

// Level is a course proficiency level as the school API reports it.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Course is a catalog course entry. Entries are immutable once loaded into a
// snapshot.
type Course struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Teacher     string   `json:"teacher"`
	Level       Level    `json:"level"`
	TotalLength int      `json:"total_length"`
	WeekLength  int      `json:"week_length"`
	FeePerHour  int64    `json:"course_fee_per_hour"`
	StartDates  []string `json:"start_dates"`
}

// TotalHours is the full contact-hour volume of the course.
func (c Course) TotalHours() int {
	return c.TotalLength * c.WeekLength
}

// Terms extracts the pricing-relevant attributes.
func (c Course) Terms() pricing.CourseTerms {
	return pricing.CourseTerms{
		TotalLength: c.TotalLength,
		WeekLength:  c.WeekLength,
		FeePerHour:  c.FeePerHour,
	}
}

// Tutor is a catalog tutor entry.
type Tutor struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Languages      []string `json:"languages_offered"`
	LanguageLevel  string   `json:"language_level"`
	WorkExperience int      `json:"work_experience"`
	PricePerHour   int64    `json:"price_per_hour"`
}

// Terms extracts the pricing-relevant attributes.
func (t Tutor) Terms() pricing.TutorTerms {
	return pricing.TutorTerms{PricePerHour: t.PricePerHour}
}
