package order

import "github.com/noah-isme/backend-lingua/internal/pricing"

// Order is the wire shape of the upstream order resource. Option booleans sit
// flat at the top level. An order stores only the final price, never the
// entity rate, so edits re-resolve the course or tutor.
type Order struct {
	ID        int64  `json:"id"`
	CourseID  int64  `json:"course_id,omitempty"`
	TutorID   int64  `json:"tutor_id,omitempty"`
	Persons   int    `json:"persons"`
	DateStart string `json:"date_start,omitempty"`
	TimeStart string `json:"time_start,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	pricing.Options
	EarlyRegistration bool          `json:"early_registration"`
	GroupEnrollment   bool          `json:"group_enrollment"`
	IntensiveCourse   bool          `json:"intensive_course"`
	Price             pricing.Price `json:"price"`
	CreatedAt         string        `json:"created_at,omitempty"`
	UpdatedAt         string        `json:"updated_at,omitempty"`
}

// updatePayload is the body PUT to the upstream order resource on edit.
// Duration is present only for tutor orders; course durations never change.
type updatePayload struct {
	Persons  int `json:"persons"`
	Duration int `json:"duration,omitempty"`
	pricing.Options
	EarlyRegistration bool          `json:"early_registration"`
	GroupEnrollment   bool          `json:"group_enrollment"`
	IntensiveCourse   bool          `json:"intensive_course"`
	Price             pricing.Price `json:"price"`
}
