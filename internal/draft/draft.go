package draft

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/noah-isme/backend-lingua/internal/catalog"
	"github.com/noah-isme/backend-lingua/internal/pricing"
)

// Draft controller errors.
var (
	ErrNothingSelected  = errors.New("draft: no course or tutor selected")
	ErrAlreadySubmitted = errors.New("draft: already submitted")
	ErrSubmitInFlight   = errors.New("draft: submit already in flight")
)

// State is the draft lifecycle position.
type State int

const (
	Empty State = iota
	CourseSelected
	TutorSelected
	Submitted
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case CourseSelected:
		return "course_selected"
	case TutorSelected:
		return "tutor_selected"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

// Payload is the order body sent upstream on submit. The option booleans sit
// flat at the top level, the shape the school API expects.
type Payload struct {
	CourseID  int64  `json:"course_id,omitempty"`
	TutorID   int64  `json:"tutor_id,omitempty"`
	Persons   int    `json:"persons"`
	DateStart string `json:"date_start"`
	TimeStart string `json:"time_start"`
	Duration  int    `json:"duration"`
	pricing.Options
	EarlyRegistration bool          `json:"early_registration"`
	GroupEnrollment   bool          `json:"group_enrollment"`
	IntensiveCourse   bool          `json:"intensive_course"`
	Price             pricing.Price `json:"price"`
}

// SubmitResult is what the gateway reports back for a created order.
type SubmitResult struct {
	OrderID int64
	Price   pricing.Price
}

// Gateway places the assembled order upstream.
type Gateway interface {
	Create(ctx context.Context, payload Payload) (SubmitResult, error)
}

// Controller owns one booking draft. A draft belongs to a single user flow;
// only Submit guards against concurrent use.
type Controller struct {
	now func() time.Time

	state     State
	course    catalog.Course
	tutor     catalog.Tutor
	students  int
	dateStart string
	timeStart string
	duration  int
	opts      pricing.Options

	submitting atomic.Bool
}

// NewController builds an empty draft. now defaults to time.Now.
func NewController(now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{now: now, students: 1}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// SelectCourse picks a course and resets all booking fields. Any previously
// selected tutor is dropped.
func (c *Controller) SelectCourse(course catalog.Course) error {
	if c.state == Submitted {
		return ErrAlreadySubmitted
	}
	c.course = course
	c.tutor = catalog.Tutor{}
	c.state = CourseSelected
	c.students = 1
	c.opts = pricing.Options{}
	c.dateStart = ""
	c.timeStart = ""
	c.duration = course.TotalHours()
	return nil
}

// SelectTutor picks a tutor and resets all booking fields. Any previously
// selected course is dropped. Tutor bookings default to a one hour session
// today at 09:00.
func (c *Controller) SelectTutor(tutor catalog.Tutor) error {
	if c.state == Submitted {
		return ErrAlreadySubmitted
	}
	c.tutor = tutor
	c.course = catalog.Course{}
	c.state = TutorSelected
	c.students = 1
	c.opts = pricing.Options{}
	c.dateStart = c.now().Format("2006-01-02")
	c.timeStart = "09:00"
	c.duration = 1
	return nil
}

// SetStudents updates the student count, clamped to at least one.
func (c *Controller) SetStudents(students int) {
	if students < 1 {
		students = 1
	}
	c.students = students
}

// SetDateStart sets the start date as YYYY-MM-DD.
func (c *Controller) SetDateStart(date string) {
	c.dateStart = strings.TrimSpace(date)
}

// SetTimeStart sets the start time as HH:MM.
func (c *Controller) SetTimeStart(timeStart string) {
	c.timeStart = strings.TrimSpace(timeStart)
}

// SetDuration sets the session length in hours for tutor bookings. Course
// durations are derived from the course and cannot be overridden.
func (c *Controller) SetDuration(hours int) {
	if c.state == CourseSelected {
		return
	}
	if hours < 1 {
		hours = 1
	}
	c.duration = hours
}

// SetOptions replaces the add-on selection.
func (c *Controller) SetOptions(opts pricing.Options) {
	c.opts = opts
}

// Quote recomputes the price for the current draft fields. It never consults
// the catalog; the selected entity was captured at selection time.
func (c *Controller) Quote() (pricing.Quote, error) {
	switch c.state {
	case CourseSelected:
		date, hour, err := c.schedule()
		if err != nil {
			return pricing.Quote{}, err
		}
		return pricing.QuoteCourse(c.course.Terms(), date, hour, c.students, c.opts, c.now())
	case TutorSelected:
		return pricing.QuoteTutor(c.tutor.Terms(), c.duration, c.students, c.opts), nil
	case Submitted:
		return pricing.Quote{}, ErrAlreadySubmitted
	default:
		return pricing.Quote{}, ErrNothingSelected
	}
}

// Payload assembles the upstream order body, including the price and the
// adjustment flags frozen from the current quote.
func (c *Controller) Payload() (Payload, error) {
	quote, err := c.Quote()
	if err != nil {
		return Payload{}, err
	}
	p := Payload{
		Persons:           c.students,
		DateStart:         c.dateStart,
		TimeStart:         c.timeStart,
		Duration:          c.duration,
		Options:           c.opts,
		EarlyRegistration: quote.EarlyRegistration,
		GroupEnrollment:   quote.GroupEnrollment,
		IntensiveCourse:   quote.IntensiveCourse,
		Price:             quote.Price,
	}
	switch c.state {
	case CourseSelected:
		p.CourseID = c.course.ID
	case TutorSelected:
		p.TutorID = c.tutor.ID
	}
	return p, nil
}

// Submit validates the draft locally, places the order and marks the draft
// submitted. It is non-reentrant: a second call while one is in flight fails
// with ErrSubmitInFlight. A failed submission leaves the draft untouched.
func (c *Controller) Submit(ctx context.Context, gateway Gateway) (SubmitResult, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return SubmitResult{}, ErrSubmitInFlight
	}
	defer c.submitting.Store(false)

	if c.state == Submitted {
		return SubmitResult{}, ErrAlreadySubmitted
	}
	payload, err := c.Payload()
	if err != nil {
		return SubmitResult{}, err
	}
	result, err := gateway.Create(ctx, payload)
	if err != nil {
		return SubmitResult{}, err
	}
	c.state = Submitted
	return result, nil
}

// schedule parses the draft's date and start hour. Either one missing or
// malformed makes the quote unavailable.
func (c *Controller) schedule() (time.Time, int, error) {
	if c.dateStart == "" || c.timeStart == "" {
		return time.Time{}, 0, pricing.ErrScheduleRequired
	}
	date, err := time.Parse("2006-01-02", c.dateStart)
	if err != nil {
		return time.Time{}, 0, pricing.ErrScheduleRequired
	}
	clock, err := time.Parse("15:04", c.timeStart)
	if err != nil {
		return time.Time{}, 0, pricing.ErrScheduleRequired
	}
	return date, clock.Hour(), nil
}
