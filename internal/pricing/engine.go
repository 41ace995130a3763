package pricing

import (
	"errors"
	"math"
	"time"
)

// Price is a monetary amount in whole currency units.
type Price = int64

// ErrScheduleRequired is returned when a course quote is requested without a
// start date or start time. Weekend and time-of-day rules cannot be evaluated
// without them, so no numeric quote exists.
var ErrScheduleRequired = errors.New("pricing: start date and time required")

// Tariff constants. The add-on steps are order-sensitive: flat surcharges and
// multipliers interleave, so reordering them changes the result.
const (
	weekendFactor     = 1.5
	morningSurcharge  = 400
	eveningSurcharge  = 1000
	supplementaryFee  = 2000
	personalizedFee   = 1500
	excursionsFactor  = 1.25
	assessmentFee     = 300
	interactiveFactor = 1.5
	earlyFactor       = 0.9
	groupFactor       = 0.85
	intensiveFactor   = 1.2

	groupMinStudents      = 5
	intensiveMinWeekHours = 5
)

// Options captures the five independent booking add-ons.
type Options struct {
	Supplementary bool `json:"supplementary"`
	Personalized  bool `json:"personalized"`
	Excursions    bool `json:"excursions"`
	Assessment    bool `json:"assessment"`
	Interactive   bool `json:"interactive"`
}

// CourseTerms are the pricing-relevant attributes of a course.
type CourseTerms struct {
	TotalLength int   // weeks
	WeekLength  int   // hours per week
	FeePerHour  Price // per-hour course fee
}

// TotalHours returns the full contact-hour volume of the course.
func (c CourseTerms) TotalHours() int {
	return c.TotalLength * c.WeekLength
}

// TutorTerms are the pricing-relevant attributes of a tutor.
type TutorTerms struct {
	PricePerHour Price
}

// Quote is the result of a price calculation together with the adjustment
// flags that were in effect. The flags are frozen onto the order at creation.
type Quote struct {
	Price             Price `json:"price"`
	EarlyRegistration bool  `json:"early_registration"`
	GroupEnrollment   bool  `json:"group_enrollment"`
	IntensiveCourse   bool  `json:"intensive_course"`
}

// QuoteCourse computes the price for a course booking. The calculation is
// pure and deterministic for a fixed now; rounding to the nearest whole unit
// happens exactly once, as the final step. students below 1 clamp to 1.
// startHour is the 24h start hour; pass a negative value when the start time
// is unknown.
func QuoteCourse(course CourseTerms, dateStart time.Time, startHour, students int, opts Options, now time.Time) (Quote, error) {
	if dateStart.IsZero() || startHour < 0 {
		return Quote{}, ErrScheduleRequired
	}
	return quoteCourse(course, dateStart, startHour, students, opts, EarlyRegistration(dateStart, now)), nil
}

// QuoteCourseEdit recomputes the price of an existing course order. The
// early-registration discount is taken from the bit frozen on the order at
// creation, never re-derived from the start date. A stored order may lack a
// start time; a negative startHour skips the time-of-day surcharges.
func QuoteCourseEdit(course CourseTerms, dateStart time.Time, startHour, students int, opts Options, earlyRegistration bool) Quote {
	return quoteCourse(course, dateStart, startHour, students, opts, earlyRegistration)
}

func quoteCourse(course CourseTerms, dateStart time.Time, startHour, students int, opts Options, early bool) Quote {
	students = clampCount(students)

	base := float64(course.FeePerHour) * float64(course.TotalHours())
	if isWeekend(dateStart) {
		base *= weekendFactor
	}
	// Independent checks: the ranges do not overlap but are not exclusive.
	if startHour >= 9 && startHour < 12 {
		base += morningSurcharge
	}
	if startHour >= 18 && startHour < 20 {
		base += eveningSurcharge
	}

	total := base * float64(students)
	total = applyAddOns(total, opts, students, personalizedFee*float64(course.TotalLength))

	if early {
		total *= earlyFactor
	}
	group := students >= groupMinStudents
	if group {
		total *= groupFactor
	}
	intensive := course.WeekLength >= intensiveMinWeekHours
	if intensive {
		total *= intensiveFactor
	}

	return Quote{
		Price:             round(total),
		EarlyRegistration: early,
		GroupEnrollment:   group,
		IntensiveCourse:   intensive,
	}
}

// QuoteTutor computes the price for a tutor booking. Tutor bookings carry no
// early-registration or intensive adjustment. duration and students below 1
// clamp to 1.
func QuoteTutor(tutor TutorTerms, duration, students int, opts Options) Quote {
	duration = clampCount(duration)
	students = clampCount(students)

	total := float64(tutor.PricePerHour) * float64(duration) * float64(students)
	total = applyAddOns(total, opts, students, personalizedFee)

	group := students >= groupMinStudents
	if group {
		total *= groupFactor
	}

	return Quote{
		Price:           round(total),
		GroupEnrollment: group,
	}
}

// applyAddOns folds the five add-ons into the running total in their fixed
// order. personalized is the flat amount for the personalized option, which
// differs between course and tutor bookings.
func applyAddOns(total float64, opts Options, students int, personalized float64) float64 {
	if opts.Supplementary {
		total += supplementaryFee * float64(students)
	}
	if opts.Personalized {
		total += personalized
	}
	if opts.Excursions {
		total *= excursionsFactor
	}
	if opts.Assessment {
		total += assessmentFee
	}
	if opts.Interactive {
		total *= interactiveFactor
	}
	return total
}

// EarlyRegistration reports whether a start date qualifies for the
// early-booking discount: on or after the calendar date one month from now,
// inclusive. Both instants are compared by calendar date only.
func EarlyRegistration(dateStart, now time.Time) bool {
	return !dateOnly(dateStart).Before(dateOnly(now.AddDate(0, 1, 0)))
}

// Intensive reports whether the course triggers the intensive surcharge.
func Intensive(course CourseTerms) bool {
	return course.WeekLength >= intensiveMinWeekHours
}

// GroupEnrollment reports whether the student count triggers the group discount.
func GroupEnrollment(students int) bool {
	return clampCount(students) >= groupMinStudents
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func round(v float64) Price {
	return Price(math.Round(v))
}
