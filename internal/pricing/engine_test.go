package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC) // a Saturday

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestQuoteCourseDeterministic(t *testing.T) {
	course := CourseTerms{TotalLength: 3, WeekLength: 4, FeePerHour: 250}
	opts := Options{Supplementary: true, Excursions: true}
	first, err := QuoteCourse(course, date(2026, time.September, 7), 10, 3, opts, testNow)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := QuoteCourse(course, date(2026, time.September, 7), 10, 3, opts, testNow)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestQuoteCourseWeekendAndMorning(t *testing.T) {
	// totalHours=20, basePrice=2000; Saturday x1.5 = 3000; 10:00 adds 400.
	course := CourseTerms{TotalLength: 5, WeekLength: 4, FeePerHour: 100}

	saturday, err := QuoteCourse(course, date(2026, time.September, 5), 10, 1, Options{}, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(3400), saturday.Price)
	require.False(t, saturday.EarlyRegistration)
	require.False(t, saturday.GroupEnrollment)
	require.False(t, saturday.IntensiveCourse)

	sunday, err := QuoteCourse(course, date(2026, time.September, 6), 10, 1, Options{}, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(3400), sunday.Price)

	monday, err := QuoteCourse(course, date(2026, time.September, 7), 10, 1, Options{}, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(2400), monday.Price)
}

func TestQuoteCourseIntensiveSurcharge(t *testing.T) {
	// Same hour volume as above but packed into 10h weeks, which crosses the
	// intensive threshold and multiplies the weekend+morning total by 1.2.
	course := CourseTerms{TotalLength: 2, WeekLength: 10, FeePerHour: 100}
	quote, err := QuoteCourse(course, date(2026, time.September, 5), 10, 1, Options{}, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(4080), quote.Price)
	require.True(t, quote.IntensiveCourse)
}

func TestQuoteCourseEveningSurcharge(t *testing.T) {
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 100}
	evening, err := QuoteCourse(course, date(2026, time.September, 7), 18, 1, Options{}, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(1100), evening.Price)

	afternoon, err := QuoteCourse(course, date(2026, time.September, 7), 13, 1, Options{}, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(100), afternoon.Price)
}

func TestQuoteCourseAddOnOrder(t *testing.T) {
	// base 400, weekday afternoon, one student. The flat assessment fee lands
	// between the excursions and interactive multipliers, which pins the
	// add-on ordering: (400*1.25+300)*1.5 = 1200.
	course := CourseTerms{TotalLength: 2, WeekLength: 2, FeePerHour: 100}
	opts := Options{Excursions: true, Assessment: true, Interactive: true}
	quote, err := QuoteCourse(course, date(2026, time.September, 7), 13, 1, opts, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(1200), quote.Price)
}

func TestQuoteCourseAllAddOns(t *testing.T) {
	// 400 +2000 +1500*2 = 5400; *1.25 = 6750; +300 = 7050; *1.5 = 10575.
	course := CourseTerms{TotalLength: 2, WeekLength: 2, FeePerHour: 100}
	opts := Options{Supplementary: true, Personalized: true, Excursions: true, Assessment: true, Interactive: true}
	quote, err := QuoteCourse(course, date(2026, time.September, 7), 13, 1, opts, testNow)
	require.NoError(t, err)
	require.Equal(t, int64(10575), quote.Price)
}

func TestQuoteCourseEarlyBookingBoundary(t *testing.T) {
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 100}

	// Exactly one calendar month out: inclusive, discount applies.
	early, err := QuoteCourse(course, date(2026, time.September, 29), 13, 1, Options{}, testNow)
	require.NoError(t, err)
	require.True(t, early.EarlyRegistration)
	require.Equal(t, int64(90), early.Price)

	// One day short: no discount.
	late, err := QuoteCourse(course, date(2026, time.September, 28), 13, 1, Options{}, testNow)
	require.NoError(t, err)
	require.False(t, late.EarlyRegistration)
	require.Equal(t, int64(100), late.Price)
}

func TestQuoteCourseGroupBoundary(t *testing.T) {
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 100}

	four, err := QuoteCourse(course, date(2026, time.September, 7), 13, 4, Options{}, testNow)
	require.NoError(t, err)
	require.False(t, four.GroupEnrollment)
	require.Equal(t, int64(400), four.Price)

	five, err := QuoteCourse(course, date(2026, time.September, 7), 13, 5, Options{}, testNow)
	require.NoError(t, err)
	require.True(t, five.GroupEnrollment)
	require.Equal(t, int64(425), five.Price)
}

func TestQuoteCourseClampsStudents(t *testing.T) {
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 100}
	one, err := QuoteCourse(course, date(2026, time.September, 7), 13, 1, Options{}, testNow)
	require.NoError(t, err)
	for _, count := range []int{0, -3} {
		clamped, err := QuoteCourse(course, date(2026, time.September, 7), 13, count, Options{}, testNow)
		require.NoError(t, err)
		require.Equal(t, one, clamped)
	}
}

func TestQuoteCourseScheduleRequired(t *testing.T) {
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 100}

	_, err := QuoteCourse(course, time.Time{}, 10, 1, Options{}, testNow)
	require.ErrorIs(t, err, ErrScheduleRequired)

	_, err = QuoteCourse(course, date(2026, time.September, 7), -1, 1, Options{}, testNow)
	require.ErrorIs(t, err, ErrScheduleRequired)
}

func TestQuoteCourseEditFrozenEarlyFlag(t *testing.T) {
	// Documented quirk: editing an order reuses the early-registration bit
	// frozen at creation time instead of re-deriving it from the start date.
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 100}
	near := date(2026, time.September, 7)

	frozen := QuoteCourseEdit(course, near, 13, 1, Options{}, true)
	require.True(t, frozen.EarlyRegistration)
	require.Equal(t, int64(90), frozen.Price)

	farOut := date(2027, time.March, 1)
	unfrozen := QuoteCourseEdit(course, farOut, 13, 1, Options{}, false)
	require.False(t, unfrozen.EarlyRegistration)
	require.Equal(t, int64(100), unfrozen.Price)
}

func TestQuoteCourseEditMissingTime(t *testing.T) {
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 100}
	quote := QuoteCourseEdit(course, date(2026, time.September, 7), -1, 1, Options{}, false)
	require.Equal(t, int64(100), quote.Price)
}

func TestQuoteTutor(t *testing.T) {
	tutor := TutorTerms{PricePerHour: 100}

	quote := QuoteTutor(tutor, 2, 1, Options{})
	require.Equal(t, int64(200), quote.Price)
	require.False(t, quote.GroupEnrollment)

	// personalized is a flat amount for tutors, not scaled by weeks.
	personalized := QuoteTutor(tutor, 2, 1, Options{Personalized: true})
	require.Equal(t, int64(1700), personalized.Price)
}

func TestQuoteTutorGroupBoundary(t *testing.T) {
	tutor := TutorTerms{PricePerHour: 100}

	four := QuoteTutor(tutor, 2, 4, Options{})
	require.Equal(t, int64(800), four.Price)

	five := QuoteTutor(tutor, 2, 5, Options{})
	require.True(t, five.GroupEnrollment)
	require.Equal(t, int64(850), five.Price)
}

func TestQuoteTutorNeverEarlyOrIntensive(t *testing.T) {
	tutor := TutorTerms{PricePerHour: 50}
	opts := Options{Supplementary: true, Personalized: true, Excursions: true, Assessment: true, Interactive: true}
	quote := QuoteTutor(tutor, 3, 6, opts)
	require.False(t, quote.EarlyRegistration)
	require.False(t, quote.IntensiveCourse)
	require.True(t, quote.GroupEnrollment)
	// 900 +12000 +1500 = 14400; *1.25 = 18000; +300 = 18300; *1.5 = 27450; *0.85 = 23332.5.
	require.Equal(t, int64(23333), quote.Price)
}

func TestQuoteTutorClampsDuration(t *testing.T) {
	tutor := TutorTerms{PricePerHour: 100}
	one := QuoteTutor(tutor, 1, 1, Options{})
	require.Equal(t, one, QuoteTutor(tutor, 0, 1, Options{}))
	require.Equal(t, one, QuoteTutor(tutor, -5, 1, Options{}))
}

func TestRoundingAppliedOnce(t *testing.T) {
	course := CourseTerms{TotalLength: 1, WeekLength: 1, FeePerHour: 333}
	quote, err := QuoteCourse(course, date(2026, time.September, 7), 13, 1, Options{Excursions: true}, testNow)
	require.NoError(t, err)
	// 333*1.25 = 416.25, rounded once at the end.
	require.Equal(t, int64(416), quote.Price)
}
