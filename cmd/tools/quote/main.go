package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/noah-isme/backend-lingua/internal/pricing"
)

// Offline quote calculator. Mirrors the pricing the API serves so support can
// reproduce a price from the raw booking parameters without a running server.
func main() {
	var (
		mode        = flag.String("mode", "course", "course or tutor")
		feePerHour  = flag.Int64("fee", 0, "course fee per hour")
		totalLength = flag.Int("total-length", 0, "course length in weeks")
		weekLength  = flag.Int("week-length", 0, "course hours per week")
		rate        = flag.Int64("rate", 0, "tutor price per hour")
		duration    = flag.Int("duration", 1, "tutor session hours")
		students    = flag.Int("students", 1, "number of students")
		date        = flag.String("date", "", "start date, YYYY-MM-DD")
		hour        = flag.Int("hour", -1, "start hour, 0-23 (-1 for unknown)")

		supplementary = flag.Bool("supplementary", false, "supplementary materials")
		personalized  = flag.Bool("personalized", false, "personalized learning plan")
		excursions    = flag.Bool("excursions", false, "cultural excursions")
		assessment    = flag.Bool("assessment", false, "progress assessments")
		interactive   = flag.Bool("interactive", false, "interactive sessions")
	)
	flag.Parse()

	opts := pricing.Options{
		Supplementary: *supplementary,
		Personalized:  *personalized,
		Excursions:    *excursions,
		Assessment:    *assessment,
		Interactive:   *interactive,
	}

	var (
		quote pricing.Quote
		err   error
	)
	switch *mode {
	case "course":
		var start time.Time
		if *date != "" {
			start, err = time.Parse("2006-01-02", *date)
			if err != nil {
				log.Fatalf("parse date: %v", err)
			}
		}
		terms := pricing.CourseTerms{
			TotalLength: *totalLength,
			WeekLength:  *weekLength,
			FeePerHour:  pricing.Price(*feePerHour),
		}
		quote, err = pricing.QuoteCourse(terms, start, *hour, *students, opts, time.Now())
		if err != nil {
			log.Fatalf("quote course: %v", err)
		}
	case "tutor":
		quote = pricing.QuoteTutor(pricing.TutorTerms{PricePerHour: pricing.Price(*rate)}, *duration, *students, opts)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(quote); err != nil {
		log.Fatalf("encode quote: %v", err)
	}
}
