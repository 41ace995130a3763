package order

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-lingua/internal/catalog"
	"github.com/noah-isme/backend-lingua/internal/common"
	"github.com/noah-isme/backend-lingua/internal/draft"
	"github.com/noah-isme/backend-lingua/internal/events"
	"github.com/noah-isme/backend-lingua/internal/obs"
	"github.com/noah-isme/backend-lingua/internal/pricing"
	"github.com/noah-isme/backend-lingua/internal/school"
)

// Upstream is the slice of the order gateway the service needs.
type Upstream interface {
	List(ctx context.Context) ([]Order, error)
	Get(ctx context.Context, id int64) (Order, error)
	Create(ctx context.Context, payload draft.Payload) (Order, error)
	Update(ctx context.Context, id int64, payload updatePayload) (Order, error)
	Delete(ctx context.Context, id int64) error
}

// BookingRequest carries the draft fields for a quote or a new order.
// Exactly one of course_id and tutor_id must be set.
type BookingRequest struct {
	CourseID  int64  `json:"course_id" validate:"omitempty,gt=0"`
	TutorID   int64  `json:"tutor_id" validate:"omitempty,gt=0"`
	Persons   int    `json:"persons" validate:"omitempty,gte=1"`
	DateStart string `json:"date_start" validate:"omitempty,datetime=2006-01-02"`
	TimeStart string `json:"time_start" validate:"omitempty,datetime=15:04"`
	Duration  int    `json:"duration" validate:"omitempty,gte=1"`
	pricing.Options
}

// UpdateRequest carries the editable fields of an existing order. Start date
// and time are frozen at creation and cannot change.
type UpdateRequest struct {
	Persons  int `json:"persons" validate:"omitempty,gte=1"`
	Duration int `json:"duration" validate:"omitempty,gte=1"`
	pricing.Options
}

// Detail is an order enriched with its catalog entity. A missing entity
// leaves the pointer nil; the order fields still render.
type Detail struct {
	Order
	Course *catalog.Course `json:"course,omitempty"`
	Tutor  *catalog.Tutor  `json:"tutor,omitempty"`
}

// Service drives the order flows: quoting, creation through the draft
// controller, enrichment, edit recompute and deletion.
type Service struct {
	gateway Upstream
	snap    *catalog.Snapshot
	bus     *events.Bus
	logger  zerolog.Logger
	now     func() time.Time
}

// ServiceConfig configures the Service dependencies.
type ServiceConfig struct {
	Gateway  Upstream
	Snapshot *catalog.Snapshot
	Bus      *events.Bus
	Logger   zerolog.Logger
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		gateway: cfg.Gateway,
		snap:    cfg.Snapshot,
		bus:     cfg.Bus,
		logger:  cfg.Logger,
		now:     now,
	}
}

// Quote computes the price for a prospective booking without touching the
// upstream API.
func (s *Service) Quote(req BookingRequest) (pricing.Quote, error) {
	ctrl, kind, err := s.buildDraft(req)
	if err != nil {
		return pricing.Quote{}, err
	}
	quote, err := ctrl.Quote()
	if err != nil {
		return pricing.Quote{}, mapDraftError(err)
	}
	if obs.QuotesComputedTotal != nil {
		obs.QuotesComputedTotal.WithLabelValues(kind).Inc()
	}
	return quote, nil
}

// Create drives a draft submission for the request and emits order.created.
func (s *Service) Create(ctx context.Context, req BookingRequest) (Order, error) {
	ctrl, _, err := s.buildDraft(req)
	if err != nil {
		return Order{}, err
	}
	adapter := &createAdapter{gateway: s.gateway}
	if _, err := ctrl.Submit(ctx, adapter); err != nil {
		return Order{}, mapDraftError(err)
	}
	created := adapter.created
	s.emit(ctx, events.TopicOrderCreated, created.ID, created)
	return created, nil
}

// Get returns the order enriched with its catalog entity. An entity that
// vanished from the catalog degrades gracefully: the order still renders,
// just without the course or tutor block.
func (s *Service) Get(ctx context.Context, id int64) (Detail, error) {
	ord, err := s.gateway.Get(ctx, id)
	if err != nil {
		return Detail{}, mapUpstreamError(err)
	}
	detail := Detail{Order: ord}
	if ord.CourseID != 0 {
		if course, ok := s.snap.CourseByID(ord.CourseID); ok {
			detail.Course = &course
		}
	}
	if ord.TutorID != 0 {
		if tutor, ok := s.snap.TutorByID(ord.TutorID); ok {
			detail.Tutor = &tutor
		}
	}
	return detail, nil
}

// List returns all orders as-is from upstream.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.gateway.List(ctx)
	if err != nil {
		return nil, mapUpstreamError(err)
	}
	return orders, nil
}

// Update re-fetches the order and its entity, recomputes the price with the
// edited fields and the early-registration bit frozen at creation, and PUTs
// the result upstream.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (Order, error) {
	ord, err := s.gateway.Get(ctx, id)
	if err != nil {
		return Order{}, mapUpstreamError(err)
	}

	persons := req.Persons
	if persons < 1 {
		persons = 1
	}

	var payload updatePayload
	switch {
	case ord.CourseID != 0:
		course, ok := s.snap.CourseByID(ord.CourseID)
		if !ok {
			return Order{}, common.NotFound("course no longer in catalog", nil)
		}
		date, hour := storedSchedule(ord)
		quote := pricing.QuoteCourseEdit(course.Terms(), date, hour, persons, req.Options, ord.EarlyRegistration)
		payload = updatePayload{
			Persons:           persons,
			Options:           req.Options,
			EarlyRegistration: ord.EarlyRegistration,
			GroupEnrollment:   quote.GroupEnrollment,
			IntensiveCourse:   quote.IntensiveCourse,
			Price:             quote.Price,
		}
	case ord.TutorID != 0:
		tutor, ok := s.snap.TutorByID(ord.TutorID)
		if !ok {
			return Order{}, common.NotFound("tutor no longer in catalog", nil)
		}
		duration := req.Duration
		if duration < 1 {
			duration = ord.Duration
		}
		quote := pricing.QuoteTutor(tutor.Terms(), duration, persons, req.Options)
		payload = updatePayload{
			Persons:           persons,
			Duration:          duration,
			Options:           req.Options,
			EarlyRegistration: ord.EarlyRegistration,
			GroupEnrollment:   quote.GroupEnrollment,
			Price:             quote.Price,
		}
	default:
		return Order{}, common.BadRequest("order", "order references neither course nor tutor", nil)
	}

	updated, err := s.gateway.Update(ctx, id, payload)
	if err != nil {
		return Order{}, mapUpstreamError(err)
	}
	s.emit(ctx, events.TopicOrderUpdated, updated.ID, updated)
	return updated, nil
}

// Remove deletes the order and emits order.deleted.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.gateway.Delete(ctx, id); err != nil {
		return mapUpstreamError(err)
	}
	s.emit(ctx, events.TopicOrderDeleted, id, map[string]int64{"id": id})
	return nil
}

func (s *Service) buildDraft(req BookingRequest) (*draft.Controller, string, error) {
	if (req.CourseID == 0) == (req.TutorID == 0) {
		return nil, "", common.BadRequest("course_id", "exactly one of course_id and tutor_id is required", nil)
	}
	ctrl := draft.NewController(s.now)
	var kind string
	if req.CourseID != 0 {
		course, ok := s.snap.CourseByID(req.CourseID)
		if !ok {
			return nil, "", common.NotFound("course not found", nil)
		}
		_ = ctrl.SelectCourse(course)
		kind = "course"
	} else {
		tutor, ok := s.snap.TutorByID(req.TutorID)
		if !ok {
			return nil, "", common.NotFound("tutor not found", nil)
		}
		_ = ctrl.SelectTutor(tutor)
		kind = "tutor"
	}
	if req.DateStart != "" {
		ctrl.SetDateStart(req.DateStart)
	}
	if req.TimeStart != "" {
		ctrl.SetTimeStart(req.TimeStart)
	}
	if req.Duration > 0 {
		ctrl.SetDuration(req.Duration)
	}
	ctrl.SetStudents(req.Persons)
	ctrl.SetOptions(req.Options)
	return ctrl, kind, nil
}

type createAdapter struct {
	gateway Upstream
	created Order
}

func (a *createAdapter) Create(ctx context.Context, payload draft.Payload) (draft.SubmitResult, error) {
	ord, err := a.gateway.Create(ctx, payload)
	if err != nil {
		return draft.SubmitResult{}, err
	}
	a.created = ord
	return draft.SubmitResult{OrderID: ord.ID, Price: ord.Price}, nil
}

func (s *Service) emit(ctx context.Context, topic string, id int64, payload any) {
	if s.bus == nil {
		return
	}
	if _, err := s.bus.Emit(ctx, topic, id, payload); err != nil {
		s.logger.Warn().Err(err).Str("topic", topic).Int64("order_id", id).Msg("order_notify_failed")
	}
}

// storedSchedule extracts the weekday date and start hour frozen on a stored
// order. A missing time yields -1 so the time-of-day surcharges are skipped.
func storedSchedule(ord Order) (time.Time, int) {
	date, err := time.Parse("2006-01-02", ord.DateStart)
	if err != nil {
		date = time.Time{}
	}
	hour := -1
	if clock, err := time.Parse("15:04", ord.TimeStart); err == nil {
		hour = clock.Hour()
	}
	return date, hour
}

func mapUpstreamError(err error) error {
	var apiErr *school.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 404 {
			return common.NotFound(apiErr.Message, err)
		}
		return common.Upstream(apiErr.Message, err)
	}
	return common.Upstream("school api unreachable", err)
}

func mapDraftError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrScheduleRequired):
		return common.BadRequest("date_start", "start date and time are required", err)
	case errors.Is(err, draft.ErrNothingSelected):
		return common.BadRequest("course_id", "no course or tutor selected", err)
	case errors.Is(err, draft.ErrSubmitInFlight), errors.Is(err, draft.ErrAlreadySubmitted):
		return common.BadRequest("order", err.Error(), err)
	default:
		return mapUpstreamError(err)
	}
}
