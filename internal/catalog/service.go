package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/backend-lingua/internal/events"
	"github.com/noah-isme/backend-lingua/internal/obs"
)

// Service owns the catalog snapshot and its joint load from the school API.
type Service struct {
	source Source
	snap   *Snapshot
	bus    *events.Bus
	logger zerolog.Logger
}

// ServiceConfig configures the Service dependencies.
type ServiceConfig struct {
	Source Source
	Bus    *events.Bus
	Logger zerolog.Logger
}

// NewService constructs a Service with an empty snapshot.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		source: cfg.Source,
		snap:   &Snapshot{},
		bus:    cfg.Bus,
		logger: cfg.Logger,
	}
}

// Snapshot exposes the current catalog view.
func (s *Service) Snapshot() *Snapshot {
	return s.snap
}

// Load fetches both catalog lists in parallel as one joint operation. If
// either list fails the whole load fails and the previous snapshot stays in
// place.
func (s *Service) Load(ctx context.Context) error {
	var (
		courses []Course
		tutors  []Tutor
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = s.source.ListCourses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tutors, err = s.source.ListTutors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if obs.CatalogLoadsTotal != nil {
			obs.CatalogLoadsTotal.WithLabelValues("error").Inc()
		}
		s.logger.Error().Err(err).Msg("catalog_load_failed")
		return fmt.Errorf("catalog: load: %w", err)
	}

	s.snap.Replace(courses, tutors)
	if obs.CatalogLoadsTotal != nil {
		obs.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	}
	if obs.CatalogEntries != nil {
		obs.CatalogEntries.WithLabelValues("course").Set(float64(len(courses)))
		obs.CatalogEntries.WithLabelValues("tutor").Set(float64(len(tutors)))
	}
	s.logger.Info().
		Int("courses", len(courses)).
		Int("tutors", len(tutors)).
		Msg("catalog_loaded")

	if s.bus != nil {
		if _, err := s.bus.Emit(ctx, events.TopicCatalogLoaded, 0, map[string]any{
			"courses": len(courses),
			"tutors":  len(tutors),
		}); err != nil {
			s.logger.Warn().Err(err).Msg("catalog_loaded_notify_failed")
		}
	}
	return nil
}
