package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-lingua/internal/catalog"
	"github.com/noah-isme/backend-lingua/internal/common"
	"github.com/noah-isme/backend-lingua/internal/config"
	"github.com/noah-isme/backend-lingua/internal/events"
	"github.com/noah-isme/backend-lingua/internal/health"
	"github.com/noah-isme/backend-lingua/internal/notify"
	"github.com/noah-isme/backend-lingua/internal/obs"
	"github.com/noah-isme/backend-lingua/internal/order"
	"github.com/noah-isme/backend-lingua/internal/ratelimit"
	"github.com/noah-isme/backend-lingua/internal/resilience"
	"github.com/noah-isme/backend-lingua/internal/school"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	obs.MustRegisterDomainMetrics(cfg.MetricsNamespace, nil)

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "lingua-api",
			Endpoint:      cfg.TracingEndpoint,
			SamplingRatio: cfg.TracingSampleRatio,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("parse redis url")
		}
		redisClient = redis.NewClient(redisOpts)
		if err := redisotel.InstrumentTracing(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis tracing")
		}
		if err := redisotel.InstrumentMetrics(redisClient); err != nil {
			logger.Error().Err(err).Msg("instrument redis metrics")
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("ping redis")
		}
	} else {
		logger.Warn().Msg("redis not configured, catalog cache and rate limiting disabled")
	}

	breaker := resilience.NewBreaker("school-api", cfg.BreakerMinRequests, cfg.BreakerFailureRatio, cfg.BreakerOpenFor, logger)
	schoolClient, err := school.NewClient(school.Config{
		BaseURL: cfg.UpstreamBaseURL,
		APIKey:  cfg.UpstreamAPIKey,
		Timeout: cfg.UpstreamTimeout,
		Breaker: breaker,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise school client")
	}

	bus := &events.Bus{Notifiers: []events.Notifier{
		notify.LogNotifier{Logger: logger},
		notify.MetricsNotifier{},
	}}

	catalogService := catalog.NewService(catalog.ServiceConfig{
		Source: catalog.NewAPISource(schoolClient, catalog.NewCache(redisClient, cfg.CatalogCacheTTL)),
		Bus:    bus,
		Logger: logger,
	})
	if err := catalogService.Load(ctx); err != nil {
		logger.Error().Err(err).Msg("initial catalog load, serving until reload succeeds")
	}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{
		Service:  catalogService,
		PageSize: cfg.CatalogPageSize,
	})

	orderService := order.NewService(order.ServiceConfig{
		Gateway:  order.NewGateway(schoolClient),
		Snapshot: catalogService.Snapshot(),
		Bus:      bus,
		Logger:   logger,
	})
	orderHandler := order.NewHandler(order.HandlerConfig{
		Service:  orderService,
		PageSize: cfg.OrdersPageSize,
	})

	quoteLimit := ratelimit.Handler{
		Limiter: ratelimit.NewLimiter(redisClient, "quotes:"),
		Config: ratelimit.Config{
			Key:    func(r *http.Request) string { return common.ClientIP(r) },
			Window: cfg.QuoteRateWindow,
			Max:    cfg.QuoteRateMax,
		},
		OnError: func(err error) {
			logger.Error().Err(err).Msg("quote rate limiter")
		},
	}

	httpMetrics := obs.NewHTTPMetrics(cfg.MetricsNamespace, obs.ParseBucketsCSV(cfg.MetricsBuckets), nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if cfg.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Total-Count"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{
		Checker: readinessChecker{snap: catalogService.Snapshot(), redis: redisClient},
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/courses", catalogHandler.Courses)
		v.Get("/tutors", catalogHandler.Tutors)
		v.Get("/languages", catalogHandler.Languages)
		v.Post("/catalog/reload", catalogHandler.Reload)

		v.With(quoteLimit.Middleware).Post("/quotes", orderHandler.Quote)

		v.Route("/orders", func(o chi.Router) {
			o.Get("/", orderHandler.List)
			o.Post("/", orderHandler.Create)
			o.Route("/{orderId}", func(child chi.Router) {
				child.Get("/", orderHandler.Detail)
				child.Put("/", orderHandler.Update)
				child.Delete("/", orderHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case <-stopCtx.Done():
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	snap  *catalog.Snapshot
	redis *redis.Client
}

func (c readinessChecker) PingCatalog(_ context.Context, _ time.Duration) error {
	if c.snap == nil || !c.snap.Ready() {
		return errors.New("catalog not loaded")
	}
	return nil
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}
