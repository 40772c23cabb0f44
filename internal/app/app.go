package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/swagshop/internal/config"
	"github.com/utafrali/swagshop/internal/event"
	handler "github.com/utafrali/swagshop/internal/handler/http"
	"github.com/utafrali/swagshop/internal/service"
	"github.com/utafrali/swagshop/pkg/database"
	"github.com/utafrali/swagshop/pkg/health"
	pkgkafka "github.com/utafrali/swagshop/pkg/kafka"
	"github.com/utafrali/swagshop/pkg/middleware"
	"github.com/utafrali/swagshop/pkg/tracing"
)

// newCompressor builds the response compression middleware. Tests replace it
// to exercise the startup failure path.
var newCompressor = middleware.Compress

// App wires together all dependencies and runs the swag-shop service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	store          *store
	producer       *pkgkafka.Producer
	limiter        *middleware.RateLimiter
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
// On failure everything opened so far is released.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, cfg.TracingConfig())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	// Configure slow query logging before any store call.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)
	}

	a.store, err = openStore(ctx, cfg, logger)
	if err != nil {
		_ = a.release()
		return nil, err
	}

	// Domain events. With Kafka disabled every event is dropped.
	var events service.EventPublisher = event.Discard{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(cfg.KafkaConfig(), logger)
		events = event.NewProducer(a.producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	productService := service.NewProductService(a.store.products, events, logger)
	wishListService := service.NewWishListService(a.store.wishLists, events, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical(a.store.driver, a.store.ping)
	if a.producer != nil {
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
	}

	if cfg.RateLimitRPS > 0 {
		a.limiter = middleware.NewRateLimiter(context.Background(), config.ServiceName,
			cfg.RateLimitRPS, cfg.RateLimitBurst, time.Minute, 3*time.Minute)
	}

	// HTTP router.
	var router http.Handler = handler.NewRouter(productService, wishListService, healthHandler, handler.RouterConfig{
		ServiceName:       config.ServiceName,
		CORS:              cfg.CORSConfig(),
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		RateLimiter:       a.limiter,
	}, logger)

	if cfg.HTTPGzipEnabled {
		compress, err := newCompressor(cfg.HTTPGzipMinSize)
		if err != nil {
			_ = a.release()
			return nil, fmt.Errorf("configure gzip: %w", err)
		}
		router = compress(router)
	}

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.HTTPReadTimeoutSecs) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTPWriteTimeoutSecs) * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("store", a.store.driver),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: HTTP server, rate
// limiter, tracer, Kafka producer, store.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Drain in-flight HTTP requests.
	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Release after the HTTP drain so in-flight request spans are flushed.
	if err := a.release(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// release stops every component NewApp has opened so far, skipping the
// ones it never reached.
func (a *App) release() error {
	var errs []error

	if a.limiter != nil {
		a.limiter.Shutdown()
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.store != nil {
		storeCtx, storeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer storeCancel()
		if err := a.store.close(storeCtx); err != nil {
			a.logger.Error("store close error", slog.String("store", a.store.driver), slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
