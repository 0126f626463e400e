package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/utafrali/fashly/internal/catalog"
	"github.com/utafrali/fashly/internal/config"
	"github.com/utafrali/fashly/internal/event"
	handler "github.com/utafrali/fashly/internal/handler/http"
	"github.com/utafrali/fashly/internal/service"
	"github.com/utafrali/fashly/pkg/database"
	"github.com/utafrali/fashly/pkg/health"
	"github.com/utafrali/fashly/pkg/httpclient"
	pkgkafka "github.com/utafrali/fashly/pkg/kafka"
	"github.com/utafrali/fashly/pkg/middleware"
	"github.com/utafrali/fashly/pkg/tracing"
)

const (
	serviceName   = "fashly-storefront"
	evictInterval = time.Minute
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	storage  *storage
	sessions *service.SessionManager

	producer *pkgkafka.Producer
	relay    *event.Relay
	consumer *pkgkafka.Consumer

	shutdownTracer func(context.Context) error
	httpServer     *http.Server

	// Background workers run on workerCtx and are stopped by Shutdown.
	workerCtx  context.Context
	stopWorker context.CancelFunc
	workers    sync.WaitGroup
	shutdown   sync.Once
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tcfg := tracing.DefaultConfig(serviceName)
	tcfg.Environment = cfg.Environment
	tcfg.Enabled = cfg.OTELEnabled
	tcfg.OTLPEndpoint = cfg.OTELEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	shutdownTracer, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)

	// Persistence.
	healthHandler := health.NewHandler()
	store, err := openStorage(ctx, cfg, logger, healthHandler)
	if err != nil {
		_ = shutdownTracer(context.Background())
		return nil, err
	}

	// Catalog, fetched through a retrying client behind a circuit breaker.
	catalogClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("catalog"),
		logger,
	)
	cat, err := catalog.Load(ctx, cfg.CatalogURL, catalogClient, logger)
	if err != nil {
		store.close()
		_ = shutdownTracer(context.Background())
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	instanceID := cfg.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		storage:        store,
		shutdownTracer: shutdownTracer,
	}
	a.workerCtx, a.stopWorker = context.WithCancel(context.Background())

	// Change fan-out: local event streams always, other instances via Kafka.
	hub := event.NewHub()
	listeners := []event.Listener{hub.Publish}

	if cfg.KafkaEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		a.relay = event.NewRelay(a.producer, instanceID, logger)
		listeners = append(listeners, a.relay.Listen)
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka relay enabled",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("instance_id", instanceID),
		)
	}

	a.sessions = service.NewSessionManager(store.repo, cfg.SessionIdle(), logger, listeners...)

	if cfg.KafkaEnabled() {
		a.consumer = pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers: cfg.KafkaBrokers,
			// Every instance must see every change.
			GroupID:     "fashly-storefront-" + instanceID,
			Topic:       event.StoreChangedTopic,
			MinBytes:    1,
			MaxBytes:    1 << 20,
			StartOffset: kafkago.LastOffset,
		}, event.InvalidationHandler(instanceID, a.sessions, logger), logger)
	}

	// Build the dependency graph.
	services := handler.Services{
		Catalog:  service.NewCatalogService(cat),
		Cart:     service.NewCartService(a.sessions, cat, logger),
		Wishlist: service.NewWishlistService(a.sessions, cat, logger),
		Checkout: service.NewCheckoutService(a.sessions, service.CheckoutConfig{
			FlatShippingFee:       cfg.ShippingFlatFee,
			FreeShippingThreshold: cfg.FreeShippingThreshold,
			CouponCodes:           cfg.CouponCodes,
			CouponPercent:         cfg.CouponPercent,
		}, logger),
		Hub: hub,
	}

	opts := handler.Options{
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		PprofCIDRs: cfg.PprofAllowedCIDRs,
	}
	if cfg.RateLimitRPS > 0 {
		opts.RateLimit = middleware.RateLimit(a.workerCtx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	}

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler.NewRouter(services, healthHandler, logger, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No WriteTimeout: event streams stay open. Other routes are bounded
		// by the router's timeout middleware.
		IdleTimeout: 60 * time.Second,
	}

	// Shutdown waits for active requests; open event streams end here.
	a.httpServer.RegisterOnShutdown(hub.Close)

	logger.Info("application initialized",
		slog.String("storage", cfg.StorageDriver),
		slog.Int("products", cat.Len()),
	)
	return a, nil
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and background workers and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	a.startWorkers()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

func (a *App) startWorkers() {
	a.spawn(func(ctx context.Context) {
		_ = a.sessions.RunEvictor(ctx, evictInterval)
	})
	if a.storage.purge != nil {
		a.spawn(func(ctx context.Context) {
			runPurge(ctx, a.storage.purge, purgeInterval, a.logger)
		})
	}
	if a.relay != nil {
		a.spawn(func(ctx context.Context) {
			_ = a.relay.Run(ctx)
		})
	}
	if a.consumer != nil {
		a.spawn(func(ctx context.Context) {
			if err := a.consumer.Start(ctx); err != nil {
				a.logger.Error("kafka consumer stopped", slog.String("error", err.Error()))
			}
		})
	}
}

func (a *App) spawn(fn func(ctx context.Context)) {
	a.workers.Add(1)
	go func() {
		defer a.workers.Done()
		fn(a.workerCtx)
	}()
}

// Shutdown gracefully stops all components. It is safe to call more than
// once.
func (a *App) Shutdown() error {
	a.shutdown.Do(a.stop)
	return nil
}

func (a *App) stop() {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	httpCtx, cancelHTTP := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelHTTP()

	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Flush every cached session before the relay drains its queue. The
	// flush gets its own deadline so a slow HTTP drain cannot starve it.
	flushCtx, cancelFlush := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelFlush()

	if err := a.sessions.Close(flushCtx); err != nil {
		a.logger.Error("session flush error", slog.String("error", err.Error()))
	}

	a.stopWorker()
	a.workers.Wait()

	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	a.storage.close()

	tracerCtx, cancelTracer := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTracer()

	if err := a.shutdownTracer(tracerCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
}
