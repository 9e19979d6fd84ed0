// Package app wires the service's dependency graph from configuration. All
// external systems are optional: an unset credential selects the fallback
// (in-memory store, synthetic verification, log mailer) so the service comes
// up with zero secrets configured.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SFitz911/Carrier-Broker-Saas/internal/cache"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/config"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/event"
	handler "github.com/SFitz911/Carrier-Broker-Saas/internal/handler/http"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/mailer"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository/memory"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/repository/postgres"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/service"
	"github.com/SFitz911/Carrier-Broker-Saas/internal/verify"
	"github.com/SFitz911/Carrier-Broker-Saas/migrations"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/database"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/health"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/httpclient"
	pkgkafka "github.com/SFitz911/Carrier-Broker-Saas/pkg/kafka"
	"github.com/SFitz911/Carrier-Broker-Saas/pkg/middleware"
)

// App wires together all dependencies and runs the HTTP API.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	healthHandler := health.NewHandler()

	var (
		reviewRepo  repository.ReviewRepository
		companyRepo repository.CompanyRepository
		pool        *pgxpool.Pool
	)

	if cfg.UsePostgres() {
		var err error
		pool, err = database.NewPostgresPool(ctx, cfg.DatabaseURL, database.DefaultPoolConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := database.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		database.RegisterPoolMetrics(pool, "carrierboard")

		reviewRepo = postgres.NewReviewRepository(pool)
		companyRepo = postgres.NewCompanyRepository(pool)
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
		logger.Info("connected to PostgreSQL")
	} else {
		memCompanies := memory.NewCompanyRepository()
		memReviews := memory.NewReviewRepository()
		if err := memory.Seed(ctx, memCompanies, memReviews); err != nil {
			return nil, fmt.Errorf("seed in-memory store: %w", err)
		}
		reviewRepo = memReviews
		companyRepo = memCompanies
		logger.Info("using in-memory store (no DATABASE_URL configured)")
	}

	var profiles *cache.ProfileCache
	if cfg.UseRedis() {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		profiles = cache.NewProfileCache(redisClient, cache.DefaultTTL, logger)
		healthHandler.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		logger.Info("profile cache enabled", slog.String("addr", cfg.RedisAddr))
	}

	var producer *pkgkafka.Producer
	var eventProducer *event.Producer
	if cfg.UseKafka() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		eventProducer = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	var mail mailer.Mailer
	if cfg.UseSMTP() {
		mail = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, logger)
	} else {
		mail = mailer.NewLogMailer(cfg.SMTPFrom, logger)
	}
	logger.Info("mailer selected", slog.String("mailer", mail.Name()))

	var verifier verify.Verifier
	if cfg.UseLiveVerification() {
		clientCfg := httpclient.DefaultConfig()
		clientCfg.Timeout = cfg.FMCSATimeout
		// Verification fails closed; the circuit breaker handles upstream
		// flapping so no request-level retries.
		clientCfg.MaxRetries = 0
		fmcsaClient := httpclient.NewCircuitBreakerClient(
			httpclient.New(clientCfg),
			httpclient.DefaultCircuitBreakerConfig("fmcsa"),
			logger,
		)
		verifier = verify.NewFMCSAClient(cfg.FMCSAAPIURL, cfg.FMCSAAPIKey, fmcsaClient, logger)
		logger.Info("live FMCSA verification enabled")
	} else {
		verifier = verify.NewSynthetic(logger)
		logger.Info("synthetic verification enabled (no FMCSA_API_KEY configured)")
	}

	reviewService := service.NewReviewService(reviewRepo, companyRepo, eventProducer, mail, profiles, logger)
	companyService := service.NewCompanyService(companyRepo, reviewRepo, profiles, logger)

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(reviewService, companyService, verifier, healthHandler, handler.RouterConfig{
		CORS:           corsConfig,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
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
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("application shutdown complete")
	return nil
}
