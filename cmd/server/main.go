package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/prestapp/prestamos/internal/adapter/http"
	"github.com/prestapp/prestamos/internal/adapter/http/handler"
	"github.com/prestapp/prestamos/internal/adapter/http/middleware"
	postgresRepo "github.com/prestapp/prestamos/internal/adapter/repository/postgres"
	redisRepo "github.com/prestapp/prestamos/internal/adapter/repository/redis"
	miniostore "github.com/prestapp/prestamos/internal/adapter/storage/minio"
	"github.com/prestapp/prestamos/internal/infrastructure/config"
	"github.com/prestapp/prestamos/internal/infrastructure/logger"
	"github.com/prestapp/prestamos/internal/infrastructure/logging"
	"github.com/prestapp/prestamos/internal/infrastructure/metrics"
	"github.com/prestapp/prestamos/internal/infrastructure/postgres"
	"github.com/prestapp/prestamos/internal/infrastructure/redis"
	"github.com/prestapp/prestamos/internal/infrastructure/reminder"
	"github.com/prestapp/prestamos/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Photo storage is optional
	var photoStore handler.PhotoStore
	if cfg.MinioEndpoint != "" {
		store, err := miniostore.NewPhotoStore(miniostore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Region:    cfg.MinioRegion,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to object storage")
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure photo bucket")
		}
		photoStore = store
		log.Info().Str("bucket", cfg.MinioBucket).Msg("photo storage ready")
	} else {
		log.Warn().Msg("photo storage disabled, loan photos will not be stored")
	}

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	loanRepo := postgresRepo.NewLoanRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	capitalRepo := postgresRepo.NewCapitalRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	loanUC := usecase.NewLoanUseCase(txManager, clientRepo, loanRepo, paymentRepo, idGen, loc)
	paymentUC := usecase.NewPaymentUseCase(txManager, loanRepo, paymentRepo, capitalRepo, idGen, retrier, cache, loc)
	capitalUC := usecase.NewCapitalUseCase(txManager, capitalRepo, idGen, cache, loc)

	// Initialize handlers
	loanHandler := handler.NewLoanHandler(loanUC, photoStore)
	paymentHandler := handler.NewPaymentHandler(paymentUC)
	capitalHandler := handler.NewCapitalHandler(capitalUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LoanHandler:      loanHandler,
		PaymentHandler:   paymentHandler,
		CapitalHandler:   capitalHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
	})

	// Daily reminder sweep
	var messenger reminder.Messenger
	switch {
	case cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioWhatsAppFrom != "":
		messenger = reminder.NewTwilioMessenger(reminder.TwilioConfig{
			AccountSID:     cfg.TwilioAccountSID,
			AuthToken:      cfg.TwilioAuthToken,
			WhatsAppNumber: cfg.TwilioWhatsAppFrom,
		})
		log.Info().Msg("whatsapp reminders enabled")
	default:
		messenger = reminder.NewLogMessenger(slogger.Logger)
		log.Warn().Msg("twilio not configured, reminders will be logged only")
	}

	sweeper := reminder.NewSweeper(reminder.Config{
		Loans:     loanUC,
		Messenger: messenger,
		Logger:    slogger.Logger,
		Metrics:   metrics.New(),
		Location:  loc,
		Hour:      cfg.ReminderHour,
	})

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweeper.Start(sweepCtx)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopSweep()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
