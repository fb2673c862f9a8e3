package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/config"
	"ebdmanager/internal/database"
	"ebdmanager/internal/handlers"
	"ebdmanager/internal/logging"
	"ebdmanager/internal/metrics"
	"ebdmanager/internal/repository"
	"ebdmanager/internal/security"
	"ebdmanager/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	zlog.Logger = logger

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	logger.Info().Str("type", cfg.DatabaseType).Msg("database connection established")

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize repositories
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	m := metrics.New(prometheus.DefaultRegisterer)

	emailService, err := service.NewEmailService(context.Background(), cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize email service")
	}

	// Initialize services
	loader := service.NewSnapshotLoader(studentRepo, classRepo, teacherRepo, attendanceRepo, m, logger)
	reportService := service.NewReportService(loader, settingsRepo, cfg.ChurchSettings(), m, logger)
	registryService := service.NewRegistryService(loader, studentRepo, settingsRepo, cfg.ChurchSettings(), emailService, cfg.SecretaryEmail, m, logger)

	// Rate limit the deactivation endpoint per client
	applyLimiter := security.NewRateLimiter(cfg.ApplyRateLimit, time.Minute)
	defer applyLimiter.Stop()

	router := handlers.NewRouter(
		handlers.NewReportHandler(reportService, calendar.Today, logger),
		handlers.NewRegistryHandler(registryService, applyLimiter, logger),
		m,
		prometheus.DefaultGatherer,
		handlers.RouterOptions{RequestTimeout: cfg.RequestTimeout, TrustProxy: cfg.TrustProxy},
		logger,
	)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
