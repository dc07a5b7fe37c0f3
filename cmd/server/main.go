package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/app"
	"github.com/Freeeeeet/peer_tutoring/internal/config"
	"github.com/Freeeeeet/peer_tutoring/internal/controller"
	"github.com/Freeeeeet/peer_tutoring/internal/controller/handlers"
	"github.com/Freeeeeet/peer_tutoring/internal/notification"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, "peer-tutoring")
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("Connected to database")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Репозитории
	sessionRepo := repository.NewSessionRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	moduleRepo := repository.NewModuleRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// Telegram необязателен: без токена уведомления только сохраняются
	var pusher service.Pusher
	if cfg.TelegramToken != "" {
		tg, err := notification.NewTelegramPusher(cfg.TelegramToken, logger)
		if err != nil {
			logger.Warn("Telegram delivery disabled", zap.Error(err))
		} else {
			pusher = tg
		}
	}

	// Сервисы
	clock := service.SystemClock{}
	notificationService := service.NewNotificationService(notificationRepo, userRepo, pusher, clock, logger)
	scheduleService := service.NewScheduleService(sessionRepo, clock, cfg.Location, logger)
	reservationService := service.NewReservationService(reservationRepo, moduleRepo, userRepo, scheduleService, clock, logger)
	bookingService := service.NewBookingService(reservationRepo, sessionRepo, moduleRepo, userRepo, scheduleService, notificationService, clock, cfg.DefaultLocation, logger)
	sessionService := service.NewSessionService(sessionRepo, feedbackRepo, notificationService, clock, cfg.Location, logger)
	expiryService := service.NewExpiryService(reservationRepo, clock, logger)
	catalogService := service.NewCatalogService(moduleRepo, logger)

	h, err := handlers.NewHandlers(
		scheduleService,
		reservationService,
		bookingService,
		sessionService,
		expiryService,
		catalogService,
		notificationService,
		pool,
		logger,
	)
	if err != nil {
		return err
	}

	scheduler, err := app.NewScheduler(cfg.SweepSchedule, expiryService, logger)
	if err != nil {
		return err
	}
	scheduler.Start()

	server := controller.NewHTTPController(h, logger, !cfg.IsProduction())
	server.RegisterHandlers()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.HTTPAddr)
	}()

	logger.Info("Peer tutoring service started",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Location.String()),
		zap.String("sweep_schedule", cfg.SweepSchedule),
		zap.Bool("telegram", pusher != nil),
	)

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", zap.Error(err))
	}

	return serveErr
}
