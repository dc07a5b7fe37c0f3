package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/app"
	"github.com/Freeeeeet/peer_tutoring/internal/config"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Разовая очистка просроченных броней, для запуска из внешнего cron
func main() {
	os.Exit(run())
}

// run возвращает код выхода процесса
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	logger := app.NewLogger(cfg.Environment, "peer-tutoring-sweep")
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Error("Failed to create pool", zap.Error(err))
		return 1
	}
	defer pool.Close()

	expiry := service.NewExpiryService(repository.NewReservationRepository(pool), service.SystemClock{}, logger)

	expired, err := expiry.SweepExpired(ctx)
	if err != nil {
		logger.Error("Sweep finished with errors", zap.Int("expired", expired), zap.Error(err))
		return 1
	}

	logger.Info("Sweep finished", zap.Int("expired", expired))
	return 0
}
