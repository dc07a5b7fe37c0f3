package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper - то, что планировщик запускает по расписанию
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Scheduler запускает очистку просроченных броней по cron расписанию
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	timeout time.Duration
	logger  *zap.Logger
}

// NewScheduler создаёт планировщик. Пустой spec - планировщик ничего не запускает.
func NewScheduler(spec string, sweeper Sweeper, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		// Пропускаем запуск, если предыдущий ещё не закончился
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		sweeper: sweeper,
		timeout: time.Minute,
		logger:  logger,
	}

	if spec == "" {
		logger.Info("Reservation sweep schedule is empty, periodic sweep disabled")
		return s, nil
	}

	if _, err := s.cron.AddFunc(spec, s.runSweep); err != nil {
		return nil, fmt.Errorf("schedule sweep %q: %w", spec, err)
	}

	return s, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start() {
	s.logger.Info("Starting background scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения текущего запуска
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("Stopping background scheduler")
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Sweep still running at shutdown")
	}
}

func (s *Scheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	expired, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("Reservation sweep failed", zap.Int("expired", expired), zap.Error(err))
		return
	}

	s.logger.Debug("Reservation sweep completed", zap.Int("expired", expired))
}
