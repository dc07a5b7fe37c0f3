package service

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ExpiryService переводит просроченные Pending брони в Expired.
// Занятия не трогает. Доступность слотов от броней не зависит, так что
// это гигиена журнала броней, а не освобождение слотов.
type ExpiryService struct {
	reservations ReservationStore
	clock        Clock
	logger       *zap.Logger
}

func NewExpiryService(reservations ReservationStore, clock Clock, logger *zap.Logger) *ExpiryService {
	return &ExpiryService{
		reservations: reservations,
		clock:        clock,
		logger:       logger,
	}
}

// SweepExpired помечает истёкшие брони и возвращает их количество.
// Повторный запуск ничего не меняет. Ошибка по одной брони не
// останавливает обход, все ошибки возвращаются вместе.
func (s *ExpiryService) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()

	expirable, err := s.reservations.ListExpirable(ctx, now)
	if err != nil {
		return 0, storageErr("list expirable reservations", err)
	}

	var (
		expired int
		errs    error
	)
	for _, reservation := range expirable {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}

		ok, err := s.reservations.MarkExpired(ctx, reservation.ID, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("expire reservation %s: %w", reservation.ID, err))
			continue
		}
		// false - бронь подтвердили между выборкой и обновлением
		if ok {
			expired++
		}
	}

	if expired > 0 {
		s.logger.Info("Expired stale reservations",
			zap.Int("count", expired),
			zap.Int("scanned", len(expirable)),
		)
	}

	if errs != nil {
		s.logger.Error("Reservation sweep finished with errors",
			zap.Int("expired", expired),
			zap.Error(errs),
		)
		return expired, storageErr("expire reservations", errs)
	}

	return expired, nil
}
