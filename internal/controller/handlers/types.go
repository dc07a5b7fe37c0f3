package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Pinger проверяет доступность хранилища для /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers содержит все зависимости HTTP обработчиков
type Handlers struct {
	scheduleService     *service.ScheduleService
	reservationService  *service.ReservationService
	bookingService      *service.BookingService
	sessionService      *service.SessionService
	expiryService       *service.ExpiryService
	catalogService      *service.CatalogService
	notificationService *service.NotificationService
	db                  Pinger
	validate            *validator.Validate
	logger              *zap.Logger
}

// NewHandlers создаёт обработчики. db может быть nil, тогда /health не ходит в базу.
func NewHandlers(
	scheduleService *service.ScheduleService,
	reservationService *service.ReservationService,
	bookingService *service.BookingService,
	sessionService *service.SessionService,
	expiryService *service.ExpiryService,
	catalogService *service.CatalogService,
	notificationService *service.NotificationService,
	db Pinger,
	logger *zap.Logger,
) (*Handlers, error) {
	validate, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	return &Handlers{
		scheduleService:     scheduleService,
		reservationService:  reservationService,
		bookingService:      bookingService,
		sessionService:      sessionService,
		expiryService:       expiryService,
		catalogService:      catalogService,
		notificationService: notificationService,
		db:                  db,
		validate:            validate,
		logger:              logger,
	}, nil
}
