package service

import (
	"context"
	"errors"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService создаёт временные брони слотов.
// Бронь слот не блокирует: две брони на один слот допустимы, конфликт
// разрешается при подтверждении (BookingService.ConfirmReservation).
type ReservationService struct {
	reservations ReservationStore
	checker      *bookingChecker
	clock        Clock
	logger       *zap.Logger
}

func NewReservationService(
	reservations ReservationStore,
	modules ModuleLookup,
	users UserLookup,
	schedule *ScheduleService,
	clock Clock,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		checker: &bookingChecker{
			modules:  modules,
			users:    users,
			schedule: schedule,
		},
		clock:  clock,
		logger: logger,
	}
}

// CreateReservation проверяет запрос и сохраняет Pending бронь на 15 минут
func (s *ReservationService) CreateReservation(ctx context.Context, req BookingRequest) (string, error) {
	if err := s.checker.check(ctx, req); err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			s.logger.Info("Reservation refused, slot unavailable",
				zap.String("tutor_id", req.TutorID),
				zap.String("date", req.Date),
				zap.String("slot", req.Slot()),
			)
		}
		return "", err
	}

	now := s.clock.Now()
	reservation := &model.Reservation{
		ID:         uuid.NewString(),
		StudentID:  req.StudentID,
		TutorID:    req.TutorID,
		ModuleCode: req.ModuleCode,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
		Status:     model.ReservationStatusPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(model.ReservationTTL),
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		s.logger.Error("Failed to create reservation",
			zap.String("student_id", req.StudentID),
			zap.String("tutor_id", req.TutorID),
			zap.Error(err),
		)
		return "", storageErr("create reservation", err)
	}

	s.logger.Info("Reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.String("student_id", req.StudentID),
		zap.String("tutor_id", req.TutorID),
		zap.String("date", req.Date),
		zap.String("slot", req.Slot()),
		zap.Time("expires_at", reservation.ExpiresAt),
	)

	return reservation.ID, nil
}

// GetByID получает бронь по ID
func (s *ReservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get reservation", err)
	}
	if reservation == nil {
		return nil, notFound("reservation", id)
	}
	return reservation, nil
}
