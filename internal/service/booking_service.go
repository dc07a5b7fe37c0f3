package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService превращает бронь в занятие и обслуживает прямую запись
// без брони. Оба пути создают занятие только после повторной проверки слота.
type BookingService struct {
	reservations ReservationStore
	sessions     SessionStore
	schedule     *ScheduleService
	checker      *bookingChecker
	notifier     Notifier
	clock        Clock
	location     string
	logger       *zap.Logger
}

func NewBookingService(
	reservations ReservationStore,
	sessions SessionStore,
	modules ModuleLookup,
	users UserLookup,
	schedule *ScheduleService,
	notifier Notifier,
	clock Clock,
	location string,
	logger *zap.Logger,
) *BookingService {
	if location == "" {
		location = model.DefaultLocation
	}
	return &BookingService{
		reservations: reservations,
		sessions:     sessions,
		schedule:     schedule,
		checker: &bookingChecker{
			modules:  modules,
			users:    users,
			schedule: schedule,
		},
		notifier: notifier,
		clock:    clock,
		location: location,
		logger:   logger,
	}
}

// ConfirmReservation подтверждает бронь: создаёт занятие в статусе Pending
// (ждёт решения тьютора) и помечает бронь Confirmed. Возвращает ID занятия.
func (s *BookingService) ConfirmReservation(ctx context.Context, reservationID string) (string, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return "", storageErr("get reservation", err)
	}
	if reservation == nil {
		return "", notFound("reservation", reservationID)
	}

	now := s.clock.Now()

	// Статус брони не трогаем: в Expired её переводит только sweeper
	if reservation.Status == model.ReservationStatusExpired || reservation.IsExpiredAt(now) {
		return "", fmt.Errorf("reservation %q expired at %s: %w",
			reservationID, reservation.ExpiresAt.Format("15:04:05"), ErrExpired)
	}
	if !reservation.IsPending() {
		return "", fmt.Errorf("reservation %q is %s: %w", reservationID, reservation.Status, ErrAlreadyProcessed)
	}

	// Повторная проверка слота: пока бронь висела, его мог занять другой
	open, err := s.schedule.IsOpen(ctx, reservation.TutorID, reservation.Date, reservation.Slot())
	if err != nil {
		return "", err
	}
	if !open {
		s.logger.Info("Reservation lost the slot",
			zap.String("reservation_id", reservationID),
			zap.String("tutor_id", reservation.TutorID),
			zap.String("date", reservation.Date),
			zap.String("slot", reservation.Slot()),
		)
		return "", ErrSlotUnavailable
	}

	session := &model.Session{
		ID:            uuid.NewString(),
		StudentID:     reservation.StudentID,
		TutorID:       reservation.TutorID,
		ModuleCode:    reservation.ModuleCode,
		Date:          reservation.Date,
		StartTime:     reservation.StartTime,
		EndTime:       reservation.EndTime,
		Status:        model.SessionStatusPending,
		Location:      s.location,
		Notes:         reservation.Notes,
		HasFeedback:   false,
		ReservationID: &reservation.ID,
		CreatedAt:     now,
	}

	if err := s.createSession(ctx, session); err != nil {
		return "", err
	}

	confirmed, err := s.reservations.MarkConfirmed(ctx, reservation.ID, session.ID, now)
	if err != nil || !confirmed {
		// Бронь успели подтвердить или просрочить параллельно - освобождаем слот
		s.releaseSession(ctx, session)
		if err != nil {
			s.logger.Error("Failed to mark reservation confirmed",
				zap.String("reservation_id", reservation.ID),
				zap.Error(err),
			)
			return "", storageErr("mark reservation confirmed", err)
		}
		return "", fmt.Errorf("reservation %q: %w", reservation.ID, ErrAlreadyProcessed)
	}

	s.logger.Info("Reservation confirmed",
		zap.String("reservation_id", reservation.ID),
		zap.String("session_id", session.ID),
		zap.String("student_id", session.StudentID),
		zap.String("tutor_id", session.TutorID),
		zap.String("date", session.Date),
		zap.String("slot", session.Slot()),
	)

	emit(ctx, s.notifier, s.logger, newNotification(
		session.TutorID,
		"New Session Booked",
		fmt.Sprintf("A student has booked a tutoring session with you on %s at %s.", session.Date, session.StartTime),
		model.NotificationTypeBooking,
		session.ID,
	))
	emit(ctx, s.notifier, s.logger, newNotification(
		session.StudentID,
		"Booking Confirmed",
		fmt.Sprintf("Your tutoring session on %s at %s has been booked and is awaiting the tutor.", session.Date, session.StartTime),
		model.NotificationTypeConfirmation,
		session.ID,
	))

	return session.ID, nil
}

// BookDirect записывает студента сразу, без брони. Занятие создаётся
// в статусе Confirmed, тьютор получает уведомление немедленно.
func (s *BookingService) BookDirect(ctx context.Context, req BookingRequest) (string, error) {
	if err := s.checker.check(ctx, req); err != nil {
		return "", err
	}

	session := &model.Session{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		TutorID:     req.TutorID,
		ModuleCode:  req.ModuleCode,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.SessionStatusConfirmed,
		Location:    s.location,
		Notes:       req.Notes,
		HasFeedback: false,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.createSession(ctx, session); err != nil {
		return "", err
	}

	s.logger.Info("Session booked directly",
		zap.String("session_id", session.ID),
		zap.String("student_id", session.StudentID),
		zap.String("tutor_id", session.TutorID),
		zap.String("date", session.Date),
		zap.String("slot", session.Slot()),
	)

	emit(ctx, s.notifier, s.logger, newNotification(
		session.TutorID,
		"New Session Booked",
		fmt.Sprintf("A student has booked a tutoring session with you on %s at %s.", session.Date, session.StartTime),
		model.NotificationTypeBooking,
		session.ID,
	))

	return session.ID, nil
}

// createSession сохраняет занятие; конфликт уникального слота - это проигранная гонка
func (s *BookingService) createSession(ctx context.Context, session *model.Session) error {
	err := s.sessions.Create(ctx, session)
	if err == nil {
		return nil
	}

	if errors.Is(err, repository.ErrSlotConflict) {
		s.logger.Info("Slot taken by a concurrent booking",
			zap.String("tutor_id", session.TutorID),
			zap.String("date", session.Date),
			zap.String("slot", session.Slot()),
		)
		return ErrSlotUnavailable
	}

	s.logger.Error("Failed to create session",
		zap.String("student_id", session.StudentID),
		zap.String("tutor_id", session.TutorID),
		zap.Error(err),
	)
	return storageErr("create session", err)
}

// releaseSession отменяет только что созданное занятие, если бронь не удалось закрыть
func (s *BookingService) releaseSession(ctx context.Context, session *model.Session) {
	_, err := s.sessions.UpdateStatus(ctx, session.ID,
		[]model.SessionStatus{session.Status}, model.SessionStatusCancelled, s.clock.Now())
	if err != nil {
		s.logger.Error("Failed to release session after reservation conflict",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
}
