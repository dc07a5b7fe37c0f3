package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"go.uber.org/zap"
)

// ScheduleService считает свободные слоты тьютора: каталог минус занятия,
// которые держат слот. Брони (reservations) здесь не учитываются.
type ScheduleService struct {
	sessions SessionReader
	clock    Clock
	loc      *time.Location
	logger   *zap.Logger
}

func NewScheduleService(sessions SessionReader, clock Clock, loc *time.Location, logger *zap.Logger) *ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleService{
		sessions: sessions,
		clock:    clock,
		loc:      loc,
		logger:   logger,
	}
}

// AvailableSlots возвращает свободные слоты в порядке каталога.
// Ошибки не возвращает: при сбое чтения отдаёт пустой список.
func (s *ScheduleService) AvailableSlots(ctx context.Context, tutorID, date string) []string {
	slots, err := s.OpenSlots(ctx, tutorID, date)
	if err != nil {
		s.logger.Warn("Availability check degraded to no slots",
			zap.String("tutor_id", tutorID),
			zap.String("date", date),
			zap.Error(err),
		)
		return []string{}
	}
	return slots
}

// OpenSlots то же, что AvailableSlots, но возвращает ошибки валидации и хранилища.
// Используется на путях записи, где сбой нельзя выдавать за "нет слотов".
func (s *ScheduleService) OpenSlots(ctx context.Context, tutorID, date string) ([]string, error) {
	day, err := model.ParseDate(date, s.loc)
	if err != nil {
		return nil, invalid("date", err.Error())
	}

	// Прошедшие даты не бронируются
	if day.Before(s.today()) {
		return []string{}, nil
	}

	sessions, err := s.sessions.ListOccupying(ctx, tutorID, date)
	if err != nil {
		return nil, storageErr("list occupying sessions", err)
	}

	booked := make(map[string]struct{}, len(sessions))
	for _, session := range sessions {
		if session.Status.Occupies() {
			booked[session.Slot()] = struct{}{}
		}
	}

	available := make([]string, 0, len(model.DailySlots))
	for _, slot := range model.DailySlots {
		if _, taken := booked[slot]; !taken {
			available = append(available, slot)
		}
	}

	return available, nil
}

// IsOpen проверяет, свободен ли конкретный слот
func (s *ScheduleService) IsOpen(ctx context.Context, tutorID, date, slot string) (bool, error) {
	open, err := s.OpenSlots(ctx, tutorID, date)
	if err != nil {
		return false, err
	}

	for _, candidate := range open {
		if candidate == slot {
			return true, nil
		}
	}
	return false, nil
}

func (s *ScheduleService) today() time.Time {
	now := s.clock.Now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

// Location возвращает часовой пояс, в котором трактуются даты и время слотов
func (s *ScheduleService) Location() *time.Location {
	return s.loc
}
