package service

import (
	"context"
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

// BookingRequest описывает выбранный студентом слот. Общий для брони и прямой записи.
type BookingRequest struct {
	StudentID  string
	TutorID    string
	ModuleCode string
	Date       string // YYYY-MM-DD
	StartTime  string // HH:MM
	EndTime    string // HH:MM
	Notes      string
}

// Slot возвращает слот запроса в формате каталога
func (r BookingRequest) Slot() string {
	return model.SlotLabel(r.StartTime, r.EndTime)
}

// bookingChecker проверяет запрос до любой записи в хранилище
type bookingChecker struct {
	modules  ModuleLookup
	users    UserLookup
	schedule *ScheduleService
}

func (c *bookingChecker) check(ctx context.Context, req BookingRequest) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"student_id", req.StudentID},
		{"tutor_id", req.TutorID},
		{"module_code", req.ModuleCode},
		{"date", req.Date},
		{"start_time", req.StartTime},
		{"end_time", req.EndTime},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return invalid(strings.Join(missing, ", "), "required")
	}

	if _, err := model.ParseDate(req.Date, c.schedule.Location()); err != nil {
		return invalid("date", err.Error())
	}
	if _, err := model.ParseClock(req.StartTime); err != nil {
		return invalid("start_time", err.Error())
	}
	if _, err := model.ParseClock(req.EndTime); err != nil {
		return invalid("end_time", err.Error())
	}

	module, err := c.modules.GetByCode(ctx, req.ModuleCode)
	if err != nil {
		return storageErr("get module", err)
	}
	if module == nil || !module.IsActive {
		return invalid("module_code", "unknown or inactive module")
	}

	tutor, err := c.users.GetByID(ctx, req.TutorID)
	if err != nil {
		return storageErr("get tutor", err)
	}
	if tutor == nil || !tutor.IsTutor() {
		return invalid("tutor_id", "unknown tutor")
	}

	assigned, err := c.modules.IsTutorAssigned(ctx, req.ModuleCode, req.TutorID)
	if err != nil {
		return storageErr("check module tutor", err)
	}
	if !assigned {
		return invalid("tutor_id", "tutor does not teach this module")
	}

	open, err := c.schedule.IsOpen(ctx, req.TutorID, req.Date, req.Slot())
	if err != nil {
		return err
	}
	if !open {
		return ErrSlotUnavailable
	}

	return nil
}
