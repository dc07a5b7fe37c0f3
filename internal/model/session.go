package model

import "time"

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "Pending"   // Ожидает решения тьютора
	SessionStatusConfirmed SessionStatus = "Confirmed" // Подтверждено, слот занят
	SessionStatusCompleted SessionStatus = "Completed" // Занятие проведено
	SessionStatusCancelled SessionStatus = "Cancelled" // Отменено студентом, тьютором или админом
	SessionStatusRejected  SessionStatus = "Rejected"  // Отклонено тьютором

	// SessionStatusScheduled is the value older direct bookings were stored
	// with. Repositories read it back as SessionStatusConfirmed.
	SessionStatusScheduled SessionStatus = "Scheduled"
)

// DefaultLocation используется, если место занятия не задано в конфиге
const DefaultLocation = "Online"

// OccupyingStatuses are the statuses that count against slot availability.
var OccupyingStatuses = []SessionStatus{
	SessionStatusPending,
	SessionStatusConfirmed,
	SessionStatusScheduled,
}

// Occupies reports whether a session in this status holds its slot.
func (s SessionStatus) Occupies() bool {
	for _, st := range OccupyingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled || s == SessionStatusRejected
}

// NormalizeSessionStatus сводит устаревшие значения статуса к текущим
func NormalizeSessionStatus(s string) SessionStatus {
	if SessionStatus(s) == SessionStatusScheduled {
		return SessionStatusConfirmed
	}
	return SessionStatus(s)
}

type Session struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"student_id"`
	TutorID       string        `json:"tutor_id"`
	ModuleCode    string        `json:"module_code"`
	Date          string        `json:"date"`       // YYYY-MM-DD
	StartTime     string        `json:"start_time"` // HH:MM
	EndTime       string        `json:"end_time"`   // HH:MM
	Status        SessionStatus `json:"status"`
	Location      string        `json:"location"`
	Notes         string        `json:"notes"`
	HasFeedback   bool          `json:"has_feedback"`
	ReservationID *string       `json:"reservation_id,omitempty"` // nil для прямого бронирования
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
}

// Slot возвращает слот занятия в формате каталога
func (s *Session) Slot() string {
	return SlotLabel(s.StartTime, s.EndTime)
}
