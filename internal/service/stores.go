package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

// Интерфейсы хранилища, которые нужны сервисам. Реализации - в repository,
// in-memory фейки для тестов - в servicetest.

// GetByID-методы возвращают (nil, nil), если документа нет.

type SessionReader interface {
	ListOccupying(ctx context.Context, tutorID, date string) ([]*model.Session, error)
}

type SessionStore interface {
	SessionReader
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	ListByStudent(ctx context.Context, studentID string) ([]*model.Session, error)
	ListByTutor(ctx context.Context, tutorID string) ([]*model.Session, error)
	ListPendingByTutor(ctx context.Context, tutorID string) ([]*model.Session, error)
	UpdateStatus(ctx context.Context, id string, from []model.SessionStatus, to model.SessionStatus, at time.Time) (bool, error)
	SetHasFeedback(ctx context.Context, id string, hasFeedback bool) (bool, error)
}

type ReservationStore interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	MarkConfirmed(ctx context.Context, id, sessionID string, at time.Time) (bool, error)
	ListExpirable(ctx context.Context, now time.Time) ([]*model.Reservation, error)
	MarkExpired(ctx context.Context, id string, at time.Time) (bool, error)
}

type FeedbackStore interface {
	Create(ctx context.Context, feedback *model.Feedback) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListUnread(ctx context.Context, userID string) ([]*model.Notification, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type ModuleLookup interface {
	GetByCode(ctx context.Context, code string) (*model.Module, error)
	IsTutorAssigned(ctx context.Context, moduleCode, tutorID string) (bool, error)
	ListTutors(ctx context.Context, moduleCode string) ([]*model.User, error)
}
