package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StudentCancelWindow - студент может отменить занятие не позже, чем за сутки до начала
const StudentCancelWindow = 24 * time.Hour

// SessionService ведёт занятие по статусам и принимает отзывы
type SessionService struct {
	sessions SessionStore
	feedback FeedbackStore
	notifier Notifier
	clock    Clock
	loc      *time.Location
	logger   *zap.Logger
}

func NewSessionService(
	sessions SessionStore,
	feedback FeedbackStore,
	notifier Notifier,
	clock Clock,
	loc *time.Location,
	logger *zap.Logger,
) *SessionService {
	if loc == nil {
		loc = time.Local
	}
	return &SessionService{
		sessions: sessions,
		feedback: feedback,
		notifier: notifier,
		clock:    clock,
		loc:      loc,
		logger:   logger,
	}
}

// Confirm подтверждает Pending занятие (тьютор)
func (s *SessionService) Confirm(ctx context.Context, actor model.Actor, sessionID string) (*model.Session, error) {
	return s.apply(ctx, actor, sessionID, model.SessionEventConfirm)
}

// Reject отклоняет Pending занятие (тьютор)
func (s *SessionService) Reject(ctx context.Context, actor model.Actor, sessionID string) (*model.Session, error) {
	return s.apply(ctx, actor, sessionID, model.SessionEventReject)
}

// Cancel отменяет занятие. Студенту - только раньше, чем за 24 часа до начала.
func (s *SessionService) Cancel(ctx context.Context, actor model.Actor, sessionID string) (*model.Session, error) {
	return s.apply(ctx, actor, sessionID, model.SessionEventCancel)
}

// Complete отмечает проведённое занятие
func (s *SessionService) Complete(ctx context.Context, actor model.Actor, sessionID string) (*model.Session, error) {
	return s.apply(ctx, actor, sessionID, model.SessionEventComplete)
}

func (s *SessionService) apply(ctx context.Context, actor model.Actor, sessionID string, ev model.SessionEvent) (*model.Session, error) {
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tr, ok := model.SessionTransitionFor(session.Status, ev)
	if !ok {
		return nil, fmt.Errorf("cannot %s a %s session: %w", ev, session.Status, ErrInvalidTransition)
	}

	if err := s.authorize(actor, session, tr); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if ev == model.SessionEventCancel && actor.Role == model.RoleStudent {
		startsAt, err := model.StartsAt(session.Date, session.StartTime, s.loc)
		if err != nil {
			return nil, invalid("session", err.Error())
		}
		if now.After(startsAt.Add(-StudentCancelWindow)) {
			return nil, fmt.Errorf("session starts at %s: %w", startsAt.Format("2006-01-02 15:04"), ErrTooLateToCancel)
		}
	}

	updated, err := s.sessions.UpdateStatus(ctx, session.ID, []model.SessionStatus{tr.From}, tr.To, now)
	if err != nil {
		s.logger.Error("Failed to update session status",
			zap.String("session_id", session.ID),
			zap.String("to", string(tr.To)),
			zap.Error(err),
		)
		return nil, storageErr("update session status", err)
	}
	if !updated {
		return nil, fmt.Errorf("session %q changed concurrently: %w", session.ID, ErrAlreadyProcessed)
	}

	session.Status = tr.To
	session.UpdatedAt = &now
	if tr.To == model.SessionStatusCancelled {
		session.CancelledAt = &now
	}

	s.logger.Info("Session status changed",
		zap.String("session_id", session.ID),
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", string(actor.Role)),
	)

	s.notifyTransition(ctx, actor, session)

	return session, nil
}

// authorize проверяет роль и владение: тьютор и студент действуют
// только со своими занятиями, админ - с любыми
func (s *SessionService) authorize(actor model.Actor, session *model.Session, tr model.SessionTransition) error {
	if !tr.AllowsRole(actor.Role) {
		return fmt.Errorf("%s cannot %s a session: %w", actor.Role, tr.Event, ErrForbidden)
	}

	switch actor.Role {
	case model.RoleTutor:
		if session.TutorID != actor.ID {
			return fmt.Errorf("session belongs to another tutor: %w", ErrForbidden)
		}
	case model.RoleStudent:
		if session.StudentID != actor.ID {
			return fmt.Errorf("session belongs to another student: %w", ErrForbidden)
		}
	}

	return nil
}

func (s *SessionService) notifyTransition(ctx context.Context, actor model.Actor, session *model.Session) {
	when := fmt.Sprintf("%s at %s", session.Date, session.StartTime)

	switch session.Status {
	case model.SessionStatusConfirmed:
		emit(ctx, s.notifier, s.logger, newNotification(session.StudentID,
			"Session Confirmed",
			fmt.Sprintf("Your tutor confirmed the session on %s.", when),
			model.NotificationTypeStatus, session.ID))
	case model.SessionStatusRejected:
		emit(ctx, s.notifier, s.logger, newNotification(session.StudentID,
			"Session Rejected",
			fmt.Sprintf("Your tutor could not take the session on %s. Please pick another slot.", when),
			model.NotificationTypeStatus, session.ID))
	case model.SessionStatusCompleted:
		emit(ctx, s.notifier, s.logger, newNotification(session.StudentID,
			"Session Completed",
			fmt.Sprintf("Your session on %s is complete. You can now leave feedback.", when),
			model.NotificationTypeStatus, session.ID))
	case model.SessionStatusCancelled:
		if actor.Role != model.RoleStudent {
			emit(ctx, s.notifier, s.logger, newNotification(session.StudentID,
				"Session Cancelled",
				fmt.Sprintf("Your session on %s has been cancelled.", when),
				model.NotificationTypeCancellation, session.ID))
		}
		if actor.Role != model.RoleTutor {
			emit(ctx, s.notifier, s.logger, newNotification(session.TutorID,
				"Session Cancelled",
				fmt.Sprintf("The session on %s has been cancelled.", when),
				model.NotificationTypeCancellation, session.ID))
		}
	}
}

// FeedbackInput - отзыв студента о проведённом занятии
type FeedbackInput struct {
	Rating      int
	Text        string
	WasHelpful  bool
	Improvement string
}

// SubmitFeedback принимает один отзыв на завершённое занятие.
// Статус занятия не меняется, меняется только флаг has_feedback.
func (s *SessionService) SubmitFeedback(ctx context.Context, studentID, sessionID string, in FeedbackInput) (string, error) {
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return "", invalid("rating", fmt.Sprintf("must be between %d and %d", model.MinRating, model.MaxRating))
	}

	session, err := s.get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.StudentID != studentID {
		return "", fmt.Errorf("session belongs to another student: %w", ErrForbidden)
	}
	if session.Status != model.SessionStatusCompleted {
		return "", fmt.Errorf("feedback on a %s session: %w", session.Status, ErrInvalidTransition)
	}
	if session.HasFeedback {
		return "", ErrFeedbackExists
	}

	// Сначала захватываем флаг: из двух параллельных отзывов пройдёт один
	claimed, err := s.sessions.SetHasFeedback(ctx, session.ID, true)
	if err != nil {
		return "", storageErr("set feedback flag", err)
	}
	if !claimed {
		return "", ErrFeedbackExists
	}

	feedback := &model.Feedback{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		StudentID:   studentID,
		TutorID:     session.TutorID,
		Rating:      in.Rating,
		Text:        in.Text,
		WasHelpful:  in.WasHelpful,
		Improvement: in.Improvement,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.feedback.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrFeedbackExists
		}
		if _, releaseErr := s.sessions.SetHasFeedback(ctx, session.ID, false); releaseErr != nil {
			s.logger.Error("Failed to release feedback flag",
				zap.String("session_id", session.ID),
				zap.Error(releaseErr),
			)
		}
		return "", storageErr("create feedback", err)
	}

	s.logger.Info("Feedback submitted",
		zap.String("feedback_id", feedback.ID),
		zap.String("session_id", session.ID),
		zap.Int("rating", in.Rating),
	)

	emit(ctx, s.notifier, s.logger, newNotification(session.TutorID,
		"New Feedback",
		fmt.Sprintf("A student rated the session on %s %d/%d.", session.Date, in.Rating, model.MaxRating),
		model.NotificationTypeFeedback, session.ID))

	return feedback.ID, nil
}

// GetByID получает занятие по ID
func (s *SessionService) GetByID(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.get(ctx, sessionID)
}

// ForStudent получает все занятия студента
func (s *SessionService) ForStudent(ctx context.Context, studentID string) ([]*model.Session, error) {
	sessions, err := s.sessions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storageErr("list student sessions", err)
	}
	return sessions, nil
}

// ForTutor получает все занятия тьютора
func (s *SessionService) ForTutor(ctx context.Context, tutorID string) ([]*model.Session, error) {
	sessions, err := s.sessions.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, storageErr("list tutor sessions", err)
	}
	return sessions, nil
}

// PendingForTutor получает занятия, ожидающие решения тьютора
func (s *SessionService) PendingForTutor(ctx context.Context, tutorID string) ([]*model.Session, error) {
	sessions, err := s.sessions.ListPendingByTutor(ctx, tutorID)
	if err != nil {
		return nil, storageErr("list pending sessions", err)
	}
	return sessions, nil
}

func (s *SessionService) get(ctx context.Context, sessionID string) (*model.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, storageErr("get session", err)
	}
	if session == nil {
		return nil, notFound("session", sessionID)
	}
	return session, nil
}
