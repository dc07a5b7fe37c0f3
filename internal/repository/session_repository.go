package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const occupiedSlotIndex = "uq_sessions_occupied_slot"

const sessionColumns = `
	id, student_id, tutor_id, module_code, date, start_time, end_time, status,
	location, notes, has_feedback, reservation_id, created_at, updated_at, cancelled_at`

type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт занятие. Если слот уже занят другим активным занятием
// тьютора, возвращает ErrSlotConflict.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.Pool().Exec(
		ctx, query,
		session.ID,
		session.StudentID,
		session.TutorID,
		session.ModuleCode,
		session.Date,
		session.StartTime,
		session.EndTime,
		session.Status,
		session.Location,
		session.Notes,
		session.HasFeedback,
		session.ReservationID,
		session.CreatedAt,
		session.UpdatedAt,
		session.CancelledAt,
	)

	if err != nil {
		if base.IsUniqueViolation(err, occupiedSlotIndex) {
			return ErrSlotConflict
		}
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID получает занятие по ID
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

// ListOccupying получает занятия тьютора на дату, которые занимают слот
func (r *SessionRepository) ListOccupying(ctx context.Context, tutorID, date string) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE tutor_id = $1 AND date = $2 AND status = ANY($3)
		ORDER BY start_time
	`

	sessions, err := r.list(ctx, query, tutorID, date, statusStrings(model.OccupyingStatuses))
	if err != nil {
		return nil, fmt.Errorf("list occupying sessions: %w", err)
	}

	return sessions, nil
}

// ListByStudent получает все занятия студента
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID string) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	sessions, err := r.list(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by student: %w", err)
	}

	return sessions, nil
}

// ListByTutor получает все занятия тьютора
func (r *SessionRepository) ListByTutor(ctx context.Context, tutorID string) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE tutor_id = $1
		ORDER BY created_at DESC
	`

	sessions, err := r.list(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by tutor: %w", err)
	}

	return sessions, nil
}

// ListPendingByTutor получает занятия, ожидающие решения тьютора
func (r *SessionRepository) ListPendingByTutor(ctx context.Context, tutorID string) ([]*model.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE tutor_id = $1 AND status = $2
		ORDER BY created_at ASC
	`

	sessions, err := r.list(ctx, query, tutorID, model.SessionStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending sessions by tutor: %w", err)
	}

	return sessions, nil
}

// UpdateStatus переводит занятие в статус to, только если текущий статус
// входит в from. Возвращает false, если документ не подошёл под условие.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, from []model.SessionStatus, to model.SessionStatus, at time.Time) (bool, error) {
	query := `
		UPDATE sessions
		SET status = $1,
		    updated_at = $2,
		    cancelled_at = CASE WHEN $1 = 'Cancelled' THEN $2 ELSE cancelled_at END
		WHERE id = $3 AND status = ANY($4)
	`

	affected, err := r.ExecAffected(ctx, query, string(to), at, id, statusStrings(withLegacy(from)))
	if err != nil {
		return false, fmt.Errorf("update session status: %w", err)
	}

	return affected > 0, nil
}

// SetHasFeedback меняет флаг отзыва, только если он ещё не в нужном значении
func (r *SessionRepository) SetHasFeedback(ctx context.Context, id string, hasFeedback bool) (bool, error) {
	query := `
		UPDATE sessions
		SET has_feedback = $1
		WHERE id = $2 AND has_feedback <> $1
	`

	affected, err := r.ExecAffected(ctx, query, hasFeedback, id)
	if err != nil {
		return false, fmt.Errorf("set session feedback flag: %w", err)
	}

	return affected > 0, nil
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Session, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var (
		session model.Session
		status  string
	)

	err := row.Scan(
		&session.ID,
		&session.StudentID,
		&session.TutorID,
		&session.ModuleCode,
		&session.Date,
		&session.StartTime,
		&session.EndTime,
		&status,
		&session.Location,
		&session.Notes,
		&session.HasFeedback,
		&session.ReservationID,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.CancelledAt,
	)
	if err != nil {
		return nil, err
	}

	session.Status = model.NormalizeSessionStatus(status)
	return &session, nil
}

// withLegacy добавляет Scheduled к условию, если в нём есть Confirmed
func withLegacy(statuses []model.SessionStatus) []model.SessionStatus {
	out := append([]model.SessionStatus(nil), statuses...)
	for _, s := range statuses {
		if s == model.SessionStatusConfirmed {
			out = append(out, model.SessionStatusScheduled)
			break
		}
	}
	return out
}

func statusStrings(statuses []model.SessionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
