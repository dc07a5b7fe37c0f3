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

const reservationColumns = `
	id, student_id, tutor_id, module_code, date, start_time, end_time, notes,
	status, created_at, expires_at, confirmed_at, session_id, expired_at`

type ReservationRepository struct {
	*base.Repository
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую бронь
func (r *ReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.Pool().Exec(
		ctx, query,
		reservation.ID,
		reservation.StudentID,
		reservation.TutorID,
		reservation.ModuleCode,
		reservation.Date,
		reservation.StartTime,
		reservation.EndTime,
		reservation.Notes,
		reservation.Status,
		reservation.CreatedAt,
		reservation.ExpiresAt,
		reservation.ConfirmedAt,
		reservation.SessionID,
		reservation.ExpiredAt,
	)

	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}

	return nil
}

// GetByID получает бронь по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation, err := scanReservation(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return reservation, nil
}

// MarkConfirmed переводит Pending бронь в Confirmed и привязывает занятие
func (r *ReservationRepository) MarkConfirmed(ctx context.Context, id, sessionID string, at time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $1, confirmed_at = $2, session_id = $3
		WHERE id = $4 AND status = $5
	`

	affected, err := r.ExecAffected(ctx, query,
		model.ReservationStatusConfirmed, at, sessionID, id, model.ReservationStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark reservation confirmed: %w", err)
	}

	return affected > 0, nil
}

// ListExpirable получает Pending брони, срок которых истёк к моменту now
func (r *ReservationRepository) ListExpirable(ctx context.Context, now time.Time) ([]*model.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at
	`

	rows, err := r.Query(ctx, query, model.ReservationStatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("list expirable reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expirable reservations: %w", err)
	}

	return reservations, nil
}

// MarkExpired переводит Pending бронь в Expired
func (r *ReservationRepository) MarkExpired(ctx context.Context, id string, at time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $1, expired_at = $2
		WHERE id = $3 AND status = $4
	`

	affected, err := r.ExecAffected(ctx, query,
		model.ReservationStatusExpired, at, id, model.ReservationStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark reservation expired: %w", err)
	}

	return affected > 0, nil
}

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var reservation model.Reservation
	err := row.Scan(
		&reservation.ID,
		&reservation.StudentID,
		&reservation.TutorID,
		&reservation.ModuleCode,
		&reservation.Date,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.Notes,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.ExpiresAt,
		&reservation.ConfirmedAt,
		&reservation.SessionID,
		&reservation.ExpiredAt,
	)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}
