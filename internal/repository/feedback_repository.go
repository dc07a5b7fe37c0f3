package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FeedbackRepository struct {
	*base.Repository
}

func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет отзыв. Второй отзыв на то же занятие вернёт ErrDuplicate.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	query := `
		INSERT INTO feedback (id, session_id, student_id, tutor_id, rating, feedback, was_helpful, improvement, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.Pool().Exec(
		ctx, query,
		feedback.ID,
		feedback.SessionID,
		feedback.StudentID,
		feedback.TutorID,
		feedback.Rating,
		feedback.Text,
		feedback.WasHelpful,
		feedback.Improvement,
		feedback.CreatedAt,
	)

	if err != nil {
		if base.IsUniqueViolation(err, "") {
			return ErrDuplicate
		}
		return fmt.Errorf("create feedback: %w", err)
	}

	return nil
}
