package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет уведомление
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, reference_id, created_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.Pool().Exec(ctx, query,
		n.ID, n.UserID, n.Title, n.Message, n.Type, n.ReferenceID, n.CreatedAt, n.IsRead)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// ListUnread получает непрочитанные уведомления пользователя
func (r *NotificationRepository) ListUnread(ctx context.Context, userID string) ([]*model.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, reference_id, created_at, is_read
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.ReferenceID, &n.CreatedAt, &n.IsRead)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}
