package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier доставляет уведомление пользователю
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// Pusher отправляет текст во внешний канал (Telegram)
type Pusher interface {
	Push(ctx context.Context, chatID int64, text string) error
}

// NotificationService сохраняет уведомления и, если есть канал, пушит их
type NotificationService struct {
	store  NotificationStore
	users  UserLookup
	pusher Pusher
	clock  Clock
	logger *zap.Logger
}

// NewNotificationService создаёт сервис уведомлений. pusher может быть nil.
func NewNotificationService(store NotificationStore, users UserLookup, pusher Pusher, clock Clock, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		users:  users,
		pusher: pusher,
		clock:  clock,
		logger: logger,
	}
}

// Notify сохраняет уведомление. Ошибка пуша только логируется:
// документ уже сохранён, пользователь увидит его в приложении.
func (s *NotificationService) Notify(ctx context.Context, n *model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock.Now()
	}

	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if s.pusher == nil {
		return nil
	}

	user, err := s.users.GetByID(ctx, n.UserID)
	if err != nil {
		s.logger.Warn("Failed to look up notification recipient",
			zap.String("user_id", n.UserID),
			zap.Error(err),
		)
		return nil
	}
	if user == nil || user.TelegramChatID == nil {
		return nil
	}

	if err := s.pusher.Push(ctx, *user.TelegramChatID, n.Title+"\n\n"+n.Message); err != nil {
		s.logger.Warn("Failed to push notification",
			zap.String("user_id", n.UserID),
			zap.String("notification_id", n.ID),
			zap.Error(err),
		)
	}

	return nil
}

// Unread получает непрочитанные уведомления пользователя
func (s *NotificationService) Unread(ctx context.Context, userID string) ([]*model.Notification, error) {
	notifications, err := s.store.ListUnread(ctx, userID)
	if err != nil {
		return nil, storageErr("list unread notifications", err)
	}
	return notifications, nil
}

// emit отправляет уведомление и проглатывает ошибку: сбой уведомления
// никогда не откатывает и не блокирует изменение состояния
func emit(ctx context.Context, notifier Notifier, logger *zap.Logger, n *model.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		logger.Warn("Notification failed",
			zap.String("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(err),
		)
	}
}

func newNotification(userID, title, message string, kind model.NotificationType, refID string) *model.Notification {
	return &model.Notification{
		UserID:      userID,
		Title:       title,
		Message:     message,
		Type:        kind,
		ReferenceID: &refID,
	}
}
