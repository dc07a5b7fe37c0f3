package model

import "time"

type NotificationType string

const (
	NotificationTypeBooking      NotificationType = "booking"
	NotificationTypeConfirmation NotificationType = "confirmation"
	NotificationTypeStatus       NotificationType = "status"
	NotificationTypeCancellation NotificationType = "cancellation"
	NotificationTypeFeedback     NotificationType = "feedback"
)

type Notification struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	ReferenceID *string          `json:"reference_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	IsRead      bool             `json:"is_read"`
}
