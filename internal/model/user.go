package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// User принадлежит подсистеме авторизации, ядро только читает его
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Role           Role      `json:"role"`
	TelegramChatID *int64    `json:"telegram_chat_id"` // nil - пуш в Telegram не отправляем
	CreatedAt      time.Time `json:"created_at"`
}

// IsTutor checks if user can be booked
func (u *User) IsTutor() bool {
	return u.Role == RoleTutor
}

// Actor identifies who performs a session transition.
type Actor struct {
	ID   string
	Role Role
}
