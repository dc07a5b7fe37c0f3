package model

import "time"

// Module is an academic subject unit. Code is its stable primary key.
type Module struct {
	Code        string    `json:"module_code"`
	Name        string    `json:"module_name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
