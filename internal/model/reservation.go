package model

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "Pending"
	ReservationStatusConfirmed ReservationStatus = "Confirmed"
	ReservationStatusExpired   ReservationStatus = "Expired"
)

// ReservationTTL is how long a reservation can be confirmed after creation.
const ReservationTTL = 15 * time.Minute

// Reservation is a short-lived, non-binding hold on a tutor's slot.
// It is never deleted: confirmed and expired reservations stay as an audit trail.
type Reservation struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"student_id"`
	TutorID     string            `json:"tutor_id"`
	ModuleCode  string            `json:"module_code"`
	Date        string            `json:"date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Notes       string            `json:"notes"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	SessionID   *string           `json:"session_id,omitempty"`
	ExpiredAt   *time.Time        `json:"expired_at,omitempty"`
}

// IsPending checks if reservation still waits for confirmation
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationStatusPending
}

// IsExpiredAt reports whether the hold has lapsed at the given instant.
// A reservation is valid strictly before ExpiresAt.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Slot возвращает слот брони в формате каталога
func (r *Reservation) Slot() string {
	return SlotLabel(r.StartTime, r.EndTime)
}
