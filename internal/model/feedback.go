package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a student's review of a completed session, at most one per session.
type Feedback struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	StudentID   string    `json:"student_id"`
	TutorID     string    `json:"tutor_id"`
	Rating      int       `json:"rating"`
	Text        string    `json:"feedback"`
	WasHelpful  bool      `json:"was_helpful"`
	Improvement string    `json:"improvement"`
	CreatedAt   time.Time `json:"created_at"`
}
