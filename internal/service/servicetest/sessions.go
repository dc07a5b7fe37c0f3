package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
)

// Sessions is an in-memory session store. Like the partial unique index in
// Postgres it refuses a second occupying session for the same tutor slot.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*model.Session

	// Ошибки, которые вернут соответствующие методы
	ListErr   error
	CreateErr error
	UpdateErr error
	GetErr    error
}

func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*model.Session)}
}

// Put stores a session as-is, bypassing the slot constraint.
func (s *Sessions) Put(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.byID[session.ID] = &cp
}

// Get returns a copy of the stored session or nil.
func (s *Sessions) Get(id string) *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.byID[id]; ok {
		cp := *session
		return &cp
	}
	return nil
}

// Len returns the number of stored sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Sessions) Create(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return s.CreateErr
	}

	if session.Status.Occupies() {
		for _, other := range s.byID {
			if other.Status.Occupies() && other.TutorID == session.TutorID &&
				other.Date == session.Date && other.Slot() == session.Slot() {
				return repository.ErrSlotConflict
			}
		}
	}

	cp := *session
	s.byID[session.ID] = &cp
	return nil
}

func (s *Sessions) GetByID(_ context.Context, id string) (*model.Session, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return s.Get(id), nil
}

func (s *Sessions) ListOccupying(_ context.Context, tutorID, date string) ([]*model.Session, error) {
	return s.filter(s.ListErr, func(x *model.Session) bool {
		return x.TutorID == tutorID && x.Date == date && x.Status.Occupies()
	}, byStartTime)
}

func (s *Sessions) ListByStudent(_ context.Context, studentID string) ([]*model.Session, error) {
	return s.filter(s.ListErr, func(x *model.Session) bool { return x.StudentID == studentID }, newestFirst)
}

func (s *Sessions) ListByTutor(_ context.Context, tutorID string) ([]*model.Session, error) {
	return s.filter(s.ListErr, func(x *model.Session) bool { return x.TutorID == tutorID }, newestFirst)
}

func (s *Sessions) ListPendingByTutor(_ context.Context, tutorID string) ([]*model.Session, error) {
	return s.filter(s.ListErr, func(x *model.Session) bool {
		return x.TutorID == tutorID && x.Status == model.SessionStatusPending
	}, oldestFirst)
}

func (s *Sessions) UpdateStatus(_ context.Context, id string, from []model.SessionStatus, to model.SessionStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpdateErr != nil {
		return false, s.UpdateErr
	}

	session, ok := s.byID[id]
	if !ok || !containsStatus(from, session.Status) {
		return false, nil
	}

	session.Status = to
	session.UpdatedAt = &at
	if to == model.SessionStatusCancelled {
		session.CancelledAt = &at
	}
	return true, nil
}

func (s *Sessions) SetHasFeedback(_ context.Context, id string, hasFeedback bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpdateErr != nil {
		return false, s.UpdateErr
	}

	session, ok := s.byID[id]
	if !ok || session.HasFeedback == hasFeedback {
		return false, nil
	}
	session.HasFeedback = hasFeedback
	return true, nil
}

func (s *Sessions) filter(err error, keep func(*model.Session) bool, less func(a, b *model.Session) bool) ([]*model.Session, error) {
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*model.Session
	for _, session := range s.byID {
		if keep(session) {
			cp := *session
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func containsStatus(statuses []model.SessionStatus, st model.SessionStatus) bool {
	for _, s := range statuses {
		if model.NormalizeSessionStatus(string(s)) == model.NormalizeSessionStatus(string(st)) {
			return true
		}
	}
	return false
}

func byStartTime(a, b *model.Session) bool { return a.StartTime < b.StartTime }
func newestFirst(a, b *model.Session) bool { return a.CreatedAt.After(b.CreatedAt) }
func oldestFirst(a, b *model.Session) bool { return a.CreatedAt.Before(b.CreatedAt) }
