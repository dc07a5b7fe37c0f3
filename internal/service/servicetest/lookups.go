package servicetest

import (
	"context"
	"sync"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
)

// Users is a read-only user directory.
type Users struct {
	byID map[string]*model.User
	Err  error
}

func NewUsers(users ...*model.User) *Users {
	u := &Users{byID: make(map[string]*model.User)}
	for _, user := range users {
		u.byID[user.ID] = user
	}
	return u
}

func (u *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	if u.Err != nil {
		return nil, u.Err
	}
	return u.byID[id], nil
}

// Modules is a read-only module catalog with tutor assignments.
type Modules struct {
	byCode map[string]*model.Module
	tutors map[string][]*model.User
	Err    error
	// TutorsErr fails only the assignment queries.
	TutorsErr error
}

func NewModules(modules ...*model.Module) *Modules {
	m := &Modules{
		byCode: make(map[string]*model.Module),
		tutors: make(map[string][]*model.User),
	}
	for _, module := range modules {
		m.byCode[module.Code] = module
	}
	return m
}

// Assign adds tutors to a module.
func (m *Modules) Assign(code string, tutors ...*model.User) {
	m.tutors[code] = append(m.tutors[code], tutors...)
}

func (m *Modules) GetByCode(_ context.Context, code string) (*model.Module, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.byCode[code], nil
}

func (m *Modules) IsTutorAssigned(_ context.Context, moduleCode, tutorID string) (bool, error) {
	if err := m.assignmentErr(); err != nil {
		return false, err
	}
	for _, tutor := range m.tutors[moduleCode] {
		if tutor.ID == tutorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Modules) ListTutors(_ context.Context, moduleCode string) ([]*model.User, error) {
	if err := m.assignmentErr(); err != nil {
		return nil, err
	}
	return append([]*model.User(nil), m.tutors[moduleCode]...), nil
}

func (m *Modules) assignmentErr() error {
	if m.Err != nil {
		return m.Err
	}
	return m.TutorsErr
}

// Feedback is an in-memory feedback store with one document per session.
type Feedback struct {
	mu        sync.Mutex
	bySession map[string]*model.Feedback
	Err       error
}

func NewFeedback() *Feedback {
	return &Feedback{bySession: make(map[string]*model.Feedback)}
}

func (f *Feedback) Create(_ context.Context, feedback *model.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	if _, exists := f.bySession[feedback.SessionID]; exists {
		return repository.ErrDuplicate
	}
	cp := *feedback
	f.bySession[feedback.SessionID] = &cp
	return nil
}

// ForSession returns the stored feedback for a session or nil.
func (f *Feedback) ForSession(sessionID string) *model.Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bySession[sessionID]
}
