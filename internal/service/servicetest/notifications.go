package servicetest

import (
	"context"
	"sync"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

// Notifier records every notification it is asked to deliver.
type Notifier struct {
	mu   sync.Mutex
	sent []model.Notification
	Err  error
}

func (n *Notifier) Notify(_ context.Context, notification *model.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.sent = append(n.sent, *notification)
	return n.Err
}

// Sent returns the recorded notifications in order.
func (n *Notifier) Sent() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification(nil), n.sent...)
}

// For returns the titles of notifications sent to a user.
func (n *Notifier) For(userID string) []string {
	var titles []string
	for _, sent := range n.Sent() {
		if sent.UserID == userID {
			titles = append(titles, sent.Title)
		}
	}
	return titles
}

// Notifications is an in-memory notification store.
type Notifications struct {
	mu     sync.Mutex
	stored []*model.Notification
	Err    error
}

func (s *Notifications) Create(_ context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	cp := *n
	s.stored = append(s.stored, &cp)
	return nil
}

func (s *Notifications) ListUnread(_ context.Context, userID string) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	var out []*model.Notification
	for _, n := range s.stored {
		if n.UserID == userID && !n.IsRead {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Pusher records pushed messages per chat.
type Pusher struct {
	mu     sync.Mutex
	pushed map[int64][]string
	Err    error
}

func (p *Pusher) Push(_ context.Context, chatID int64, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	if p.pushed == nil {
		p.pushed = make(map[int64][]string)
	}
	p.pushed[chatID] = append(p.pushed[chatID], text)
	return nil
}

// Pushed returns the messages pushed to a chat.
func (p *Pusher) Pushed(chatID int64) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.pushed[chatID]...)
}
