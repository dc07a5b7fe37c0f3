package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

// Reservations is an in-memory reservation store.
type Reservations struct {
	mu   sync.Mutex
	byID map[string]*model.Reservation

	CreateErr  error
	ConfirmErr error
	ListErr    error
	// ExpireErr is returned by MarkExpired for the listed reservation ids.
	ExpireErr map[string]error

	creates int
}

func NewReservations() *Reservations {
	return &Reservations{
		byID:      make(map[string]*model.Reservation),
		ExpireErr: make(map[string]error),
	}
}

// Put stores a reservation as-is.
func (r *Reservations) Put(reservation *model.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *reservation
	r.byID[reservation.ID] = &cp
}

// Get returns a copy of the stored reservation or nil.
func (r *Reservations) Get(id string) *model.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reservation, ok := r.byID[id]; ok {
		cp := *reservation
		return &cp
	}
	return nil
}

// Len returns the number of stored reservations.
func (r *Reservations) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Creates counts successful Create calls.
func (r *Reservations) Creates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates
}

func (r *Reservations) Create(_ context.Context, reservation *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		return r.CreateErr
	}

	cp := *reservation
	r.byID[reservation.ID] = &cp
	r.creates++
	return nil
}

func (r *Reservations) GetByID(_ context.Context, id string) (*model.Reservation, error) {
	return r.Get(id), nil
}

func (r *Reservations) MarkConfirmed(_ context.Context, id, sessionID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ConfirmErr != nil {
		return false, r.ConfirmErr
	}

	reservation, ok := r.byID[id]
	if !ok || reservation.Status != model.ReservationStatusPending {
		return false, nil
	}

	reservation.Status = model.ReservationStatusConfirmed
	reservation.ConfirmedAt = &at
	reservation.SessionID = &sessionID
	return true, nil
}

func (r *Reservations) ListExpirable(_ context.Context, now time.Time) ([]*model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ListErr != nil {
		return nil, r.ListErr
	}

	var out []*model.Reservation
	for _, reservation := range r.byID {
		if reservation.Status == model.ReservationStatusPending && reservation.ExpiresAt.Before(now) {
			cp := *reservation
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

func (r *Reservations) MarkExpired(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ExpireErr[id]; err != nil {
		return false, err
	}

	reservation, ok := r.byID[id]
	if !ok || reservation.Status != model.ReservationStatusPending {
		return false, nil
	}

	reservation.Status = model.ReservationStatusExpired
	reservation.ExpiredAt = &at
	return true, nil
}
