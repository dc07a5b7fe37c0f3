package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/Freeeeeet/peer_tutoring/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putReservation(env *servicetest.Env, id string, status model.ReservationStatus, expiresAt time.Time) {
	env.Reservations.Put(&model.Reservation{
		ID:         id,
		StudentID:  servicetest.Student1,
		TutorID:    servicetest.Tutor1,
		ModuleCode: servicetest.Module,
		Date:       futureDate,
		StartTime:  "10:00",
		EndTime:    "11:00",
		Status:     status,
		CreatedAt:  expiresAt.Add(-model.ReservationTTL),
		ExpiresAt:  expiresAt,
	})
}

func TestSweepExpired_MarksOnlyLapsedPending(t *testing.T) {
	env := servicetest.New(baseNow)
	putReservation(env, "lapsed", model.ReservationStatusPending, baseNow.Add(-time.Minute))
	putReservation(env, "lapsed-long-ago", model.ReservationStatusPending, baseNow.Add(-48*time.Hour))
	putReservation(env, "at-boundary", model.ReservationStatusPending, baseNow)
	putReservation(env, "live", model.ReservationStatusPending, baseNow.Add(10*time.Minute))
	putReservation(env, "confirmed", model.ReservationStatusConfirmed, baseNow.Add(-time.Hour))

	n, err := env.Expiry.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for id, want := range map[string]model.ReservationStatus{
		"lapsed":          model.ReservationStatusExpired,
		"lapsed-long-ago": model.ReservationStatusExpired,
		"at-boundary":     model.ReservationStatusPending,
		"live":            model.ReservationStatusPending,
		"confirmed":       model.ReservationStatusConfirmed,
	} {
		assert.Equal(t, want, env.Reservations.Get(id).Status, id)
	}

	expired := env.Reservations.Get("lapsed")
	require.NotNil(t, expired.ExpiredAt)
	assert.Equal(t, baseNow, *expired.ExpiredAt)
}

func TestSweepExpired_Idempotent(t *testing.T) {
	env := servicetest.New(baseNow)
	putReservation(env, "r1", model.ReservationStatusPending, baseNow.Add(-time.Minute))

	n, err := env.Expiry.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	firstExpiredAt := *env.Reservations.Get("r1").ExpiredAt

	env.Clock.Advance(time.Hour)
	n, err = env.Expiry.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, firstExpiredAt, *env.Reservations.Get("r1").ExpiredAt)
}

func TestSweepExpired_NeverTouchesSessions(t *testing.T) {
	env := servicetest.New(baseNow)
	reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")
	sessionID, err := env.Booking.ConfirmReservation(context.Background(), reservationID)
	require.NoError(t, err)

	reserve(t, env, servicetest.Student2, "11:00", "12:00")
	env.Clock.Advance(time.Hour)

	n, err := env.Expiry.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.ReservationStatusConfirmed, env.Reservations.Get(reservationID).Status)
	assert.Equal(t, model.SessionStatusPending, env.Sessions.Get(sessionID).Status)
}

func TestSweepExpired_PartialFailure(t *testing.T) {
	env := servicetest.New(baseNow)
	putReservation(env, "ok-1", model.ReservationStatusPending, baseNow.Add(-3*time.Minute))
	putReservation(env, "broken-1", model.ReservationStatusPending, baseNow.Add(-2*time.Minute))
	putReservation(env, "broken-2", model.ReservationStatusPending, baseNow.Add(-time.Minute))
	putReservation(env, "ok-2", model.ReservationStatusPending, baseNow.Add(-time.Second))
	env.Reservations.ExpireErr["broken-1"] = errors.New("write conflict")
	env.Reservations.ExpireErr["broken-2"] = errors.New("timeout")

	n, err := env.Expiry.SweepExpired(context.Background())

	assert.Equal(t, 2, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrStorage)
	assert.Contains(t, err.Error(), "broken-1")
	assert.Contains(t, err.Error(), "broken-2")
	assert.Equal(t, model.ReservationStatusExpired, env.Reservations.Get("ok-2").Status)
	assert.Equal(t, model.ReservationStatusPending, env.Reservations.Get("broken-1").Status)

	// Следующий проход добирает оставшиеся
	delete(env.Reservations.ExpireErr, "broken-1")
	delete(env.Reservations.ExpireErr, "broken-2")
	n, err = env.Expiry.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSweepExpired_ListFailure(t *testing.T) {
	env := servicetest.New(baseNow)
	env.Reservations.ListErr = errors.New("timeout")

	n, err := env.Expiry.SweepExpired(context.Background())

	assert.Zero(t, n)
	assert.ErrorIs(t, err, service.ErrStorage)
}

func TestSweepExpired_StopsOnCancelledContext(t *testing.T) {
	env := servicetest.New(baseNow)
	putReservation(env, "r1", model.ReservationStatusPending, baseNow.Add(-time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := env.Expiry.SweepExpired(ctx)

	assert.Zero(t, n)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, model.ReservationStatusPending, env.Reservations.Get("r1").Status)
}
