package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/Freeeeeet/peer_tutoring/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reserve(t *testing.T, env *servicetest.Env, studentID, start, end string) string {
	t.Helper()
	id, err := env.Reservation.CreateReservation(context.Background(),
		servicetest.Request(studentID, futureDate, start, end))
	require.NoError(t, err)
	return id
}

func TestConfirmReservation_CreatesPendingSession(t *testing.T) {
	env := servicetest.New(baseNow)
	reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")
	env.Clock.Advance(5 * time.Minute)

	sessionID, err := env.Booking.ConfirmReservation(context.Background(), reservationID)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	session := env.Sessions.Get(sessionID)
	require.NotNil(t, session)
	assert.Equal(t, model.SessionStatusPending, session.Status)
	assert.Equal(t, servicetest.Student1, session.StudentID)
	assert.Equal(t, servicetest.Tutor1, session.TutorID)
	assert.Equal(t, servicetest.Module, session.ModuleCode)
	assert.Equal(t, futureDate, session.Date)
	assert.Equal(t, "10:00", session.StartTime)
	assert.Equal(t, "11:00", session.EndTime)
	assert.Equal(t, model.DefaultLocation, session.Location)
	assert.False(t, session.HasFeedback)
	require.NotNil(t, session.ReservationID)
	assert.Equal(t, reservationID, *session.ReservationID)

	reservation := env.Reservations.Get(reservationID)
	assert.Equal(t, model.ReservationStatusConfirmed, reservation.Status)
	require.NotNil(t, reservation.SessionID)
	assert.Equal(t, sessionID, *reservation.SessionID)
	require.NotNil(t, reservation.ConfirmedAt)
	assert.Equal(t, baseNow.Add(5*time.Minute), *reservation.ConfirmedAt)

	assert.Equal(t, []string{"New Session Booked"}, env.Notifier.For(servicetest.Tutor1))
	assert.Equal(t, []string{"Booking Confirmed"}, env.Notifier.For(servicetest.Student1))
	for _, n := range env.Notifier.Sent() {
		require.NotNil(t, n.ReferenceID)
		assert.Equal(t, sessionID, *n.ReferenceID)
	}
}

// Полный сценарий: свободный день, бронь, подтверждение, проигравшая бронь
func TestBookingScenario(t *testing.T) {
	env := servicetest.New(baseNow)
	ctx := context.Background()

	assert.Len(t, env.Schedule.AvailableSlots(ctx, servicetest.Tutor1, futureDate), 7)

	first := reserve(t, env, servicetest.Student1, "10:00", "11:00")
	assert.Contains(t, env.Schedule.AvailableSlots(ctx, servicetest.Tutor1, futureDate), "10:00 - 11:00")

	second := reserve(t, env, servicetest.Student2, "10:00", "11:00")

	_, err := env.Booking.ConfirmReservation(ctx, first)
	require.NoError(t, err)

	slots := env.Schedule.AvailableSlots(ctx, servicetest.Tutor1, futureDate)
	assert.NotContains(t, slots, "10:00 - 11:00")
	assert.Len(t, slots, 6)

	_, err = env.Booking.ConfirmReservation(ctx, second)
	assert.ErrorIs(t, err, service.ErrSlotUnavailable)
	assert.Equal(t, model.ReservationStatusPending, env.Reservations.Get(second).Status)
	assert.Equal(t, 1, env.Sessions.Len())

	// Новая бронь на занятый слот уже не создаётся
	_, err = env.Reservation.CreateReservation(ctx, servicetest.Request(servicetest.Student2, futureDate, "10:00", "11:00"))
	assert.ErrorIs(t, err, service.ErrSlotUnavailable)
}

func TestConfirmReservation_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{"just before expiry", model.ReservationTTL - time.Nanosecond, nil},
		{"exactly at expiry", model.ReservationTTL, service.ErrExpired},
		{"long after expiry", time.Hour, service.ErrExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := servicetest.New(baseNow)
			reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")
			env.Clock.Advance(tt.elapsed)

			sessionID, err := env.Booking.ConfirmReservation(context.Background(), reservationID)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotEmpty(t, sessionID)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, env.Sessions.Len())
			// Подтверждение статус брони не меняет, это работа sweeper
			assert.Equal(t, model.ReservationStatusPending, env.Reservations.Get(reservationID).Status)
			assert.Empty(t, env.Notifier.Sent())
		})
	}
}

func TestConfirmReservation_SweptReservationIsExpired(t *testing.T) {
	env := servicetest.New(baseNow)
	reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")
	env.Clock.Advance(20 * time.Minute)

	n, err := env.Expiry.SweepExpired(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = env.Booking.ConfirmReservation(context.Background(), reservationID)
	assert.ErrorIs(t, err, service.ErrExpired)
}

func TestConfirmReservation_NotFound(t *testing.T) {
	env := servicetest.New(baseNow)

	_, err := env.Booking.ConfirmReservation(context.Background(), "does-not-exist")

	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Zero(t, env.Sessions.Len())
}

func TestConfirmReservation_Twice(t *testing.T) {
	env := servicetest.New(baseNow)
	reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")

	_, err := env.Booking.ConfirmReservation(context.Background(), reservationID)
	require.NoError(t, err)

	_, err = env.Booking.ConfirmReservation(context.Background(), reservationID)
	assert.ErrorIs(t, err, service.ErrAlreadyProcessed)
	assert.Equal(t, 1, env.Sessions.Len())
}

func TestConfirmReservation_NotificationFailureDoesNotFail(t *testing.T) {
	env := servicetest.New(baseNow)
	env.Notifier.Err = errors.New("smtp down")
	reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")

	sessionID, err := env.Booking.ConfirmReservation(context.Background(), reservationID)

	require.NoError(t, err)
	assert.NotNil(t, env.Sessions.Get(sessionID))
	assert.Equal(t, model.ReservationStatusConfirmed, env.Reservations.Get(reservationID).Status)
	// Обе попытки уведомить всё равно были
	assert.Len(t, env.Notifier.Sent(), 2)
}

func TestConfirmReservation_StorageFailures(t *testing.T) {
	t.Run("availability read fails", func(t *testing.T) {
		env := servicetest.New(baseNow)
		reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")
		env.Sessions.ListErr = errors.New("timeout")

		_, err := env.Booking.ConfirmReservation(context.Background(), reservationID)

		assert.ErrorIs(t, err, service.ErrStorage)
		assert.Zero(t, env.Sessions.Len())
		assert.Equal(t, model.ReservationStatusPending, env.Reservations.Get(reservationID).Status)
	})

	t.Run("session write fails", func(t *testing.T) {
		env := servicetest.New(baseNow)
		reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")
		env.Sessions.CreateErr = errors.New("disk full")

		_, err := env.Booking.ConfirmReservation(context.Background(), reservationID)

		assert.ErrorIs(t, err, service.ErrStorage)
		assert.Equal(t, model.ReservationStatusPending, env.Reservations.Get(reservationID).Status)
		assert.Empty(t, env.Notifier.Sent())
	})

	t.Run("reservation update fails releases the slot", func(t *testing.T) {
		env := servicetest.New(baseNow)
		reservationID := reserve(t, env, servicetest.Student1, "10:00", "11:00")
		env.Reservations.ConfirmErr = errors.New("conflict")

		_, err := env.Booking.ConfirmReservation(context.Background(), reservationID)

		assert.ErrorIs(t, err, service.ErrStorage)
		assert.Equal(t, model.DailySlots, env.Schedule.AvailableSlots(context.Background(), servicetest.Tutor1, futureDate))
		assert.Empty(t, env.Notifier.Sent())
	})
}

func TestConfirmReservation_ConcurrentConfirmsBookSlotOnce(t *testing.T) {
	env := servicetest.New(baseNow)

	const students = 8
	ids := make([]string, students)
	for i := range ids {
		ids[i] = reserve(t, env, servicetest.Student1, "10:00", "11:00")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		lost      int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.Booking.ConfirmReservation(context.Background(), id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, service.ErrSlotUnavailable):
				lost++
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, students-1, lost)
	assert.Equal(t, 1, env.Sessions.Len())
}

func TestBookDirect(t *testing.T) {
	env := servicetest.New(baseNow)
	ctx := context.Background()

	sessionID, err := env.Booking.BookDirect(ctx, servicetest.Request(servicetest.Student1, futureDate, "14:00", "15:00"))
	require.NoError(t, err)

	session := env.Sessions.Get(sessionID)
	require.NotNil(t, session)
	assert.Equal(t, model.SessionStatusConfirmed, session.Status)
	assert.Nil(t, session.ReservationID)
	assert.Zero(t, env.Reservations.Len())

	assert.Equal(t, []string{"New Session Booked"}, env.Notifier.For(servicetest.Tutor1))
	assert.Empty(t, env.Notifier.For(servicetest.Student1))

	assert.NotContains(t, env.Schedule.AvailableSlots(ctx, servicetest.Tutor1, futureDate), "14:00 - 15:00")

	_, err = env.Booking.BookDirect(ctx, servicetest.Request(servicetest.Student2, futureDate, "14:00", "15:00"))
	assert.ErrorIs(t, err, service.ErrSlotUnavailable)
}

func TestBookDirect_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.BookingRequest)
		field  string
	}{
		{"inactive module", func(r *service.BookingRequest) { r.ModuleCode = servicetest.InactiveModule }, "module_code"},
		{"tutor does not teach module", func(r *service.BookingRequest) { r.ModuleCode = servicetest.OtherModule }, "tutor_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := servicetest.New(baseNow)
			req := servicetest.Request(servicetest.Student1, futureDate, "14:00", "15:00")
			tt.mutate(&req)

			_, err := env.Booking.BookDirect(context.Background(), req)

			require.ErrorIs(t, err, service.ErrValidation)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, env.Sessions.Len())
		})
	}
}

func TestBookDirect_AssignedTutor(t *testing.T) {
	env := servicetest.New(baseNow)
	req := servicetest.Request(servicetest.Student1, futureDate, "14:00", "15:00")
	req.TutorID = servicetest.Tutor2
	req.ModuleCode = servicetest.OtherModule

	sessionID, err := env.Booking.BookDirect(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, servicetest.Tutor2, env.Sessions.Get(sessionID).TutorID)
}
