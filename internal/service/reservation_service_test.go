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

func TestCreateReservation_PersistsPendingHold(t *testing.T) {
	env := servicetest.New(baseNow)
	req := servicetest.Request(servicetest.Student1, futureDate, "10:00", "11:00")
	req.Notes = "recursion please"

	id, err := env.Reservation.CreateReservation(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored := env.Reservations.Get(id)
	require.NotNil(t, stored)
	assert.Equal(t, model.ReservationStatusPending, stored.Status)
	assert.Equal(t, servicetest.Student1, stored.StudentID)
	assert.Equal(t, servicetest.Tutor1, stored.TutorID)
	assert.Equal(t, servicetest.Module, stored.ModuleCode)
	assert.Equal(t, "recursion please", stored.Notes)
	assert.Equal(t, baseNow, stored.CreatedAt)
	assert.Equal(t, baseNow.Add(15*time.Minute), stored.ExpiresAt)
	assert.Nil(t, stored.SessionID)
	assert.Nil(t, stored.ConfirmedAt)
}

func TestCreateReservation_DoesNotRemoveSlot(t *testing.T) {
	env := servicetest.New(baseNow)

	_, err := env.Reservation.CreateReservation(context.Background(),
		servicetest.Request(servicetest.Student1, futureDate, "10:00", "11:00"))
	require.NoError(t, err)

	slots := env.Schedule.AvailableSlots(context.Background(), servicetest.Tutor1, futureDate)
	assert.Contains(t, slots, "10:00 - 11:00")

	// Вторая бронь на тот же слот тоже проходит: конфликт решается при подтверждении
	_, err = env.Reservation.CreateReservation(context.Background(),
		servicetest.Request(servicetest.Student2, futureDate, "10:00", "11:00"))
	assert.NoError(t, err)
	assert.Equal(t, 2, env.Reservations.Len())
}

func TestCreateReservation_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.BookingRequest)
		field  string
	}{
		{"missing student", func(r *service.BookingRequest) { r.StudentID = "" }, "student_id"},
		{"missing tutor and module", func(r *service.BookingRequest) { r.TutorID = ""; r.ModuleCode = " " }, "tutor_id, module_code"},
		{"missing date", func(r *service.BookingRequest) { r.Date = "" }, "date"},
		{"malformed date", func(r *service.BookingRequest) { r.Date = "10-06-2025" }, "date"},
		{"impossible date", func(r *service.BookingRequest) { r.Date = "2025-02-30" }, "date"},
		{"malformed start", func(r *service.BookingRequest) { r.StartTime = "9:00" }, "start_time"},
		{"malformed end", func(r *service.BookingRequest) { r.EndTime = "25:00" }, "end_time"},
		{"unknown module", func(r *service.BookingRequest) { r.ModuleCode = "NOPE999" }, "module_code"},
		{"inactive module", func(r *service.BookingRequest) { r.ModuleCode = servicetest.InactiveModule }, "module_code"},
		{"unknown tutor", func(r *service.BookingRequest) { r.TutorID = "ghost" }, "tutor_id"},
		{"student as tutor", func(r *service.BookingRequest) { r.TutorID = servicetest.Student2 }, "tutor_id"},
		{"tutor does not teach module", func(r *service.BookingRequest) { r.ModuleCode = servicetest.OtherModule }, "tutor_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := servicetest.New(baseNow)
			req := servicetest.Request(servicetest.Student1, futureDate, "10:00", "11:00")
			tt.mutate(&req)

			_, err := env.Reservation.CreateReservation(context.Background(), req)

			require.ErrorIs(t, err, service.ErrValidation)
			var verr *service.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, env.Reservations.Len())
		})
	}
}

func TestCreateReservation_SlotUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		start string
		end   string
		setup func(env *servicetest.Env)
	}{
		{
			name: "slot occupied by a session", date: futureDate, start: "10:00", end: "11:00",
			setup: func(env *servicetest.Env) {
				env.Sessions.Put(occupyingSession("x", servicetest.Tutor1, futureDate, "10:00", "11:00", model.SessionStatusConfirmed))
			},
		},
		{name: "not a catalog slot", date: futureDate, start: "09:30", end: "10:30"},
		{name: "outside opening hours", date: futureDate, start: "16:00", end: "17:00"},
		{name: "past date", date: "2025-05-20", start: "10:00", end: "11:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := servicetest.New(baseNow)
			if tt.setup != nil {
				tt.setup(env)
			}

			id, err := env.Reservation.CreateReservation(context.Background(),
				servicetest.Request(servicetest.Student1, tt.date, tt.start, tt.end))

			assert.ErrorIs(t, err, service.ErrSlotUnavailable)
			assert.Empty(t, id)
			assert.Zero(t, env.Reservations.Creates())
		})
	}
}

func TestCreateReservation_StorageFailures(t *testing.T) {
	t.Run("availability read fails", func(t *testing.T) {
		env := servicetest.New(baseNow)
		env.Sessions.ListErr = errors.New("timeout")

		_, err := env.Reservation.CreateReservation(context.Background(),
			servicetest.Request(servicetest.Student1, futureDate, "10:00", "11:00"))

		assert.ErrorIs(t, err, service.ErrStorage)
		assert.NotErrorIs(t, err, service.ErrSlotUnavailable)
		assert.Zero(t, env.Reservations.Len())
	})

	t.Run("module assignment read fails", func(t *testing.T) {
		env := servicetest.New(baseNow)
		env.Modules.TutorsErr = errors.New("connection reset")

		_, err := env.Reservation.CreateReservation(context.Background(),
			servicetest.Request(servicetest.Student1, futureDate, "10:00", "11:00"))

		assert.ErrorIs(t, err, service.ErrStorage)
		assert.NotErrorIs(t, err, service.ErrValidation)
		assert.Zero(t, env.Reservations.Len())
	})

	t.Run("write fails", func(t *testing.T) {
		env := servicetest.New(baseNow)
		env.Reservations.CreateErr = errors.New("quota exceeded")

		id, err := env.Reservation.CreateReservation(context.Background(),
			servicetest.Request(servicetest.Student1, futureDate, "10:00", "11:00"))

		assert.ErrorIs(t, err, service.ErrStorage)
		assert.Empty(t, id)
	})
}

func TestReservationGetByID(t *testing.T) {
	env := servicetest.New(baseNow)

	_, err := env.Reservation.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, service.ErrNotFound)

	id, err := env.Reservation.CreateReservation(context.Background(),
		servicetest.Request(servicetest.Student1, futureDate, "10:00", "11:00"))
	require.NoError(t, err)

	got, err := env.Reservation.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}
