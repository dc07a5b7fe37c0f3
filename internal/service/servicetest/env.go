// Package servicetest provides in-memory stores and a wired set of services
// for tests of the booking core and its HTTP layer.
package servicetest

import (
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"go.uber.org/zap"
)

// Fixture ids seeded into every Env.
const (
	Tutor1         = "tutor1"
	Tutor2         = "tutor2"
	Student1       = "s1"
	Student2       = "s2"
	Admin          = "admin1"
	Module         = "PROG101"
	InactiveModule = "OLD100"
	// OtherModule is taught by tutor2 only.
	OtherModule = "MATH201"
)

type Env struct {
	Clock         *Clock
	Sessions      *Sessions
	Reservations  *Reservations
	Users         *Users
	Modules       *Modules
	Feedback      *Feedback
	Notifier      *Notifier
	Notifications *Notifications

	Schedule    *service.ScheduleService
	Reservation *service.ReservationService
	Booking     *service.BookingService
	Session     *service.SessionService
	Expiry      *service.ExpiryService
	Catalog     *service.CatalogService

	// Notification is backed by Notifications and has no pusher.
	Notification *service.NotificationService
}

// New wires every service over fresh in-memory stores. Dates and times are
// interpreted in UTC.
func New(now time.Time) *Env {
	logger := zap.NewNop()

	tutor1 := &model.User{ID: Tutor1, Name: "Jane Smith", Role: model.RoleTutor}
	tutor2 := &model.User{ID: Tutor2, Name: "John Doe", Role: model.RoleTutor}

	e := &Env{
		Clock:        NewClock(now),
		Sessions:     NewSessions(),
		Reservations: NewReservations(),
		Users: NewUsers(
			tutor1,
			tutor2,
			&model.User{ID: Student1, Name: "Student One", Role: model.RoleStudent},
			&model.User{ID: Student2, Name: "Student Two", Role: model.RoleStudent},
			&model.User{ID: Admin, Name: "Admin", Role: model.RoleAdmin},
		),
		Modules: NewModules(
			&model.Module{Code: Module, Name: "Introduction to Programming", IsActive: true},
			&model.Module{Code: InactiveModule, Name: "Retired Module", IsActive: false},
			&model.Module{Code: OtherModule, Name: "Discrete Mathematics", IsActive: true},
		),
		Feedback:      NewFeedback(),
		Notifier:      &Notifier{},
		Notifications: &Notifications{},
	}

	e.Modules.Assign(Module, tutor1, tutor2)
	e.Modules.Assign(InactiveModule, tutor1)
	e.Modules.Assign(OtherModule, tutor2)

	e.Schedule = service.NewScheduleService(e.Sessions, e.Clock, time.UTC, logger)
	e.Reservation = service.NewReservationService(e.Reservations, e.Modules, e.Users, e.Schedule, e.Clock, logger)
	e.Booking = service.NewBookingService(e.Reservations, e.Sessions, e.Modules, e.Users, e.Schedule, e.Notifier, e.Clock, "", logger)
	e.Session = service.NewSessionService(e.Sessions, e.Feedback, e.Notifier, e.Clock, time.UTC, logger)
	e.Expiry = service.NewExpiryService(e.Reservations, e.Clock, logger)
	e.Catalog = service.NewCatalogService(e.Modules, logger)
	e.Notification = service.NewNotificationService(e.Notifications, e.Users, nil, e.Clock, logger)

	return e
}

// Request returns a valid booking request for tutor1/PROG101 at the given slot.
func Request(studentID, date, start, end string) service.BookingRequest {
	return service.BookingRequest{
		StudentID:  studentID,
		TutorID:    Tutor1,
		ModuleCode: Module,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
	}
}
