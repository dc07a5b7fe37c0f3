package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/controller/handlers"
	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type HTTPController struct {
	app      *fiber.App
	handlers *handlers.Handlers
	logger   *zap.Logger
}

// NewHTTPController создаёт fiber приложение. accessLog включает лог запросов.
func NewHTTPController(h *handlers.Handlers, logger *zap.Logger, accessLog bool) *HTTPController {
	app := fiber.New(fiber.Config{
		AppName:               "Peer Tutoring",
		CaseSensitive:         true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		// Строки из запроса (заголовки, params, тело) уходят в хранилище,
		// поэтому они не должны ссылаться на буфер fasthttp
		Immutable:    true,
		ErrorHandler: handlers.ErrorHandler(logger),
	})

	app.Use(recover.New())
	if accessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	return &HTTPController{
		app:      app,
		handlers: h,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все маршруты
func (c *HTTPController) RegisterHandlers() {
	c.app.Get("/health", c.handlers.HandleHealth)

	api := c.app.Group("/api/v1", handlers.Identity())

	student := handlers.RequireRole(model.RoleStudent)
	tutor := handlers.RequireRole(model.RoleTutor)
	admin := handlers.RequireRole(model.RoleAdmin)

	// Расписание и бронирование
	api.Get("/slots", c.handlers.HandleAvailableSlots)
	api.Post("/reservations", student, c.handlers.HandleCreateReservation)
	api.Post("/reservations/:id/confirm", student, c.handlers.HandleConfirmReservation)
	api.Post("/bookings", student, c.handlers.HandleBookDirect)

	api.Get("/modules/:code/tutors", c.handlers.HandleModuleTutors)

	// Занятия
	api.Get("/sessions/me", c.handlers.HandleMySessions)
	api.Get("/tutor/sessions/pending", tutor, c.handlers.HandlePendingSessions)
	api.Post("/sessions/:id/confirm", c.handlers.HandleConfirmSession)
	api.Post("/sessions/:id/reject", c.handlers.HandleRejectSession)
	api.Post("/sessions/:id/cancel", c.handlers.HandleCancelSession)
	api.Post("/sessions/:id/complete", c.handlers.HandleCompleteSession)
	api.Post("/sessions/:id/feedback", student, c.handlers.HandleSubmitFeedback)

	api.Get("/notifications", c.handlers.HandleNotifications)

	// Админские операции
	api.Post("/admin/reservations/sweep", admin, c.handlers.HandleSweepReservations)
}

// App отдаёт fiber приложение (нужно тестам)
func (c *HTTPController) App() *fiber.App {
	return c.app
}

// Start слушает addr до остановки через Shutdown
func (c *HTTPController) Start(addr string) error {
	c.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return c.app.Listen(addr)
}

// Shutdown дожидается текущих запросов
func (c *HTTPController) Shutdown(ctx context.Context) error {
	c.logger.Info("Stopping HTTP server")
	return c.app.ShutdownWithContext(ctx)
}
