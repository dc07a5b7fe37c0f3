package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandleSweepReservations запускает очистку просроченных броней вручную
func (h *Handlers) HandleSweepReservations(c *fiber.Ctx) error {
	expired, err := h.expiryService.SweepExpired(c.UserContext())
	if err != nil {
		h.logger.Error("Manual reservation sweep failed",
			zap.String("admin_id", actorFrom(c).ID),
			zap.Int("expired", expired),
			zap.Error(err),
		)
		return err
	}

	return c.JSON(fiber.Map{"expired": expired})
}

// HandleNotifications отдаёт непрочитанные уведомления текущего пользователя
func (h *Handlers) HandleNotifications(c *fiber.Ctx) error {
	notifications, err := h.notificationService.Unread(c.UserContext(), actorFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"notifications": orEmpty(notifications)})
}

// HandleHealth - liveness; при наличии базы проверяет и её
func (h *Handlers) HandleHealth(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn("Health check: database unavailable", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
