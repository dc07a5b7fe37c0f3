package handlers

import (
	"errors"

	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusFor сопоставляет ошибку сервиса HTTP статусу
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrExpired):
		return fiber.StatusGone
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrSlotUnavailable),
		errors.Is(err, service.ErrTooLateToCancel),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyProcessed),
		errors.Is(err, service.ErrFeedbackExists):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler - единая точка превращения ошибок в JSON ответ
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)

		body := fiber.Map{"error": err.Error()}
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			body["field"] = verr.Field
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			// Подробности сбоя хранилища наружу не отдаём
			body["error"] = "internal error"
		}

		return c.Status(code).JSON(body)
	}
}
