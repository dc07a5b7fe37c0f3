package handlers

import (
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandleAvailableSlots отдаёт свободные слоты тьютора на дату.
// Сбой чтения отдаётся как пустой список, а не ошибка.
func (h *Handlers) HandleAvailableSlots(c *fiber.Ctx) error {
	var q slotQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "cannot parse query")
	}
	if err := h.check(&q); err != nil {
		return err
	}

	slots := h.scheduleService.AvailableSlots(c.UserContext(), q.TutorID, q.Date)

	return c.JSON(fiber.Map{
		"tutor_id": q.TutorID,
		"date":     q.Date,
		"slots":    slots,
	})
}

// HandleCreateReservation создаёт бронь на 15 минут
func (h *Handlers) HandleCreateReservation(c *fiber.Ctx) error {
	var form bookingForm
	if err := h.bind(c, &form); err != nil {
		return err
	}

	actor := actorFrom(c)
	id, err := h.reservationService.CreateReservation(c.UserContext(), form.toRequest(actor.ID))
	if err != nil {
		return err
	}

	reservation, err := h.reservationService.GetByID(c.UserContext(), id)
	if err != nil {
		// Бронь создана, не смогли только перечитать
		h.logger.Warn("Failed to reload reservation", zap.String("reservation_id", id), zap.Error(err))
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"reservation_id": id})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reservation_id": id,
		"expires_at":     reservation.ExpiresAt,
	})
}

// HandleConfirmReservation превращает свою бронь в занятие
func (h *Handlers) HandleConfirmReservation(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := actorFrom(c)
	reservationID := c.Params("id")

	reservation, err := h.reservationService.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation.StudentID != actor.ID {
		return fmt.Errorf("reservation belongs to another student: %w", service.ErrForbidden)
	}

	sessionID, err := h.bookingService.ConfirmReservation(ctx, reservationID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":     sessionID,
		"reservation_id": reservationID,
	})
}

// HandleBookDirect записывает студента без брони
func (h *Handlers) HandleBookDirect(c *fiber.Ctx) error {
	var form bookingForm
	if err := h.bind(c, &form); err != nil {
		return err
	}

	sessionID, err := h.bookingService.BookDirect(c.UserContext(), form.toRequest(actorFrom(c).ID))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"session_id": sessionID})
}

type tutorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HandleModuleTutors отдаёт тьюторов модуля, к которым можно записаться
func (h *Handlers) HandleModuleTutors(c *fiber.Ctx) error {
	module, tutors, err := h.catalogService.ModuleTutors(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}

	views := make([]tutorView, 0, len(tutors))
	for _, tutor := range tutors {
		views = append(views, tutorView{ID: tutor.ID, Name: tutor.Name})
	}

	return c.JSON(fiber.Map{
		"module_code": module.Code,
		"module_name": module.Name,
		"tutors":      views,
	})
}
