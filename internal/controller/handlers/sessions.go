package handlers

import (
	"context"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gofiber/fiber/v2"
)

type transitionFunc func(ctx context.Context, actor model.Actor, sessionID string) (*model.Session, error)

// HandleMySessions отдаёт занятия текущего студента или тьютора
func (h *Handlers) HandleMySessions(c *fiber.Ctx) error {
	actor := actorFrom(c)

	var (
		sessions []*model.Session
		err      error
	)
	switch actor.Role {
	case model.RoleStudent:
		sessions, err = h.sessionService.ForStudent(c.UserContext(), actor.ID)
	case model.RoleTutor:
		sessions, err = h.sessionService.ForTutor(c.UserContext(), actor.ID)
	default:
		return fiber.NewError(fiber.StatusForbidden, "only students and tutors have sessions")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"sessions": orEmpty(sessions)})
}

// HandlePendingSessions - очередь занятий, ждущих решения тьютора
func (h *Handlers) HandlePendingSessions(c *fiber.Ctx) error {
	sessions, err := h.sessionService.PendingForTutor(c.UserContext(), actorFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"sessions": orEmpty(sessions)})
}

func (h *Handlers) HandleConfirmSession(c *fiber.Ctx) error {
	return h.transition(c, h.sessionService.Confirm)
}

func (h *Handlers) HandleRejectSession(c *fiber.Ctx) error {
	return h.transition(c, h.sessionService.Reject)
}

func (h *Handlers) HandleCancelSession(c *fiber.Ctx) error {
	return h.transition(c, h.sessionService.Cancel)
}

func (h *Handlers) HandleCompleteSession(c *fiber.Ctx) error {
	return h.transition(c, h.sessionService.Complete)
}

func (h *Handlers) transition(c *fiber.Ctx, do transitionFunc) error {
	session, err := do(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(session)
}

// HandleSubmitFeedback принимает отзыв студента о завершённом занятии
func (h *Handlers) HandleSubmitFeedback(c *fiber.Ctx) error {
	var form feedbackForm
	if err := h.bind(c, &form); err != nil {
		return err
	}

	feedbackID, err := h.sessionService.SubmitFeedback(c.UserContext(), actorFrom(c).ID, c.Params("id"), service.FeedbackInput{
		Rating:      form.Rating,
		Text:        form.Feedback,
		WasHelpful:  form.WasHelpful,
		Improvement: form.Improvement,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"feedback_id": feedbackID})
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
