package handlers

import (
	"strings"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/gofiber/fiber/v2"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	actorKey = "actor"
)

// Identity читает пользователя из заголовков, которые ставит внешний слой авторизации.
// Без них запрос отклоняется с 401.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(HeaderUserID))
		role := model.Role(strings.ToLower(strings.TrimSpace(c.Get(HeaderUserRole))))

		if id == "" || !validRole(role) {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid user identity")
		}

		c.Locals(actorKey, model.Actor{ID: id, Role: role})
		return c.Next()
	}
}

// RequireRole пропускает только перечисленные роли
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorFrom(c)
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "not available for role "+string(actor.Role))
	}
}

// actorFrom достаёт пользователя, которого положил Identity
func actorFrom(c *fiber.Ctx) model.Actor {
	actor, _ := c.Locals(actorKey).(model.Actor)
	return actor
}

func validRole(role model.Role) bool {
	switch role {
	case model.RoleStudent, model.RoleTutor, model.RoleAdmin:
		return true
	}
	return false
}
