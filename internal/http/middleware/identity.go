package middleware

import (
	"github.com/gofiber/fiber/v2"

	"complyapi/internal/model"
)

const (
	// UserIDHeader carries the authenticated user's id, set by the upstream
	// auth gateway. This service performs no authentication itself.
	UserIDHeader       = "X-User-Id"
	UserNameHeader     = "X-User-Name"
	UserPositionHeader = "X-User-Position"
	// SignatureImageHeader optionally carries a reference to the user's
	// signature artifact.
	SignatureImageHeader = "X-User-Signature"

	// ActorLocalKey is the key used to store the actor in Fiber's context locals.
	ActorLocalKey = "actor"
)

// Identity reads the trusted identity headers into a model.Actor and stores
// it in context locals. Requests without an id simply carry no actor;
// mutating handlers decide whether that is acceptable.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Get(UserIDHeader); id != "" {
			c.Locals(ActorLocalKey, model.Actor{
				UserID:         id,
				UserName:       c.Get(UserNameHeader),
				Position:       c.Get(UserPositionHeader),
				SignatureImage: c.Get(SignatureImageHeader),
			})
		}
		return c.Next()
	}
}

// ActorFromCtx extracts the actor stored by Identity.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	if v := c.Locals(ActorLocalKey); v != nil {
		if a, ok := v.(model.Actor); ok {
			return a, true
		}
	}
	return model.Actor{}, false
}
