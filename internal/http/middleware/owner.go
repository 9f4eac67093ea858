package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// OwnerHeader carries the numeric id of the acting user. It is set by
	// the authenticating proxy in front of the service.
	OwnerHeader = "X-User-ID"
	// OwnerLocalKey is the key used to store the owner id in Fiber's context locals.
	OwnerLocalKey = "owner_id"
)

// Owner parses OwnerHeader and stores a valid (positive) id in the context
// locals. Requests without a valid header pass through unchanged; handlers
// that need an owner check OwnerID.
func Owner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := strings.TrimSpace(c.Get(OwnerHeader)); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				c.Locals(OwnerLocalKey, id)
			}
		}
		return c.Next()
	}
}

// OwnerID returns the owner id stored by Owner.
func OwnerID(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(OwnerLocalKey).(int64)
	return id, ok
}
