package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docsearch/internal/logger"
)

const (
	// RequestIDHeader is the standard header name used to propagate request IDs.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is the key used to store the request ID in Fiber's context locals.
	RequestIDLocalKey = "request_id"

	maxRequestIDLen = 128
)

// RequestID ensures every request has a request ID.
//
// Behavior:
// - Reuses X-Request-ID from the caller when it is short printable ASCII.
// - Otherwise generates a new UUID, so client input never reaches the logs unchecked.
// - Stores the value in Fiber context locals under RequestIDLocalKey.
// - Attaches it to the user context for request scoped logging.
// - Echoes the value in the X-Request-ID response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.SetUserContext(logger.WithRequestID(c.UserContext(), id))
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
