package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsClientKey is where the resolved rate-limit key is stored for the
// rest of the request, including after a websocket upgrade.
const LocalsClientKey = "clientKey"

// ResolveClientKey derives the rate-limit identity for a connection from its
// transport-level address: the first entry of X-Forwarded-For when a proxy
// is in front, then X-Real-IP, then the raw socket address. Reconnecting
// from the same address reuses the same key, which is what prevents
// cooldown evasion via reconnect.
func ResolveClientKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalsClientKey, ClientKeyFromRequest(c.Get("X-Forwarded-For"), c.Get("X-Real-IP"), c.IP()))
		return c.Next()
	}
}

// ClientKeyFromRequest picks the client key out of the candidate addresses.
func ClientKeyFromRequest(forwardedFor, realIP, remoteAddr string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP != "" {
		return realIP
	}
	if remoteAddr != "" {
		return remoteAddr
	}
	return "unknown"
}
