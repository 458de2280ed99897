package middleware

import (
	"time"

	"swagstore/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Cookie names. The session cookie carries the signed session token; the
// visitor cookie identifies anonymous browsers so carts and
// recently-viewed lists survive without an account.
const (
	SessionCookieName = "session"
	VisitorCookieName = "visitor_id"
)

// Anonymous visitor cookies outlive sessions; carts should survive a
// casual return visit.
const visitorCookieTTL = 180 * 24 * time.Hour

// SessionOptional resolves the session cookie when present and stores the
// claims in the request context. Requests without a valid session pass
// through anonymously.
func SessionOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token != "" {
			if claims, err := authService.ValidateToken(token); err == nil {
				c.Locals("user_id", claims["user_id"])
				c.Locals("email", claims["email"])
				c.Locals("name", claims["name"])
			}
		}
		return c.Next()
	}
}

// AuthRequired rejects requests without a valid session cookie.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authenticated",
			})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		c.Locals("user_id", claims["user_id"])
		c.Locals("email", claims["email"])
		c.Locals("name", claims["name"])
		return c.Next()
	}
}

// WithVisitor establishes the visitor key the cart and personalization
// stores are keyed by: the user id for authenticated requests, otherwise
// a generated visitor cookie. Must run after session resolution.
func WithVisitor(secureCookies bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
			c.Locals("visitor_key", userID)
			return c.Next()
		}

		visitorID := c.Cookies(VisitorCookieName)
		if visitorID == "" {
			visitorID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     VisitorCookieName,
				Value:    visitorID,
				Expires:  time.Now().Add(visitorCookieTTL),
				HTTPOnly: true,
				Secure:   secureCookies,
				SameSite: fiber.CookieSameSiteLaxMode,
				Path:     "/",
			})
		}
		c.Locals("visitor_key", visitorID)
		return c.Next()
	}
}
