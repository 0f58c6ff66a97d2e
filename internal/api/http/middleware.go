package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/google/uuid"
)

// CSRF and session transport expected by planner clients.
const (
	CSRFCookie    = "csrftoken"
	CSRFHeader    = "X-CSRFToken"
	SessionCookie = "sessionid"
)

const userKey = "user"

// TokenParser resolves a session token to a username.
type TokenParser interface {
	Parse(raw string) (string, error)
}

// ErrorHandler renders every error as {"error": "<message>"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// csrfMiddleware issues the csrftoken cookie on safe requests and requires
// the same token in the X-CSRFToken header on unsafe ones.
func csrfMiddleware() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "header:" + CSRFHeader,
		CookieName:     CSRFCookie,
		CookiePath:     "/",
		CookieSameSite: "Lax",
		Expiration:     12 * time.Hour,
		KeyGenerator:   uuid.NewString,
	})
}

// authMiddleware attaches the username of a valid bearer token or session
// cookie. Requests without a valid token continue anonymously.
func authMiddleware(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokens == nil {
			return c.Next()
		}

		raw := c.Cookies(SessionCookie)
		if authz := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(authz, "Bearer ") {
			raw = strings.TrimPrefix(authz, "Bearer ")
		}
		if raw != "" {
			if user, err := tokens.Parse(raw); err == nil {
				c.Locals(userKey, user)
			}
		}
		return c.Next()
	}
}

func requireUser(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) (string, bool) {
	user, ok := c.Locals(userKey).(string)
	return user, ok && user != ""
}
