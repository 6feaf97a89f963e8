package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"folio/internal/db"
	"folio/internal/models"
)

// AuthMiddleware handles user authentication via sessions.
type AuthMiddleware struct {
	store *session.Store
	db    *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(store *session.Store, db *db.DB) *AuthMiddleware {
	return &AuthMiddleware{store: store, db: db}
}

// RequireAuth ensures the user is authenticated, redirecting to /login if not.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	profile, ok := m.load(c)
	if !ok {
		return c.Redirect().To("/login")
	}
	c.Locals("profile", profile)
	return c.Next()
}

// RequireAuthJSON is RequireAuth for the JSON API: unauthenticated requests
// get a 401 envelope instead of a redirect.
func (m *AuthMiddleware) RequireAuthJSON(c fiber.Ctx) error {
	profile, ok := m.load(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "error",
			"error":  "authentication required",
		})
	}
	c.Locals("profile", profile)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if profile, ok := m.load(c); ok {
		c.Locals("profile", profile)
	}
	return c.Next()
}

func (m *AuthMiddleware) load(c fiber.Ctx) (*models.Profile, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, false
	}

	sub := sess.Get("user_sub")
	if sub == nil {
		return nil, false
	}

	profile, err := m.db.GetProfileBySub(c.Context(), sub.(string))
	if err != nil {
		sess.Destroy()
		return nil, false
	}
	return profile, true
}
