package middleware

import (
	"attendtrack/config"
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
	"attendtrack/internal/repositories"
	"errors"
	"strings"

	. "attendtrack/internal/models"

	"github.com/gofiber/fiber/v2"
)

// IdentityHeader carries the id of the caller, set by the authenticating proxy.
const IdentityHeader = "X-User-ID"

type Middleware struct {
	DB           database.DB
	Config       config.Config
	identityRepo repositories.IdentityRepository
	log          logger.Logger
}

func New(db database.DB, config config.Config, identityRepo repositories.IdentityRepository) Middleware {
	return Middleware{
		DB:           db,
		Config:       config,
		identityRepo: identityRepo,
		log:          logger.New("middleware"),
	}
}

// RequireIdentity loads the caller named by IdentityHeader into
// c.Locals("user") and rejects unknown or inactive callers.
func (m Middleware) RequireIdentity(c *fiber.Ctx) error {
	log := m.log.Function("RequireIdentity")

	id := strings.TrimSpace(c.Get(IdentityHeader))
	if id == "" {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "error", "error": "missing " + IdentityHeader + " header"})
	}

	identity, err := m.identityRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrIdentityNotFound) {
			log.Warn("unknown identity", "id", id)
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"message": "error", "error": "unknown identity"})
		}
		log.Er("failed to load identity", err, "id", id)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "error": "failed to load identity"})
	}

	if !identity.IsActive {
		log.Warn("inactive identity", "id", id)
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "error", "error": "identity is inactive"})
	}

	c.Locals("user", *identity)
	c.Locals("userID", identity.ID)
	return c.Next()
}

// CurrentIdentity returns the identity stored by RequireIdentity.
func CurrentIdentity(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals("user").(Identity)
	return identity, ok && identity.ID != ""
}
