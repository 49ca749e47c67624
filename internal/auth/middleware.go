package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lkn-labs/supportbot/internal/config"
	util "github.com/lkn-labs/supportbot/pkg/util/errorutil"
)

const managerIDKey = "auth_manager_id"

// ManagerMiddleware validates bearer tokens and checks membership in the
// fixed manager identity set.
type ManagerMiddleware struct {
	tokens *TokenManager
	dialog config.DialogConfig
}

// NewManagerMiddleware constructs middleware.
func NewManagerMiddleware(tokens *TokenManager, dialog config.DialogConfig) *ManagerMiddleware {
	return &ManagerMiddleware{tokens: tokens, dialog: dialog}
}

// Handle enforces manager authentication for privileged routes.
func (m *ManagerMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}
	if !m.dialog.IsManager(claims.ManagerID) {
		return util.NewForbidden("caller is not a manager")
	}

	c.Locals(managerIDKey, claims.ManagerID)
	return c.Next()
}

// ManagerIDFromContext retrieves the authenticated manager identity.
func ManagerIDFromContext(c *fiber.Ctx) (int64, bool) {
	val := c.Locals(managerIDKey)
	if val == nil {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}
