package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/application/user"
	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/utils"
	"github.com/cinezone/cinezone/internal/shared/utils/logutil"
)

// Authenticator resolves a bearer token to the active user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.Principal, error)
}

// TierChecker decides whether a role may enter an access tier.
type TierChecker interface {
	Allows(role authorization.UserRole, tier authorization.Tier) (bool, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
	tiers         TierChecker
	logger        logger.Interface
}

func NewAuthMiddleware(authenticator Authenticator, tiers TierChecker, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		tiers:         tiers,
		logger:        logger,
	}
}

// RequireAuth verifies the Bearer token and stores the user id and role on
// the context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("Missing authorization token"))
			c.Abort()
			return
		}

		principal, err := m.authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.IsAppError(err) {
				m.logger.Errorw("failed to authenticate request", "error", err, "path", c.Request.URL.Path)
			} else {
				m.logger.Debugw("request rejected by authentication",
					"error", err,
					"path", c.Request.URL.Path,
					"token_prefix", logutil.TruncateForLog(token, 8))
			}
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, principal.UserID)
		c.Set(constants.ContextKeyUserRole, principal.Role.String())

		c.Next()
	}
}

// RequireTier must run after RequireAuth.
func (m *AuthMiddleware) RequireTier(tier authorization.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(constants.ContextKeyUserID)
		if !exists {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized))
			c.Abort()
			return
		}

		role := authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole))
		allowed, err := m.tiers.Allows(role, tier)
		if err != nil {
			m.logger.Errorw("tier check failed", "error", err, "user_id", userID, "tier", tier)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("tier access denied", "user_id", userID, "role", role, "tier", tier)
			utils.ErrorResponseWithError(c, errors.NewForbiddenError(constants.ErrMsgForbidden))
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
