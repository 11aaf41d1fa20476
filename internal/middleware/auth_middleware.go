package middleware

import (
	"net/http"
	"strings"

	"multiMart/domain"
	"multiMart/pkg/logger"
	"multiMart/pkg/response"
	"multiMart/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextToken    = "token"
	ContextVendorID = "vendor_id"
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	ParseJWT(token string) (*utils.Claims, error)
}

// AuthMiddleware requires a valid bearer JWT and stores the caller's id,
// role and raw token in the echo context.
func AuthMiddleware(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return response.Fail(c, http.StatusUnauthorized, "missing authorization header")
			}

			tokenParts := strings.SplitN(authHeader, " ", 2)
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") || tokenParts[1] == "" {
				return response.Fail(c, http.StatusUnauthorized, "invalid authorization format")
			}

			tokenString := tokenParts[1]

			claims, err := tokens.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("Rejected token", "error", err)
				return response.Fail(c, http.StatusUnauthorized, "invalid or expired token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				logger.Warn("Invalid user ID in token", "error", err)
				return response.Fail(c, http.StatusUnauthorized, "invalid token subject")
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextRole, claims.Role)
			c.Set(ContextToken, tokenString)

			return next(c)
		}
	}
}

// RequireRole lets through callers holding one of roles.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			for _, r := range roles {
				if strings.EqualFold(role, string(r)) {
					return next(c)
				}
			}
			return response.Fail(c, http.StatusForbidden, "insufficient permissions")
		}
	}
}

// UserID returns the authenticated caller set by AuthMiddleware.
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextUserID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func VendorID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextVendorID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
