package middleware

import (
	"context"
	"net/http"

	"multiMart/domain"
	"multiMart/pkg/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type VendorLookup interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.Vendor, error)
}

// ResolveVendor maps the authenticated user to their vendor profile and
// stores its id under ContextVendorID. Users without a profile get 404;
// suspended vendors get 403.
func ResolveVendor(vendors VendorLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return response.Fail(c, http.StatusUnauthorized, "authentication required")
			}

			vendor, err := vendors.GetByUserID(c.Request().Context(), userID)
			if err != nil {
				return response.Error(c, err)
			}

			if vendor.Status == domain.VendorStatusSuspended {
				return response.Fail(c, http.StatusForbidden, "vendor account is suspended")
			}

			c.Set(ContextVendorID, vendor.ID)
			return next(c)
		}
	}
}
