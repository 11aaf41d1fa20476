package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"multiMart/internal/middleware"
	"multiMart/pkg/apperror"
	"multiMart/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const defaultTimeout = 10 * time.Second

// bindAndValidate decodes the request body into req and runs its validate tags.
func bindAndValidate(c echo.Context, v *validator.Validate, req any) error {
	if err := c.Bind(req); err != nil {
		return apperror.BadRequest("invalid request body")
	}
	if err := v.Struct(req); err != nil {
		return apperror.Validation(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("invalid " + name)
	}
	return id, nil
}

func currentUser(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}
	return id, nil
}

func currentVendor(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.VendorID(c)
	if !ok {
		return uuid.Nil, apperror.ErrForbidden
	}
	return id, nil
}

func requestContext(c echo.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), timeout)
}

func okMessage(c echo.Context, message string) error {
	return response.Success(c, http.StatusOK, message, nil)
}
