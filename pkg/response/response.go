package response

import (
	"net/http"

	"multiMart/domain"
	"multiMart/pkg/apperror"
	"multiMart/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response body.
type Envelope struct {
	Status     string             `json:"status"`
	StatusCode int                `json:"statusCode"`
	Message    string             `json:"message"`
	Data       any                `json:"data,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

func Success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{
		Status:     StatusSuccess,
		StatusCode: code,
		Message:    message,
		Data:       data,
	})
}

func OK(c echo.Context, message string, data any) error {
	return Success(c, http.StatusOK, message, data)
}

func Created(c echo.Context, message string, data any) error {
	return Success(c, http.StatusCreated, message, data)
}

func Paginated(c echo.Context, message string, data any, pagination domain.Pagination) error {
	return c.JSON(http.StatusOK, Envelope{
		Status:     StatusSuccess,
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Pagination: &pagination,
	})
}

// Fail writes an error envelope with an explicit status.
func Fail(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{
		Status:     StatusError,
		StatusCode: code,
		Message:    message,
	})
}

// Error maps err to its HTTP status. Errors that are not AppErrors are
// logged and hidden behind a generic 500.
func Error(c echo.Context, err error) error {
	if appErr, ok := apperror.As(err); ok {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error("Internal error", "error", err, "path", c.Path())
		}
		return Fail(c, appErr.HTTPStatus, appErr.Message)
	}

	logger.Error("Unhandled error", "error", err, "method", c.Request().Method, "path", c.Path())
	return Fail(c, http.StatusInternalServerError, "internal server error")
}
