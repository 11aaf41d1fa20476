package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"multiMart/pkg/logger"
	"multiMart/pkg/response"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler renders every error that reaches echo in the response
// envelope, including router 404/405 and bind failures.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= http.StatusInternalServerError {
			logger.Error("HTTP error", "error", err, "method", c.Request().Method, "path", c.Path())
		}
		if writeErr := response.Fail(c, he.Code, msg); writeErr != nil {
			logger.Error("Failed to write error response", "error", writeErr)
		}
		return
	}

	if writeErr := response.Error(c, err); writeErr != nil {
		logger.Error("Failed to write error response", "error", writeErr)
	}
}
