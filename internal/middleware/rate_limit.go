package middleware

import (
	"net/http"
	"strconv"
	"time"

	"multiMart/pkg/logger"
	"multiMart/pkg/response"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit allows limit requests per period for each client IP on each
// route. Routes sharing one instance keep separate budgets.
func RateLimit(limit int64, period time.Duration) echo.MiddlewareFunc {
	if limit <= 0 {
		limit = 20
	}
	if period <= 0 {
		period = time.Minute
	}

	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			lctx, err := instance.Get(c.Request().Context(), rateLimitKey(c))
			if err != nil {
				logger.Error("Rate limiter failed", "error", err)
				return response.Fail(c, http.StatusInternalServerError, "internal server error")
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				return response.Fail(c, http.StatusTooManyRequests, "too many requests, try again later")
			}

			return next(c)
		}
	}
}

func rateLimitKey(c echo.Context) string {
	return c.Request().Method + " " + c.Path() + "|" + c.RealIP()
}
