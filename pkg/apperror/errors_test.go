package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MapsStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:        http.StatusNotFound,
		ErrCodeBadRequest:      http.StatusBadRequest,
		ErrCodeValidation:      http.StatusBadRequest,
		ErrCodeUnauthorized:    http.StatusUnauthorized,
		ErrCodeForbidden:       http.StatusForbidden,
		ErrCodeConflict:        http.StatusConflict,
		ErrCodeTooManyRequests: http.StatusTooManyRequests,
		ErrCodeInternal:        http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, code)
	}
}

func TestIs_MatchesWrappedSentinel(t *testing.T) {
	sentinel := NotFound("order not found")
	wrapped := fmt.Errorf("find order: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.False(t, errors.Is(wrapped, NotFound("product not found")))
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, ErrCodeInternal, "failed to load")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
