package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailjetRepository_SendEmail(t *testing.T) {
	var got payloadSendEmail
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3.1/send", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(MailjetConfig{
		MailjetBaseURL:           srv.URL,
		MailjetBasicAuthUsername: "user",
		MailjetBasicAuthPassword: "pass",
		MailjetSenderEmail:       "noreply@multimart.test",
		MailjetSenderName:        "MultiMart",
	})

	err := repo.SendEmail(context.Background(), "Ann", "ann@test", "Hello", "body")
	require.NoError(t, err)

	assert.Equal(t, "Basic dXNlcjpwYXNz", auth)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "ann@test", got.Messages[0].To[0].Email)
	assert.Equal(t, "Hello", got.Messages[0].Subject)
}

func TestMailjetRepository_NegativeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	repo := NewMailjetRepository(MailjetConfig{MailjetBaseURL: srv.URL})
	err := repo.SendEmail(context.Background(), "Ann", "ann@test", "Hello", "body")
	assert.ErrorContains(t, err, "401")
}
