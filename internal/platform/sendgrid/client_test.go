package sendgrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cownect/cownect-backend/internal/platform/logger"
)

func TestSendUsesDefaultSender(t *testing.T) {
	var wire mailSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
		w.Header().Set("X-Message-Id", "msg-1")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, DefaultFromEmail: "noreply@cownect.app"})
	require.NoError(t, err)

	res, err := c.Send(context.Background(), SendEmailRequest{
		To:      []EmailAddress{{Email: "aggie@ucdavis.edu"}},
		Subject: "Your results",
		Text:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.MessageID)
	assert.Equal(t, "noreply@cownect.app", wire.From.Email)
	require.Len(t, wire.Content, 1)
	assert.Equal(t, "text/plain", wire.Content[0].Type)
}

func TestSendSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad from"}]}`))
	}))
	defer srv.Close()

	c, err := New(logger.Nop(), Config{APIKey: "k", BaseURL: srv.URL, DefaultFromEmail: "x@y.z"})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "a@b.c"}}, Subject: "s", Text: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad from")
}

func TestSendValidates(t *testing.T) {
	c, err := New(logger.Nop(), Config{APIKey: "k", DefaultFromEmail: "x@y.z"})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), SendEmailRequest{Subject: "s", Text: "t"})
	assert.Error(t, err)
	_, err = c.Send(context.Background(), SendEmailRequest{To: []EmailAddress{{Email: "a@b.c"}}, Subject: "s"})
	assert.Error(t, err)
}
