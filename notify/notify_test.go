package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pushr-cd/pushr/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessMessage(t *testing.T) {
	msg := SuccessMessage("shop", domain.CommitInfo{Hash: "abc1234", Message: "Fix checkout"})
	assert.Equal(t, "Deployed shop with revision abc1234 - Fix checkout", msg)
}

func TestSuccessMessage_TruncatesSubject(t *testing.T) {
	subject := strings.Repeat("ü", 150)
	msg := SuccessMessage("shop", domain.CommitInfo{Hash: "abc1234", Message: subject})
	assert.Equal(t, "Deployed shop with revision abc1234 - "+strings.Repeat("ü", 100), msg)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "FAIL! Deploying shop failed. Check log for details.", FailureMessage("shop"))
}

func TestWebhookNotifier_Notify(t *testing.T) {
	var got payload
	var user, pass string
	var ok bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		user, pass, ok = r.BasicAuth()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Config{URL: srv.URL, Username: "bot", Password: "s3cret"}, nil)
	require.NoError(t, n.Notify(context.Background(), "hello"))

	assert.Equal(t, "hello", got.Text)
	assert.True(t, ok)
	assert.Equal(t, "bot", user)
	assert.Equal(t, "s3cret", pass)
}

func TestWebhookNotifier_NoAuth(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, hasAuth = r.BasicAuth()
	}))
	defer srv.Close()

	require.NoError(t, NewWebhookNotifier(Config{URL: srv.URL}, nil).Notify(context.Background(), "hello"))
	assert.False(t, hasAuth)
}

func TestWebhookNotifier_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(Config{URL: srv.URL}, nil).Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestWebhookNotifier_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(Config{URL: srv.URL, RetryMax: 2}, nil)
	n.client.RetryWaitMin = 0
	n.client.RetryWaitMax = 0

	require.NoError(t, n.Notify(context.Background(), "hello"))
	assert.Equal(t, int32(2), calls.Load())
}
