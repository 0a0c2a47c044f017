package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestNewWebhookDispatcherWithoutURL(t *testing.T) {
	assert.Nil(t, NewWebhookDispatcher("  "))

	var d *WebhookDispatcher
	assert.NotPanics(t, func() { d.Dispatch(models.Notification{}) })
}

func TestWebhookPost(t *testing.T) {
	received := make(chan WebhookPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		var p WebhookPayload
		assert.NoError(t, json.Unmarshal(body, &p))
		received <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := models.Notification{
		Model:   gorm.Model{ID: 12, CreatedAt: time.Now()},
		UserID:  4,
		Title:   "Certificate issued",
		Message: "Congratulations!",
		Data:    datatypes.JSON(`{"course_id":3}`),
	}
	require.NoError(t, NewWebhookDispatcher(srv.URL).Post(context.Background(), n))

	select {
	case p := <-received:
		assert.Equal(t, uint(12), p.ID)
		assert.Equal(t, uint(4), p.UserID)
		assert.Equal(t, "Certificate issued", p.Title)
		assert.Equal(t, map[string]any{"course_id": float64(3)}, p.Data)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook not called")
	}
}

func TestWebhookPostReportsHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewWebhookDispatcher(srv.URL).Post(context.Background(), models.Notification{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
