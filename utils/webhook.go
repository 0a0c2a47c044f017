package utils

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"lms/config"
	"lms/logger"
	"lms/models"

	"github.com/go-resty/resty/v2"
)

// WebhookPayload is the JSON body posted for every stored notification.
type WebhookPayload struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WebhookDispatcher forwards notifications to NOTIFY_WEBHOOK_URL.
type WebhookDispatcher struct {
	url    string
	client *resty.Client
}

// NewWebhookDispatcher returns nil when url is empty so callers can pass the
// result straight to services.NewNotificationService.
func NewWebhookDispatcher(url string) *WebhookDispatcher {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")
	return &WebhookDispatcher{url: url, client: client}
}

// Dispatch posts in the background and only logs failures.
func (d *WebhookDispatcher) Dispatch(n models.Notification) {
	if d == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := d.Post(ctx, n); err != nil {
			logger.Log.Warn("notification webhook failed", "notification_id", n.ID, "error", err)
		}
	}()
}

// Post sends one notification synchronously.
func (d *WebhookDispatcher) Post(ctx context.Context, n models.Notification) error {
	payload := WebhookPayload{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		payload.Data = n.Data
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(d.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

var (
	defaultDispatcher *WebhookDispatcher
	dispatcherOnce    sync.Once
)

// DefaultDispatcher is the process-wide dispatcher built from config.AppConfig.
// It is nil when no webhook URL is configured; Dispatch on nil is a no-op.
func DefaultDispatcher() *WebhookDispatcher {
	dispatcherOnce.Do(func() {
		if config.AppConfig != nil {
			defaultDispatcher = NewWebhookDispatcher(config.AppConfig.NotifyWebhookURL)
		}
	})
	return defaultDispatcher
}
