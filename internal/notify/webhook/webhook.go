package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/momentumscan/internal/utils/request"
)

// DefaultTimeout bounds one webhook POST.
const DefaultTimeout = 5 * time.Second

// WebhookSink posts {"content": text}, the Discord incoming-webhook shape
type WebhookSink struct {
	url        string
	httpClient *resty.Client
}

func NewWebhookSink(url string, httpClient *resty.Client) *WebhookSink {
	if httpClient == nil {
		httpClient = request.New(DefaultTimeout)
	}
	return &WebhookSink{url: url, httpClient: httpClient}
}

func (w *WebhookSink) Name() string {
	return "webhook"
}

func (w *WebhookSink) Send(ctx context.Context, text string) error {
	resp, err := w.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"content": text}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}
	return nil
}
