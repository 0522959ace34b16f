package slack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

const DefaultTimeout = 5 * time.Second

// SlackSink posts to a Slack incoming webhook
type SlackSink struct {
	url        string
	httpClient *http.Client
}

func NewSlackSink(webhookURL string, timeout time.Duration) *SlackSink {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SlackSink{
		url:        webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsSlackWebhook reports whether the URL points at Slack's incoming-webhook host.
func IsSlackWebhook(webhookURL string) bool {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "hooks.slack.com")
}

func (s *SlackSink) Name() string {
	return "slack"
}

// Send converts the Discord-style bold markers to Slack mrkdwn and posts once.
func (s *SlackSink) Send(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{
		Text: strings.ReplaceAll(text, "**", "*"),
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, s.url, s.httpClient, msg); err != nil {
		return fmt.Errorf("failed to post slack webhook: %w", err)
	}
	return nil
}
