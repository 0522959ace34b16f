package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/songzhibin97/momentumscan/internal/models"
)

const (
	maxCommentLength = 280

	DefaultTimeout = 10 * time.Second
)

// OpenAICommentator implements the Commentator interface with any OpenAI-compatible
// chat completion API (OpenAI, DeepSeek via BaseURL)
type OpenAICommentator struct {
	client *openai.Client
	model  string
}

// NewOpenAICommentator creates a commentator. An empty baseURL uses OpenAI itself;
// timeout bounds each completion request.
func NewOpenAICommentator(apiKey, baseURL, model string, timeout time.Duration) *OpenAICommentator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICommentator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Comment implements the Commentator interface
func (a *OpenAICommentator) Comment(ctx context.Context, m *models.TokenMetrics) (string, error) {
	prompt := fmt.Sprintf(`A Solana token passed a volume-acceleration screen.
Symbol: %s
Liquidity (USD): %.0f
Market cap (USD): %.0f
24h volume (USD): %.0f
1h volume (USD): %.0f
Acceleration vs hourly average: %.2fx

In at most two short sentences, note what a trader should double-check before acting.
Plain text, no markdown, no price predictions.`,
		m.Symbol, m.Liquidity, m.MarketCap, m.Volume24h, m.Volume1h, m.Acceleration())

	resp, err := a.createChatCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to comment: %w", err)
	}

	comment := strings.TrimSpace(resp)
	if comment == "" {
		return "", fmt.Errorf("empty comment")
	}
	if r := []rune(comment); len(r) > maxCommentLength {
		comment = string(r[:maxCommentLength]) + "…"
	}
	return comment, nil
}

// createChatCompletion is a helper function to make OpenAI API calls
func (a *OpenAICommentator) createChatCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a terse on-chain analyst. You never give financial advice.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
			MaxTokens:   120,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return resp.Choices[0].Message.Content, nil
}
