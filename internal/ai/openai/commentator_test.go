package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/songzhibin97/momentumscan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, status int, content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
			return
		}

		resp := map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"model":   "test-model",
			"choices": []map[string]interface{}{},
		}
		if content != "" {
			resp["choices"] = []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			}}
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func testMetrics() *models.TokenMetrics {
	return &models.TokenMetrics{
		Address:   "CA1",
		Symbol:    "MOON",
		Liquidity: 50_000,
		Volume24h: 240_000,
		Volume1h:  13_000,
	}
}

func TestOpenAICommentator_Comment(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		content     string
		expectError bool
		want        string
	}{
		{
			name:    "valid response",
			status:  http.StatusOK,
			content: "  Check holder concentration before entering.  ",
			want:    "Check holder concentration before entering.",
		},
		{
			name:        "no choices",
			status:      http.StatusOK,
			content:     "",
			expectError: true,
		},
		{
			name:        "http 429",
			status:      http.StatusTooManyRequests,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupTestServer(t, tt.status, tt.content)
			defer server.Close()

			c := NewOpenAICommentator("test-key", server.URL, "test-model", time.Second)
			got, err := c.Comment(context.Background(), testMetrics())
			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenAICommentator_TruncatesLongComment(t *testing.T) {
	server := setupTestServer(t, http.StatusOK, strings.Repeat("a", 500))
	defer server.Close()

	c := NewOpenAICommentator("test-key", server.URL, "test-model", time.Second)
	got, err := c.Comment(context.Background(), testMetrics())
	require.NoError(t, err)
	assert.Equal(t, maxCommentLength+1, len([]rune(got)))
}

func TestOpenAICommentator_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(10 * time.Second):
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()
	defer close(release)

	c := NewOpenAICommentator("test-key", server.URL, "test-model", 200*time.Millisecond)

	start := time.Now()
	got, err := c.Comment(context.Background(), testMetrics())
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.Empty(t, got)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestNewOpenAICommentator_Defaults(t *testing.T) {
	c := NewOpenAICommentator("test-key", "", "", 0)
	assert.Equal(t, "gpt-4o-mini", c.model)
}
