package rugcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, status int, body string) (*httptest.Server, *RugCheckScreener) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tokens/CA1/report", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	screener := NewRugCheckScreener(resty.NewWithClient(server.Client())).WithBaseURL(server.URL)
	return server, screener
}

func TestRugCheckScreener_Screen(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectError bool
		wantSafe    bool
		wantDangers int
	}{
		{
			name:     "empty risk list",
			status:   http.StatusOK,
			body:     `{"mint":"CA1","score":1,"risks":[]}`,
			wantSafe: true,
		},
		{
			name:     "missing risk list",
			status:   http.StatusOK,
			body:     `{"mint":"CA1"}`,
			wantSafe: true,
		},
		{
			name:     "warnings only",
			status:   http.StatusOK,
			body:     `{"risks":[{"name":"Low Liquidity","level":"warn","score":400}]}`,
			wantSafe: true,
		},
		{
			name:        "danger entry",
			status:      http.StatusOK,
			body:        `{"risks":[{"name":"mintable","level":"danger","description":"Mint authority enabled","score":5000}]}`,
			wantSafe:    false,
			wantDangers: 1,
		},
		{
			name:        "http 404",
			status:      http.StatusNotFound,
			body:        `{"error":"not found"}`,
			expectError: true,
		},
		{
			name:        "invalid json",
			status:      http.StatusOK,
			body:        `<html>`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, screener := setupTestServer(t, tt.status, tt.body)
			defer server.Close()

			verdict, err := screener.Screen(context.Background(), "CA1")
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, verdict)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSafe, verdict.Safe)
			assert.Len(t, verdict.Dangers, tt.wantDangers)
		})
	}
}

func TestRugCheckScreener_DangerDetails(t *testing.T) {
	server, screener := setupTestServer(t, http.StatusOK,
		`{"risks":[{"name":"mintable","level":"danger","description":"Mint authority enabled","score":5000}]}`)
	defer server.Close()

	verdict, err := screener.Screen(context.Background(), "CA1")
	require.NoError(t, err)
	require.Len(t, verdict.Dangers, 1)
	assert.Equal(t, "mintable", verdict.Dangers[0].Name)
	assert.Equal(t, "Mint authority enabled", verdict.Dangers[0].Description)
	assert.Equal(t, 5000.0, verdict.Dangers[0].Score)
}
