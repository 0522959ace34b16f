package dexscreener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, status int, body string) (*httptest.Server, *DexScreenerDataSource) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token-boosts/latest/v1", r.URL.Path)
		assert.Empty(t, r.Header.Get("X-API-KEY"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	ds := NewDexScreenerDataSource("solana", resty.NewWithClient(server.Client())).WithBaseURL(server.URL)
	return server, ds
}

func TestDexScreenerDataSource_Candidates(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectError bool
		expected    []string
	}{
		{
			name:   "filters to chain",
			status: http.StatusOK,
			body: `[
				{"chainId":"solana","tokenAddress":"SOL1","amount":10},
				{"chainId":"ethereum","tokenAddress":"0xabc"},
				{"chainId":"solana","tokenAddress":""},
				{"chainId":"solana","tokenAddress":"SOL2"}
			]`,
			expected: []string{"SOL1", "SOL2"},
		},
		{
			name:     "empty list",
			status:   http.StatusOK,
			body:     `[]`,
			expected: []string{},
		},
		{
			name:        "object instead of list",
			status:      http.StatusOK,
			body:        `{"error":"bad"}`,
			expectError: true,
		},
		{
			name:        "http 500",
			status:      http.StatusInternalServerError,
			body:        `[]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, ds := setupTestServer(t, tt.status, tt.body)
			defer server.Close()

			cands, err := ds.Candidates(context.Background())
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cands)
				return
			}

			require.NoError(t, err)
			got := make([]string, 0, len(cands))
			for _, c := range cands {
				got = append(got, c.Address)
				assert.Empty(t, c.Symbol)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDexScreenerDataSource_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ds := NewDexScreenerDataSource("solana", resty.NewWithClient(server.Client())).WithBaseURL(server.URL)
	server.Close()

	cands, err := ds.Candidates(context.Background())
	assert.Error(t, err)
	assert.Nil(t, cands)
}
