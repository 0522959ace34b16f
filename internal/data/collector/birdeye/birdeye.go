package birdeye

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/momentumscan/internal/data"
	"github.com/songzhibin97/momentumscan/internal/models"
	"github.com/songzhibin97/momentumscan/internal/utils/request"
)

const (
	DefaultBaseURL       = "https://public-api.birdeye.so"
	DefaultTrendingLimit = 20
)

// BirdeyeDataSource serves both the trending candidate list and per-token overviews
type BirdeyeDataSource struct {
	baseURL       string
	apiKey        string
	chain         string
	trendingLimit int
	httpClient    *resty.Client
}

func NewBirdeyeDataSource(apiKey, chain string, httpClient *resty.Client) *BirdeyeDataSource {
	if httpClient == nil {
		httpClient = request.Request
	}
	return &BirdeyeDataSource{
		baseURL:       DefaultBaseURL,
		apiKey:        apiKey,
		chain:         chain,
		trendingLimit: DefaultTrendingLimit,
		httpClient:    httpClient,
	}
}

// WithBaseURL points the source at another host.
func (b *BirdeyeDataSource) WithBaseURL(baseURL string) *BirdeyeDataSource {
	if baseURL != "" {
		b.baseURL = baseURL
	}
	return b
}

// WithTrendingLimit sets how many trending tokens are requested.
func (b *BirdeyeDataSource) WithTrendingLimit(limit int) *BirdeyeDataSource {
	if limit > 0 {
		b.trendingLimit = limit
	}
	return b
}

func (b *BirdeyeDataSource) Name() string {
	return "birdeye"
}

func (b *BirdeyeDataSource) newRequest(ctx context.Context) *resty.Request {
	return b.httpClient.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", b.apiKey).
		SetHeader("x-chain", b.chain).
		SetHeader("Accept", "application/json")
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (b *BirdeyeDataSource) get(req *resty.Request, path string) (*envelope, error) {
	resp, err := req.Get(b.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &env, nil
}

// Candidates returns the trending tokens sorted by 24h volume.
func (b *BirdeyeDataSource) Candidates(ctx context.Context) ([]models.Candidate, error) {
	req := b.newRequest(ctx).SetQueryParams(map[string]string{
		"sort_by":   "volume24hUSD",
		"sort_type": "desc",
		"offset":    "0",
		"limit":     strconv.Itoa(b.trendingLimit),
	})

	env, err := b.get(req, "/defi/token_trending")
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("trending request reported failure")
	}

	var payload struct {
		Tokens []struct {
			Address string `json:"address"`
			Symbol  string `json:"symbol"`
		} `json:"tokens"`
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, fmt.Errorf("failed to decode trending tokens: %w", err)
		}
	}

	candidates := make([]models.Candidate, 0, len(payload.Tokens))
	for _, tok := range payload.Tokens {
		if tok.Address == "" {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Address: tok.Address,
			Symbol:  tok.Symbol,
			Sources: []string{b.Name()},
		})
	}
	return candidates, nil
}

type overview struct {
	Symbol    *string  `json:"symbol"`
	Liquidity *float64 `json:"liquidity"`
	MarketCap *float64 `json:"mc"`
	Volume24h *float64 `json:"v24hUSD"`
	Volume1h  *float64 `json:"v1hUSD"`
}

// TokenOverview fetches liquidity and volume metrics for one token. Missing or null
// fields default to zero.
func (b *BirdeyeDataSource) TokenOverview(ctx context.Context, address string) (*models.TokenMetrics, error) {
	req := b.newRequest(ctx).SetQueryParam("address", address)

	env, err := b.get(req, "/defi/token_overview")
	if err != nil {
		return nil, err
	}

	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, fmt.Errorf("overview for %s: %w", address, data.ErrTokenNotFound)
	}

	var ov overview
	if err := json.Unmarshal(env.Data, &ov); err != nil {
		return nil, fmt.Errorf("failed to decode overview: %w", err)
	}

	symbol := models.UnknownSymbol
	if ov.Symbol != nil && *ov.Symbol != "" {
		symbol = *ov.Symbol
	}

	return &models.TokenMetrics{
		Address:   address,
		Symbol:    symbol,
		Liquidity: nonNegative(ov.Liquidity),
		MarketCap: nonNegative(ov.MarketCap),
		Volume24h: nonNegative(ov.Volume24h),
		Volume1h:  nonNegative(ov.Volume1h),
	}, nil
}

func nonNegative(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
