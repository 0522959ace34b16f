package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/momentumscan/internal/models"
	"github.com/songzhibin97/momentumscan/internal/utils/request"
)

const DefaultBaseURL = "https://api.dexscreener.com"

// DexScreenerDataSource lists the latest boosted tokens on one chain. No key is required.
type DexScreenerDataSource struct {
	baseURL    string
	chain      string
	httpClient *resty.Client
}

func NewDexScreenerDataSource(chain string, httpClient *resty.Client) *DexScreenerDataSource {
	if httpClient == nil {
		httpClient = request.Request
	}
	return &DexScreenerDataSource{
		baseURL:    DefaultBaseURL,
		chain:      chain,
		httpClient: httpClient,
	}
}

func (d *DexScreenerDataSource) WithBaseURL(baseURL string) *DexScreenerDataSource {
	if baseURL != "" {
		d.baseURL = baseURL
	}
	return d
}

func (d *DexScreenerDataSource) Name() string {
	return "dexscreener"
}

type tokenBoost struct {
	URL          string  `json:"url"`
	ChainID      string  `json:"chainId"`
	TokenAddress string  `json:"tokenAddress"`
	Amount       float64 `json:"amount"`
	TotalAmount  float64 `json:"totalAmount"`
}

// Candidates returns the addresses of boosted tokens on the configured chain.
func (d *DexScreenerDataSource) Candidates(ctx context.Context) ([]models.Candidate, error) {
	resp, err := d.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(d.baseURL + "/token-boosts/latest/v1")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var boosts []tokenBoost
	if err := json.Unmarshal(resp.Body(), &boosts); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(boosts))
	for _, b := range boosts {
		if b.ChainID != d.chain || b.TokenAddress == "" {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Address: b.TokenAddress,
			Sources: []string{d.Name()},
		})
	}
	return candidates, nil
}
