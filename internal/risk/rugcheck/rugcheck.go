package rugcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/songzhibin97/momentumscan/internal/models"
	"github.com/songzhibin97/momentumscan/internal/risk"
	"github.com/songzhibin97/momentumscan/internal/utils/request"
)

const DefaultBaseURL = "https://api.rugcheck.xyz"

// RugCheckScreener implements SecurityScreener against the RugCheck token report API
type RugCheckScreener struct {
	baseURL     string
	dangerLevel string
	httpClient  *resty.Client
}

func NewRugCheckScreener(httpClient *resty.Client) *RugCheckScreener {
	if httpClient == nil {
		httpClient = request.Request
	}
	return &RugCheckScreener{
		baseURL:     DefaultBaseURL,
		dangerLevel: risk.DefaultDangerLevel,
		httpClient:  httpClient,
	}
}

func (r *RugCheckScreener) WithBaseURL(baseURL string) *RugCheckScreener {
	if baseURL != "" {
		r.baseURL = baseURL
	}
	return r
}

func (r *RugCheckScreener) WithDangerLevel(level string) *RugCheckScreener {
	if level != "" {
		r.dangerLevel = level
	}
	return r
}

type report struct {
	Mint  string             `json:"mint"`
	Score float64            `json:"score"`
	Risks []models.RiskEntry `json:"risks"`
}

// Screen fetches the token report. Any failure to obtain or decode it is an error.
func (r *RugCheckScreener) Screen(ctx context.Context, address string) (*models.SecurityVerdict, error) {
	endpoint := fmt.Sprintf("%s/v1/tokens/%s/report", r.baseURL, url.PathEscape(address))

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var rep report
	if err := json.Unmarshal(resp.Body(), &rep); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return risk.Assess(address, rep.Risks, r.dangerLevel), nil
}
