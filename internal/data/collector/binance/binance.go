package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"

	"github.com/songzhibin97/momentumscan/internal/models"
)

const DefaultSymbol = "SOLUSDT"

// BinanceMarketSource reports the 24h ticker of the chain's native asset, used as the
// market backdrop for alerts. Public endpoint, no key needed.
type BinanceMarketSource struct {
	client *binance.Client
	symbol string
}

func NewBinanceMarketSource(symbol string, timeout time.Duration) *BinanceMarketSource {
	if symbol == "" {
		symbol = DefaultSymbol
	}

	client := binance.NewClient("", "")
	if timeout > 0 {
		client.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &BinanceMarketSource{
		client: client,
		symbol: symbol,
	}
}

func (b *BinanceMarketSource) Name() string {
	return "binance"
}

// MarketContext fetches the 24hr price change statistics for the configured symbol.
func (b *BinanceMarketSource) MarketContext(ctx context.Context) (*models.MarketContext, error) {
	stats, err := b.client.NewListPriceChangeStatsService().
		Symbol(b.symbol).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticker: %w", err)
	}

	if len(stats) == 0 {
		return nil, fmt.Errorf("no ticker for symbol: %s", b.symbol)
	}

	price, err := strconv.ParseFloat(stats[0].LastPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}

	change, err := strconv.ParseFloat(stats[0].PriceChangePercent, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price change: %w", err)
	}

	return &models.MarketContext{
		Symbol:         b.symbol,
		Price:          price,
		PriceChange24h: change,
		Timestamp:      time.Now(),
	}, nil
}
