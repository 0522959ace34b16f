package notify

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/songzhibin97/momentumscan/internal/models"
)

const (
	bubbleMapsURL = "https://app.bubblemaps.io/sol/token/%s"
	gmgnURL       = "https://gmgn.ai/sol/token/%s"
)

// Alert 一条待发送的告警
type Alert struct {
	Metrics    models.TokenMetrics
	Market     *models.MarketContext // 可选
	Commentary string                // 可选
}

var printer = message.NewPrinter(language.English)

// usd renders whole dollars with thousands separators, e.g. $13,000.
func usd(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

// Format renders the alert as chat markdown.
func Format(a Alert) string {
	m := a.Metrics
	var b strings.Builder

	fmt.Fprintf(&b, "🛡️ **Momentum candidate: %s**\n", m.Symbol)
	b.WriteString("```text\n")
	if m.MarketCap > 0 {
		fmt.Fprintf(&b, "Acceleration: %.1fx / Liquidity ratio: %.1f%%\n", m.Acceleration(), m.LiquidityRatio()*100)
	} else {
		fmt.Fprintf(&b, "Acceleration: %.1fx\n", m.Acceleration())
	}
	fmt.Fprintf(&b, "1h volume: %s / Liquidity: %s\n", usd(m.Volume1h), usd(m.Liquidity))
	if m.MarketCap > 0 {
		fmt.Fprintf(&b, "Market cap: %s\n", usd(m.MarketCap))
	}
	if a.Market != nil {
		fmt.Fprintf(&b, "%s: $%.2f (%+.1f%% 24h)\n", a.Market.Symbol, a.Market.Price, a.Market.PriceChange24h)
	}
	b.WriteString("```\n")
	if a.Commentary != "" {
		fmt.Fprintf(&b, "💬 %s\n", a.Commentary)
	}
	fmt.Fprintf(&b, "🔍 **BubbleMaps**: "+bubbleMapsURL+"\n", m.Address)
	fmt.Fprintf(&b, "📊 **GMGN**: "+gmgnURL, m.Address)

	return b.String()
}
