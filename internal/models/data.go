package models

import "time"

// UnknownSymbol is shown when a provider omits the token symbol.
const UnknownSymbol = "Unknown"

// Candidate 候选代币，由各数据源汇总而来
type Candidate struct {
	Address string   `json:"address"`
	Symbol  string   `json:"symbol"`  // 数据源给出的符号，可能为空
	Sources []string `json:"sources"` // 报告该代币的数据源名称
}

// TokenMetrics 代币流动性与成交量指标
type TokenMetrics struct {
	Address   string  `json:"address"`
	Symbol    string  `json:"symbol"`
	Liquidity float64 `json:"liquidity"`
	MarketCap float64 `json:"market_cap"`
	Volume24h float64 `json:"volume_24h"`
	Volume1h  float64 `json:"volume_1h"`
}

// AvgHourlyVolume returns the 24h volume spread over 24 hours, or 0 when there is no 24h volume.
func (m TokenMetrics) AvgHourlyVolume() float64 {
	if m.Volume24h <= 0 {
		return 0
	}
	return m.Volume24h / 24
}

// Acceleration returns 1h volume over the average hourly volume. A zero baseline yields 0.
func (m TokenMetrics) Acceleration() float64 {
	avg := m.AvgHourlyVolume()
	if avg == 0 {
		return 0
	}
	return m.Volume1h / avg
}

// LiquidityRatio returns liquidity over market cap, or 0 when the market cap is unknown.
func (m TokenMetrics) LiquidityRatio() float64 {
	if m.MarketCap <= 0 {
		return 0
	}
	return m.Liquidity / m.MarketCap
}

// RiskEntry 安全报告中的单条风险
type RiskEntry struct {
	Name        string  `json:"name"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// SecurityVerdict 安全检查结论
type SecurityVerdict struct {
	Address string      `json:"address"`
	Safe    bool        `json:"safe"`
	Dangers []RiskEntry `json:"dangers"`
}

// MarketContext 大盘参考行情
type MarketContext struct {
	Symbol         string    `json:"symbol"`
	Price          float64   `json:"price"`
	PriceChange24h float64   `json:"price_change_24h"`
	Timestamp      time.Time `json:"timestamp"`
}

// Disposition 单个候选在一次扫描中的最终去向
type Disposition string

const (
	DispositionPassed              Disposition = "passed"
	DispositionRejectedFilter      Disposition = "rejected_filter"
	DispositionRejectedSecurity    Disposition = "rejected_security"
	DispositionSecurityUnavailable Disposition = "security_unavailable"
	DispositionDetailMissing       Disposition = "detail_missing"
	DispositionDetailError         Disposition = "detail_error"
)

// ScanResult 单个候选的处理结果
type ScanResult struct {
	Candidate    Candidate     `json:"candidate"`
	Metrics      *TokenMetrics `json:"metrics,omitempty"`
	Disposition  Disposition   `json:"disposition"`
	Reasons      []string      `json:"reasons"`
	Acceleration float64       `json:"acceleration"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Summary 一次扫描的汇总
type Summary struct {
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Candidates int                 `json:"candidates"`
	Counts     map[Disposition]int `json:"counts"`
}

// Passed returns how many candidates produced an alert.
func (s *Summary) Passed() int {
	return s.Counts[DispositionPassed]
}

// Add records one result.
func (s *Summary) Add(d Disposition) {
	if s.Counts == nil {
		s.Counts = make(map[Disposition]int)
	}
	s.Counts[d]++
}
