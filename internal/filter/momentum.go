package filter

import (
	"fmt"

	"github.com/songzhibin97/momentumscan/internal/models"
)

// Policy 动量筛选参数
type Policy struct {
	MinLiquidity       float64 `json:"min_liquidity" yaml:"min_liquidity"`
	MaxLiquidity       float64 `json:"max_liquidity" yaml:"max_liquidity"`
	AccelerationFactor float64 `json:"acceleration_factor" yaml:"acceleration_factor"` // 1h成交量 / 小时均量 的下限
	TurnoverThreshold  float64 `json:"turnover_threshold" yaml:"turnover_threshold"`   // 1h成交量 / 流动性 的下限
	MinLiquidityRatio  float64 `json:"min_liquidity_ratio" yaml:"min_liquidity_ratio"` // 流动性 / 市值，0 表示关闭

	// ZeroBaselineAccelerates decides acceleration when there is no 24h volume to compare against.
	ZeroBaselineAccelerates bool `json:"zero_baseline_accelerates" yaml:"zero_baseline_accelerates"`
}

// DefaultPolicy returns the canonical thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinLiquidity:            15_000,
		MaxLiquidity:            300_000,
		AccelerationFactor:      1.2,
		TurnoverThreshold:       0.05,
		MinLiquidityRatio:       0.15,
		ZeroBaselineAccelerates: false,
	}
}

// Validate rejects policies that can never pass or use negative thresholds.
func (p Policy) Validate() error {
	if p.MinLiquidity < 0 || p.MaxLiquidity < 0 || p.AccelerationFactor < 0 ||
		p.TurnoverThreshold < 0 || p.MinLiquidityRatio < 0 {
		return fmt.Errorf("invalid policy: thresholds must not be negative")
	}
	if p.MinLiquidity > p.MaxLiquidity {
		return fmt.Errorf("invalid policy: min_liquidity %.0f exceeds max_liquidity %.0f", p.MinLiquidity, p.MaxLiquidity)
	}
	return nil
}

// Evaluation 筛选结果
type Evaluation struct {
	Pass           bool     `json:"pass"`
	Accelerating   bool     `json:"accelerating"`
	Acceleration   float64  `json:"acceleration"`
	LiquidityRatio float64  `json:"liquidity_ratio"`
	Reasons        []string `json:"reasons"`
}

// Evaluate applies every active check of the policy. All of them are run so the reasons
// list is complete, but any single failure rejects.
func (p Policy) Evaluate(m models.TokenMetrics) Evaluation {
	eval := Evaluation{
		Pass:           true,
		Acceleration:   m.Acceleration(),
		LiquidityRatio: m.LiquidityRatio(),
		Reasons:        make([]string, 0),
	}

	reject := func(format string, args ...interface{}) {
		eval.Pass = false
		eval.Reasons = append(eval.Reasons, fmt.Sprintf(format, args...))
	}

	avg := m.AvgHourlyVolume()
	if avg == 0 {
		eval.Accelerating = p.ZeroBaselineAccelerates
	} else {
		eval.Accelerating = m.Volume1h > avg*p.AccelerationFactor
	}
	if !eval.Accelerating {
		reject("1h volume %.0f not above %.1fx hourly average %.0f", m.Volume1h, p.AccelerationFactor, avg)
	}

	if m.Liquidity < p.MinLiquidity || m.Liquidity > p.MaxLiquidity {
		reject("liquidity %.0f outside [%.0f, %.0f]", m.Liquidity, p.MinLiquidity, p.MaxLiquidity)
	}

	if !(m.Volume1h > m.Liquidity*p.TurnoverThreshold) {
		reject("turnover %.0f not above %.2f of liquidity", m.Volume1h, p.TurnoverThreshold)
	}

	if p.MinLiquidityRatio > 0 && m.MarketCap > 0 && eval.LiquidityRatio < p.MinLiquidityRatio {
		reject("liquidity ratio %.3f below %.2f", eval.LiquidityRatio, p.MinLiquidityRatio)
	}

	return eval
}
