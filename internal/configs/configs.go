package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/songzhibin97/momentumscan/internal/filter"
	"github.com/songzhibin97/momentumscan/internal/utils/logger"
)

type Config struct {
	// 基础配置
	Chain          string `json:"chain" yaml:"chain"`                     // 目标链
	ScanDelay      string `json:"scan_delay" yaml:"scan_delay"`           // 每个候选之间的间隔
	RequestTimeout string `json:"request_timeout" yaml:"request_timeout"` // 单次请求超时
	Proxy          string `json:"proxy" yaml:"proxy"`

	Birdeye     BirdeyeConfig     `json:"birdeye" yaml:"birdeye"`
	DexScreener DexScreenerConfig `json:"dexscreener" yaml:"dexscreener"`
	RugCheck    RugCheckConfig    `json:"rugcheck" yaml:"rugcheck"`

	// 动量筛选参数
	Policy filter.Policy `json:"policy" yaml:"policy"`

	Notifier NotifierConfig `json:"notifier" yaml:"notifier"`
	Market   MarketConfig   `json:"market" yaml:"market"`
	AIConfig AIConfig       `json:"ai_config" yaml:"ai_config"`
	Database Database       `json:"database" yaml:"database"`
	Log      logger.Config  `json:"log" yaml:"log"`
}

type BirdeyeConfig struct {
	APIKey        string `json:"api_key" yaml:"api_key"`
	BaseURL       string `json:"base_url" yaml:"base_url"`
	TrendingLimit int    `json:"trending_limit" yaml:"trending_limit"`
}

type DexScreenerConfig struct {
	Disabled bool   `json:"disabled" yaml:"disabled"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
}

type RugCheckConfig struct {
	BaseURL     string `json:"base_url" yaml:"base_url"`
	DangerLevel string `json:"danger_level" yaml:"danger_level"`
}

type NotifierConfig struct {
	WebhookURL string `json:"webhook_url" yaml:"webhook_url"`
	Kind       string `json:"kind" yaml:"kind"` // discord, slack；为空时按 URL 判断
	Timeout    string `json:"timeout" yaml:"timeout"`
}

type MarketConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Symbol  string `json:"symbol" yaml:"symbol"`
}

type AIConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key"`       // 为空则不生成点评
	BaseURL   string `json:"base_url" yaml:"base_url"`     // OpenAI 兼容接口，如 https://api.deepseek.com/v1
	ModelType string `json:"model_type" yaml:"model_type"` // AI模型类型
}

type Database struct {
	ConnStr string `json:"conn_str" yaml:"conn_str"` // 为空则不记录扫描日志
}

const (
	defaultScanDelay      = 600 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	defaultWebhookTimeout = 5 * time.Second
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Chain:          "solana",
		ScanDelay:      defaultScanDelay.String(),
		RequestTimeout: defaultRequestTimeout.String(),
		Birdeye: BirdeyeConfig{
			TrendingLimit: 20,
		},
		Policy: filter.DefaultPolicy(),
		Notifier: NotifierConfig{
			Timeout: defaultWebhookTimeout.String(),
		},
		Market: MarketConfig{
			Symbol: "SOLUSDT",
		},
		Log: logger.Config{
			Level:      "debug",
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     7,
		},
	}
}

// Load reads path (JSON by extension, YAML otherwise) over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = json.Unmarshal(raw, config)
		} else {
			err = yaml.Unmarshal(raw, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.ApplyEnv(os.Getenv)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides credentials and switches from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.Birdeye.APIKey, "BIRDEYE_API_KEY")
	set(&c.Notifier.WebhookURL, "DISCORD_WEBHOOK_URL", "WEBHOOK_URL")
	if v := strings.TrimSpace(getenv("SLACK_WEBHOOK_URL")); v != "" && c.Notifier.WebhookURL == "" {
		c.Notifier.WebhookURL = v
		c.Notifier.Kind = "slack"
	}
	set(&c.AIConfig.APIKey, "OPENAI_API_KEY")
	set(&c.AIConfig.BaseURL, "OPENAI_BASE_URL")
	set(&c.Database.ConnStr, "DATABASE_URL")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.File, "LOG_FILE")
}

// Validate checks the parts of the configuration that cannot be defaulted.
// A missing API key is not an error here; the scanner reports it.
func (c *Config) Validate() error {
	if c.Chain == "" {
		return fmt.Errorf("invalid config: chain must be set")
	}
	switch strings.ToLower(c.Notifier.Kind) {
	case "", "discord", "webhook", "slack":
	default:
		return fmt.Errorf("invalid config: unknown notifier kind %q", c.Notifier.Kind)
	}
	return c.Policy.Validate()
}

// ScanDelayDuration falls back to the default on an empty or malformed value.
func (c *Config) ScanDelayDuration() time.Duration {
	return parseDuration(c.ScanDelay, defaultScanDelay)
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return parseDuration(c.RequestTimeout, defaultRequestTimeout)
}

func (c *Config) WebhookTimeoutDuration() time.Duration {
	return parseDuration(c.Notifier.Timeout, defaultWebhookTimeout)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
