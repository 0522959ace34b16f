package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/songzhibin97/momentumscan/internal/ai/openai"
	"github.com/songzhibin97/momentumscan/internal/configs"
	"github.com/songzhibin97/momentumscan/internal/data"
	collectorData "github.com/songzhibin97/momentumscan/internal/data/collector"
	"github.com/songzhibin97/momentumscan/internal/data/collector/binance"
	"github.com/songzhibin97/momentumscan/internal/data/collector/birdeye"
	"github.com/songzhibin97/momentumscan/internal/data/collector/dexscreener"
	"github.com/songzhibin97/momentumscan/internal/data/storage"
	"github.com/songzhibin97/momentumscan/internal/notify"
	"github.com/songzhibin97/momentumscan/internal/notify/slack"
	"github.com/songzhibin97/momentumscan/internal/notify/webhook"
	"github.com/songzhibin97/momentumscan/internal/risk/rugcheck"
	"github.com/songzhibin97/momentumscan/internal/scanner"
	"github.com/songzhibin97/momentumscan/internal/utils/logger"
	"github.com/songzhibin97/momentumscan/internal/utils/request"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// .env 可选，不存在时忽略
	_ = godotenv.Load()

	// 加载配置
	config, err := configs.Load(flagconf)
	if err != nil {
		slog.Error("Error loading config", "err", err)
		os.Exit(1)
	}

	log, err := logger.New(config.Log)
	if err != nil {
		slog.Error("Error opening log file", "err", err)
		os.Exit(1)
	}

	if config.Proxy != "" {
		_ = os.Setenv("HTTP_PROXY", config.Proxy)
		_ = os.Setenv("HTTPS_PROXY", config.Proxy)
		log.Debug("set proxy ok", "proxy", config.Proxy)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	system, cleanup := build(config, log)
	defer cleanup()

	summary, err := system.Run(ctx)
	switch {
	case errors.Is(err, scanner.ErrMissingAPIKey):
		log.Warn("BIRDEYE_API_KEY is not set, nothing to scan")
	case err != nil && summary != nil:
		log.Warn("scan interrupted", "err", err, "passed", summary.Passed())
	case err != nil:
		log.Warn("scan interrupted", "err", err)
	default:
		log.Debug("scan complete", "passed", summary.Passed())
	}
}

// build 初始化各个组件
func build(config *configs.Config, log *slog.Logger) (*scanner.Scanner, func()) {
	httpClient := request.New(config.RequestTimeoutDuration())

	trending := birdeye.NewBirdeyeDataSource(config.Birdeye.APIKey, config.Chain, httpClient).
		WithBaseURL(config.Birdeye.BaseURL).
		WithTrendingLimit(config.Birdeye.TrendingLimit)

	sources := []data.CandidateSource{trending}
	if !config.DexScreener.Disabled {
		sources = append(sources, dexscreener.NewDexScreenerDataSource(config.Chain, httpClient).
			WithBaseURL(config.DexScreener.BaseURL))
	}
	collector := collectorData.NewMultiSourceCollector(sources, log)

	log.Debug("init collector", "sources", len(sources))

	screener := rugcheck.NewRugCheckScreener(httpClient).
		WithBaseURL(config.RugCheck.BaseURL).
		WithDangerLevel(config.RugCheck.DangerLevel)

	var sinks []notify.Sink
	if url := config.Notifier.WebhookURL; url != "" {
		kind := strings.ToLower(config.Notifier.Kind)
		if kind == "slack" || (kind == "" && slack.IsSlackWebhook(url)) {
			sinks = append(sinks, slack.NewSlackSink(url, config.WebhookTimeoutDuration()))
		} else {
			sinks = append(sinks, webhook.NewWebhookSink(url, request.New(config.WebhookTimeoutDuration())))
		}
	}
	dispatcher := notify.NewDispatcher(log, sinks...)
	if !dispatcher.Enabled() {
		log.Warn("no webhook configured, alerts will only be logged")
	}

	system := scanner.NewScanner(scanner.Options{
		APIKey: config.Birdeye.APIKey,
		Policy: config.Policy,
		Delay:  config.ScanDelayDuration(),
	}, collector, trending, screener, dispatcher, log)

	if config.Market.Enabled {
		system.WithMarketContext(binance.NewBinanceMarketSource(config.Market.Symbol, config.RequestTimeoutDuration()))
		log.Debug("init market context", "symbol", config.Market.Symbol)
	}

	if config.AIConfig.APIKey != "" {
		system.WithCommentator(openai.NewOpenAICommentator(config.AIConfig.APIKey, config.AIConfig.BaseURL, config.AIConfig.ModelType, config.RequestTimeoutDuration()))
		log.Debug("init commentator", "model", config.AIConfig.ModelType)
	}

	cleanup := func() {}
	if config.Database.ConnStr != "" && config.Birdeye.APIKey != "" {
		storager, err := storage.NewPostgresStorage(config.Database.ConnStr, config.RequestTimeoutDuration())
		if err != nil {
			log.Error("Error creating storage, journal disabled", "err", err)
		} else {
			system.WithJournal(storager)
			cleanup = func() { _ = storager.Close() }
			log.Debug("init storager")
		}
	}

	return system, cleanup
}
