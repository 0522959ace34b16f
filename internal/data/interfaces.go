package data

import (
	"context"
	"errors"
	"time"

	"github.com/songzhibin97/momentumscan/internal/models"
)

// ErrTokenNotFound is returned when a provider answers but has no data for the token.
var ErrTokenNotFound = errors.New("token not found")

// CandidateSource 提供一份“热门”代币列表
type CandidateSource interface {
	Name() string

	// Candidates returns the tokens the provider currently considers hot
	Candidates(ctx context.Context) ([]models.Candidate, error)
}

// CandidateCollector 汇总所有数据源的候选
type CandidateCollector interface {
	// CollectCandidates returns the set union of every source, keyed by address
	CollectCandidates(ctx context.Context) []models.Candidate
}

// DetailFetcher 获取单个代币的指标
type DetailFetcher interface {
	// TokenOverview returns ErrTokenNotFound for a permanent absence and any other error
	// for a transient failure
	TokenOverview(ctx context.Context, address string) (*models.TokenMetrics, error)
}

// MarketContextProvider 提供大盘参考行情
type MarketContextProvider interface {
	MarketContext(ctx context.Context) (*models.MarketContext, error)
}

// ScanJournal 扫描结果的只写日志
type ScanJournal interface {
	// BeginRun opens a run record and returns its id
	BeginRun(ctx context.Context, startedAt time.Time) (int64, error)

	// RecordResult appends one candidate outcome to the run
	RecordResult(ctx context.Context, runID int64, result *models.ScanResult) error

	// FinishRun closes the run with its summary
	FinishRun(ctx context.Context, runID int64, summary *models.Summary) error
}
