package scanner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/songzhibin97/momentumscan/internal/ai"
	"github.com/songzhibin97/momentumscan/internal/data"
	"github.com/songzhibin97/momentumscan/internal/filter"
	"github.com/songzhibin97/momentumscan/internal/models"
	"github.com/songzhibin97/momentumscan/internal/notify"
	"github.com/songzhibin97/momentumscan/internal/risk"
)

// ErrMissingAPIKey aborts a run before any network call.
var ErrMissingAPIKey = errors.New("market data api key is not configured")

// Notifier receives alerts for candidates that passed every stage
type Notifier interface {
	Deliver(ctx context.Context, alert notify.Alert)
}

// Options 扫描参数
type Options struct {
	APIKey string
	Policy filter.Policy
	Delay  time.Duration // 每个候选之间的固定间隔，用于遵守详情接口的限频
}

// Scanner runs one sequential pass: collect, then detail → filter → security → notify
// for each candidate.
type Scanner struct {
	opts      Options
	collector data.CandidateCollector
	details   data.DetailFetcher
	screener  risk.SecurityScreener
	notifier  Notifier
	logger    *slog.Logger

	// 可选组件
	market      data.MarketContextProvider
	commentator ai.Commentator
	journal     data.ScanJournal

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewScanner(
	opts Options,
	collector data.CandidateCollector,
	details data.DetailFetcher,
	screener risk.SecurityScreener,
	notifier Notifier,
	logger *slog.Logger,
) *Scanner {
	return &Scanner{
		opts:      opts,
		collector: collector,
		details:   details,
		screener:  screener,
		notifier:  notifier,
		logger:    logger,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

// WithMarketContext adds a market backdrop line to every alert.
func (s *Scanner) WithMarketContext(p data.MarketContextProvider) *Scanner {
	s.market = p
	return s
}

// WithCommentator adds an AI-written note to every alert.
func (s *Scanner) WithCommentator(c ai.Commentator) *Scanner {
	s.commentator = c
	return s
}

// WithJournal records every candidate outcome.
func (s *Scanner) WithJournal(j data.ScanJournal) *Scanner {
	s.journal = j
	return s
}

// Run performs a single pass and returns its summary. Only a missing API key or a
// cancelled context end the pass early; every other failure is absorbed per candidate.
func (s *Scanner) Run(ctx context.Context) (*models.Summary, error) {
	if s.opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	summary := &models.Summary{
		StartedAt: s.now(),
		Counts:    make(map[models.Disposition]int),
	}

	s.logger.Info("scan started")

	candidates := s.collector.CollectCandidates(ctx)
	summary.Candidates = len(candidates)
	s.logger.Info("candidates collected", "count", len(candidates))

	runID := s.beginJournal(ctx, summary.StartedAt)
	marketCtx := s.marketContext(ctx)

	var runErr error
	for i, cand := range candidates {
		if i > 0 {
			if err := s.sleep(ctx, s.opts.Delay); err != nil {
				runErr = err
				break
			}
		}

		result := s.process(ctx, cand, marketCtx)
		summary.Add(result.Disposition)
		s.recordJournal(ctx, runID, result)
	}

	summary.FinishedAt = s.now()
	s.finishJournal(ctx, runID, summary)

	s.logger.Info("scan finished",
		"candidates", summary.Candidates,
		"passed", summary.Passed(),
		"rejected_filter", summary.Counts[models.DispositionRejectedFilter],
		"rejected_security", summary.Counts[models.DispositionRejectedSecurity],
		"security_unavailable", summary.Counts[models.DispositionSecurityUnavailable],
		"detail_missing", summary.Counts[models.DispositionDetailMissing],
		"detail_error", summary.Counts[models.DispositionDetailError],
		"elapsed", summary.FinishedAt.Sub(summary.StartedAt).String(),
	)

	return summary, runErr
}

// process 处理单个候选
func (s *Scanner) process(ctx context.Context, cand models.Candidate, market *models.MarketContext) *models.ScanResult {
	result := &models.ScanResult{
		Candidate: cand,
		Reasons:   make([]string, 0),
		Timestamp: s.now(),
	}
	log := s.logger.With("address", cand.Address)

	// 1. 获取详情；失败即跳过（fail open）
	metrics, err := s.details.TokenOverview(ctx, cand.Address)
	if err != nil {
		if errors.Is(err, data.ErrTokenNotFound) {
			result.Disposition = models.DispositionDetailMissing
		} else {
			result.Disposition = models.DispositionDetailError
		}
		result.Reasons = append(result.Reasons, err.Error())
		log.Debug("detail unavailable", "err", err)
		return result
	}
	result.Metrics = metrics
	log = log.With("symbol", metrics.Symbol)

	// 2. 动量筛选
	eval := s.opts.Policy.Evaluate(*metrics)
	result.Acceleration = eval.Acceleration
	if !eval.Pass {
		result.Disposition = models.DispositionRejectedFilter
		result.Reasons = append(result.Reasons, eval.Reasons...)
		log.Debug("filtered out", "reasons", eval.Reasons)
		return result
	}

	// 3. 安全检查；任何错误都视为不安全（fail closed）
	verdict, err := s.screener.Screen(ctx, cand.Address)
	if err != nil {
		result.Disposition = models.DispositionSecurityUnavailable
		result.Reasons = append(result.Reasons, err.Error())
		log.Warn("security check unavailable, rejecting", "err", err)
		return result
	}
	if !verdict.Safe {
		result.Disposition = models.DispositionRejectedSecurity
		result.Reasons = append(result.Reasons, risk.DangerNames(verdict)...)
		log.Info("security danger", "risks", risk.DangerNames(verdict))
		return result
	}

	// 4. 通知
	alert := notify.Alert{
		Metrics: *metrics,
		Market:  market,
	}
	if s.commentator != nil {
		comment, err := s.commentator.Comment(ctx, metrics)
		if err != nil {
			log.Warn("commentary unavailable", "err", err)
		} else {
			alert.Commentary = comment
		}
	}
	s.notifier.Deliver(ctx, alert)

	result.Disposition = models.DispositionPassed
	log.Info("candidate passed",
		"acceleration", eval.Acceleration,
		"liquidity", metrics.Liquidity,
		"volume_1h", metrics.Volume1h,
	)
	return result
}

func (s *Scanner) marketContext(ctx context.Context) *models.MarketContext {
	if s.market == nil {
		return nil
	}
	mc, err := s.market.MarketContext(ctx)
	if err != nil {
		s.logger.Warn("market context unavailable", "err", err)
		return nil
	}
	return mc
}

func (s *Scanner) beginJournal(ctx context.Context, startedAt time.Time) int64 {
	if s.journal == nil {
		return 0
	}
	id, err := s.journal.BeginRun(ctx, startedAt)
	if err != nil {
		s.logger.Error("journal begin failed, disabling journal for this run", "err", err)
		s.journal = nil
		return 0
	}
	return id
}

func (s *Scanner) recordJournal(ctx context.Context, runID int64, result *models.ScanResult) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordResult(ctx, runID, result); err != nil {
		s.logger.Error("journal write failed", "address", result.Candidate.Address, "err", err)
	}
}

func (s *Scanner) finishJournal(ctx context.Context, runID int64, summary *models.Summary) {
	if s.journal == nil {
		return
	}
	// 扫描被取消时仍然写入汇总
	if err := s.journal.FinishRun(context.WithoutCancel(ctx), runID, summary); err != nil {
		s.logger.Error("journal finish failed", "err", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
