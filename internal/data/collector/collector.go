package collector

import (
	"context"
	"slices"

	"github.com/songzhibin97/momentumscan/internal/data"
	"github.com/songzhibin97/momentumscan/internal/models"
)

// MultiSourceCollector implements CandidateCollector by merging several sources
type MultiSourceCollector struct {
	sources []data.CandidateSource
	logger  Logger
}

type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

func NewMultiSourceCollector(sources []data.CandidateSource, logger Logger) *MultiSourceCollector {
	return &MultiSourceCollector{
		sources: sources,
		logger:  logger,
	}
}

// CollectCandidates queries every source in turn. A failing source contributes nothing.
func (c *MultiSourceCollector) CollectCandidates(ctx context.Context) []models.Candidate {
	lists := make([][]models.Candidate, 0, len(c.sources))

	for _, source := range c.sources {
		if ctx.Err() != nil {
			break
		}

		candidates, err := source.Candidates(ctx)
		if err != nil {
			c.logger.Error("failed to collect candidates", "source", source.Name(), "error", err)
			continue
		}

		c.logger.Info("collected candidates", "source", source.Name(), "count", len(candidates))
		lists = append(lists, candidates)
	}

	return Merge(lists...)
}

// Merge returns the union of the lists keyed by address, in first-seen order.
// Empty addresses are dropped.
func Merge(lists ...[]models.Candidate) []models.Candidate {
	index := make(map[string]int)
	merged := make([]models.Candidate, 0)

	for _, list := range lists {
		for _, cand := range list {
			if cand.Address == "" {
				continue
			}

			i, seen := index[cand.Address]
			if !seen {
				index[cand.Address] = len(merged)
				merged = append(merged, models.Candidate{
					Address: cand.Address,
					Symbol:  cand.Symbol,
					Sources: append([]string(nil), cand.Sources...),
				})
				continue
			}

			if merged[i].Symbol == "" {
				merged[i].Symbol = cand.Symbol
			}
			for _, src := range cand.Sources {
				if !slices.Contains(merged[i].Sources, src) {
					merged[i].Sources = append(merged[i].Sources, src)
				}
			}
		}
	}

	return merged
}
