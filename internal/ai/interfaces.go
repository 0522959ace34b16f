package ai

import (
	"context"

	"github.com/songzhibin97/momentumscan/internal/models"
)

// Commentator writes a short human-readable note about a candidate that passed every filter
type Commentator interface {
	// Comment returns one or two sentences; an error leaves the alert without commentary
	Comment(ctx context.Context, metrics *models.TokenMetrics) (string, error)
}
