package risk

import (
	"context"

	"github.com/songzhibin97/momentumscan/internal/models"
)

// SecurityScreener defines the contract-level safety check run on momentum candidates
type SecurityScreener interface {
	// Screen returns a verdict for the token. An error means no verdict could be reached
	// and callers must treat the token as unsafe.
	Screen(ctx context.Context, address string) (*models.SecurityVerdict, error)
}

// DefaultDangerLevel is the highest severity a risk report uses.
const DefaultDangerLevel = "danger"
