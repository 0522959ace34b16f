package notify

import (
	"context"
)

// Sink delivers a formatted alert to one destination
type Sink interface {
	Name() string

	// Send makes a single delivery attempt
	Send(ctx context.Context, text string) error
}
