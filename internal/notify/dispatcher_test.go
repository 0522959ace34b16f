package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/songzhibin97/momentumscan/internal/models"
	"github.com/songzhibin97/momentumscan/internal/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name string
	err  error
	sent []string
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Send(ctx context.Context, text string) error {
	r.sent = append(r.sent, text)
	return r.err
}

func TestDispatcher_Deliver(t *testing.T) {
	failing := &recordingSink{name: "failing", err: errors.New("connection refused")}
	ok := &recordingSink{name: "ok"}

	d := NewDispatcher(logger.Discard(), failing, ok)
	require.True(t, d.Enabled())

	d.Deliver(context.Background(), Alert{Metrics: models.TokenMetrics{Address: "CA1", Symbol: "MOON"}})

	assert.Len(t, failing.sent, 1)
	require.Len(t, ok.sent, 1)
	assert.Contains(t, ok.sent[0], "MOON")
}

func TestDispatcher_NoSinks(t *testing.T) {
	d := NewDispatcher(logger.Discard())
	assert.False(t, d.Enabled())

	assert.NotPanics(t, func() {
		d.Deliver(context.Background(), Alert{})
	})
}
