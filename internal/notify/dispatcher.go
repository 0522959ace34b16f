package notify

import (
	"context"
	"log/slog"
)

// Dispatcher fans one alert out to every configured sink. Delivery is fire-and-forget:
// failures are logged and never returned.
type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
}

func NewDispatcher(logger *slog.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, logger: logger}
}

// Enabled reports whether any sink is configured.
func (d *Dispatcher) Enabled() bool {
	return len(d.sinks) > 0
}

// Deliver formats the alert and sends it once to each sink.
func (d *Dispatcher) Deliver(ctx context.Context, alert Alert) {
	if !d.Enabled() {
		return
	}

	text := Format(alert)
	for _, s := range d.sinks {
		if err := s.Send(ctx, text); err != nil {
			d.logger.Warn("alert delivery failed", "sink", s.Name(), "symbol", alert.Metrics.Symbol, "err", err)
			continue
		}
		d.logger.Info("alert delivered", "sink", s.Name(), "symbol", alert.Metrics.Symbol)
	}
}
