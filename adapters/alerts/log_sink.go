// Package alerts provides AlertSink implementations.
package alerts

import (
	"context"

	"github.com/rs/zerolog"

	"factorgate/domain/decay"
	"factorgate/ports"
)

// LogSink writes alerts to the structured log. It is the reference sink for
// deployments where paging wiring lives elsewhere; delivery is exactly as
// durable as the log stream.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a log-backed alert sink
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

var _ ports.AlertSink = (*LogSink)(nil)

// Send logs the alert at a level matching its severity
func (s *LogSink) Send(_ context.Context, alert decay.Alert) error {
	event := s.logger.Warn()
	if alert.Severity == decay.SeverityCritical {
		event = s.logger.Error()
	}
	event = event.
		Str("alert_id", alert.ID.String()).
		Str("factor_id", alert.FactorID.String()).
		Str("alert_type", string(alert.Type)).
		Str("severity", string(alert.Severity)).
		Float64("current_value", alert.CurrentValue).
		Float64("threshold", alert.Threshold)
	if alert.PeakValue != nil {
		event = event.Float64("peak_value", *alert.PeakValue)
	}
	if alert.RelatedFactorID != nil {
		event = event.Str("related_factor_id", alert.RelatedFactorID.String())
	}
	event.Msg(alert.Recommendation)
	return nil
}
