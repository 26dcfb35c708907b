package ports

import (
	"context"

	"factorgate/domain/decay"
)

// AlertSink receives triggered decay alerts, fire-and-forget. The monitor
// assumes no acknowledgment, retry or idempotency from the sink; delivery
// guarantees beyond best-effort belong to the sink implementation. Optional
// collaborator: a nil sink means alerts are only returned, not dispatched.
type AlertSink interface {
	Send(ctx context.Context, alert decay.Alert) error
}
