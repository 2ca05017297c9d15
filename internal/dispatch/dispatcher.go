// Package dispatch hands finalized outreach messages to a delivery channel.
package dispatch

import (
	"context"
	"fmt"

	"github.com/ignite/outreach-crm/internal/domain"
)

// PreviewMessageID is the sentinel delivery id recorded for simulated sends.
const PreviewMessageID = "preview"

// Dispatcher attempts delivery of one message and returns the provider's
// delivery id. Transport and auth problems surface as a *DeliveryError.
type Dispatcher interface {
	Send(ctx context.Context, msg domain.OutboundMessage) (string, error)
}

// DeliveryError wraps any transport-level failure so the lifecycle layer can
// capture the error text into the draft instead of propagating a panic-like
// failure. A dispatch timeout is a DeliveryError like any other.
type DeliveryError struct {
	Channel domain.Channel
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery via %s failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
