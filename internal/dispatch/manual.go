package dispatch

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignite/outreach-crm/internal/domain"
	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

// ManualDispatcher handles channels where the actual touch is performed by a
// human (LinkedIn messages, phone calls). Sending records the attempt and
// returns a generated id; there is nothing to transmit.
type ManualDispatcher struct{}

// NewManualDispatcher creates a dispatcher for human-performed channels.
func NewManualDispatcher() *ManualDispatcher { return &ManualDispatcher{} }

func (d *ManualDispatcher) Send(_ context.Context, msg domain.OutboundMessage) (string, error) {
	id := "manual-" + uuid.New().String()
	logger.Info("manual channel touch recorded",
		"channel", msg.Channel,
		"recipient", msg.Recipient,
		"message_id", id)
	return id, nil
}

// PreviewDispatcher simulates delivery. Every send succeeds with the
// sentinel message id and no network call is made.
type PreviewDispatcher struct{}

// NewPreviewDispatcher creates a simulated dispatcher for preview mode.
func NewPreviewDispatcher() *PreviewDispatcher { return &PreviewDispatcher{} }

func (d *PreviewDispatcher) Send(_ context.Context, msg domain.OutboundMessage) (string, error) {
	logger.Info("preview mode: dispatch simulated",
		"channel", msg.Channel,
		"recipient", msg.Recipient)
	return PreviewMessageID, nil
}
