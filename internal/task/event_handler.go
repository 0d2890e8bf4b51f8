package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/products-api/internal/events"
	"github.com/phrazzld/products-api/internal/store"
)

// Submitter accepts tasks for asynchronous execution.
type Submitter interface {
	Submit(ctx context.Context, task Task) error
}

// MirrorEventHandler turns product events into MirrorTasks.
type MirrorEventHandler struct {
	mirror    store.ProductMirror
	submitter Submitter
	logger    *slog.Logger
}

var _ events.EventHandler = (*MirrorEventHandler)(nil)

// NewMirrorEventHandler creates a handler that mirrors every product event.
func NewMirrorEventHandler(mirror store.ProductMirror, submitter Submitter, logger *slog.Logger) *MirrorEventHandler {
	if mirror == nil || submitter == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("mirror and submitter cannot be nil for MirrorEventHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorEventHandler{
		mirror:    mirror,
		submitter: submitter,
		logger:    logger.With("component", "mirror_event_handler"),
	}
}

// HandleEvent queues the mirror write. A full queue drops the write; the
// caller only logs the returned error. The in-memory change is already
// committed, so cancellation of the originating request is ignored.
func (h *MirrorEventHandler) HandleEvent(ctx context.Context, event *events.ProductEvent) error {
	t, err := NewMirrorTask(event, h.mirror)
	if err != nil {
		return fmt.Errorf("failed to create mirror task: %w", err)
	}

	if err := h.submitter.Submit(context.WithoutCancel(ctx), t); err != nil {
		h.logger.Warn("dropping mirror write",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type,
			"product_id", event.ProductID)
		return fmt.Errorf("failed to submit mirror task: %w", err)
	}
	return nil
}
