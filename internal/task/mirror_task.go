package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/products-api/internal/events"
	"github.com/phrazzld/products-api/internal/store"
)

// MirrorTask replays one product event against a ProductMirror.
type MirrorTask struct {
	id     uuid.UUID
	event  *events.ProductEvent
	mirror store.ProductMirror
}

var _ Task = (*MirrorTask)(nil)

// NewMirrorTask creates a task for event. Unknown event types are rejected.
func NewMirrorTask(event *events.ProductEvent, mirror store.ProductMirror) (*MirrorTask, error) {
	if event == nil {
		return nil, fmt.Errorf("event cannot be nil")
	}
	if event.Type != events.ProductSaved && event.Type != events.ProductDeleted {
		return nil, fmt.Errorf("unsupported event type %q", event.Type)
	}
	return &MirrorTask{id: uuid.New(), event: event, mirror: mirror}, nil
}

// ID implements Task.
func (t *MirrorTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *MirrorTask) Type() string {
	if t.event.Type == events.ProductDeleted {
		return TaskTypeMirrorDelete
	}
	return TaskTypeMirrorSave
}

// Execute implements Task.
func (t *MirrorTask) Execute(ctx context.Context) error {
	if t.event.Type == events.ProductDeleted {
		if err := t.mirror.Delete(ctx, t.event.ProductID); err != nil {
			return store.NewStoreError("product", "mirror delete", t.event.ProductID, err)
		}
		return nil
	}
	if err := t.mirror.Save(ctx, t.event.Product); err != nil {
		return store.NewStoreError("product", "mirror save", t.event.ProductID, err)
	}
	return nil
}
