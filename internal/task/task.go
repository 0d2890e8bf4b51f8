package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeMirrorSave persists a product to the durable mirror
	TaskTypeMirrorSave = "mirror_save"

	// TaskTypeMirrorDelete removes a product from the durable mirror
	TaskTypeMirrorDelete = "mirror_delete"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}
