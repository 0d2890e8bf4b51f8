package task

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/products-api/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// funcTask runs fn when executed.
type funcTask struct {
	id uuid.UUID
	fn func(ctx context.Context) error
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), fn: fn}
}

func (t *funcTask) ID() uuid.UUID                     { return t.id }
func (t *funcTask) Type() string                      { return "func" }
func (t *funcTask) Execute(ctx context.Context) error { return t.fn(ctx) }

// fakeMirror records mirror calls in order.
type fakeMirror struct {
	mu      sync.Mutex
	calls   []string
	saved   map[string]domain.Product
	saveErr error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{saved: make(map[string]domain.Product)}
}

func (m *fakeMirror) Save(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "save:"+p.ID)
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[p.ID] = p
	return nil
}

func (m *fakeMirror) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "delete:"+id)
	delete(m.saved, id)
	return nil
}

func (m *fakeMirror) LoadAll(context.Context) ([]domain.Product, error) {
	return nil, nil
}
