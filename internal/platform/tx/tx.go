package tx

import (
	"context"
	"sync"
)

// Manager brackets a read-modify-write of a stored document.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// NoopManager runs fn directly. Enough for single-goroutine callers such as
// the CLI and tests.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Serial runs one fn at a time. The TUI executes commands on separate
// goroutines, and two overlapping updates would otherwise drop one write.
// Within must not be nested on the same Serial.
type Serial struct {
	mu sync.Mutex
}

func (s *Serial) Within(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx)
}
