package tx

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialDoesNotLoseUpdates(t *testing.T) {
	t.Parallel()
	var s Serial
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Within(context.Background(), func(context.Context) error {
				v := counter
				counter = v + 1
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestSerialHonoursCancelledContext(t *testing.T) {
	t.Parallel()
	var s Serial
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Within(ctx, func(context.Context) error { called = true; return nil })
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
