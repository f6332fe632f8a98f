package janitor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls   atomic.Int32
	removed int
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return s.removed
}

func TestRunner_RunOnce(t *testing.T) {
	a := &countingSweeper{removed: 2}
	b := &countingSweeper{removed: 3}
	r := NewRunner(0, nil).Add("a", a).Add("b", b).Add("func", SweepFunc(func() int { return 1 }))

	assert.Equal(t, 6, r.RunOnce(context.Background()))
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
	assert.Equal(t, time.Minute, r.interval)
}

func TestRunner_RunOnceCanceled(t *testing.T) {
	a := &countingSweeper{removed: 1}
	r := NewRunner(time.Second, nil).Add("a", a)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, r.RunOnce(ctx))
	assert.Equal(t, int32(0), a.calls.Load())
}

func TestRunner_Run(t *testing.T) {
	a := &countingSweeper{}
	r := NewRunner(5*time.Millisecond, nil).Add("a", a)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return a.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop")
	}
}
