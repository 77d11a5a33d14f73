package poll

import (
	"context"
	"sync"
	"time"
)

const DefaultInterval = 3 * time.Second

type Hooks[T any] struct {
	Fetch func(ctx context.Context) (T, error)
	// Begin runs right before a fetch. Optional.
	Begin func()
	// Apply receives the result of a fetch that is still current.
	Apply func(result T, err error)
}

// Task is a periodic fetch bound to a screen's visible lifetime. It fetches
// once immediately and then every interval until stopped.
//
// Results go through a guard before reaching Apply: the task must still be
// live and the fetch must be newer than the last applied one. A request in
// flight when Stop is called is not aborted, its result is dropped.
//
// Begin and Apply run with the task's lock held and must not call back into
// the task.
type Task[T any] struct {
	interval time.Duration
	hooks    Hooks[T]

	mu      sync.Mutex
	live    bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	seq     uint64
	applied uint64
}

func NewTask[T any](interval time.Duration, hooks Hooks[T]) *Task[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	closed := make(chan struct{})
	close(closed)
	return &Task[T]{interval: interval, hooks: hooks, done: closed}
}

// Start is a no-op when the task is already running.
func (t *Task[T]) Start(ctx context.Context) {
	t.mu.Lock()
	if t.live {
		t.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	t.live = true
	t.ctx = loopCtx
	t.cancel = cancel
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	go t.loop(loopCtx, done)
}

// Stop ends the ticking. No Apply happens after Stop returns.
func (t *Task[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.live {
		return
	}
	t.live = false
	t.cancel()
}

// Done is closed once the loop goroutine has exited, which may be after Stop
// if a fetch was in flight.
func (t *Task[T]) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Task[T]) Live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live && t.ctx.Err() == nil
}

// RunNow performs one fetch outside the schedule, e.g. a manual retry.
// applied is false when the task is stopped or a newer fetch won.
func (t *Task[T]) RunNow() (applied bool, err error) {
	t.mu.Lock()
	ctx := t.ctx
	t.mu.Unlock()
	if ctx == nil {
		return false, context.Canceled
	}
	return t.run(ctx)
}

func (t *Task[T]) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	t.run(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			if t.ctx == ctx {
				t.live = false
			}
			t.mu.Unlock()
			return
		case <-ticker.C:
			t.run(ctx)
		}
	}
}

func (t *Task[T]) run(ctx context.Context) (bool, error) {
	t.mu.Lock()
	if !t.live || t.ctx != ctx || ctx.Err() != nil {
		t.mu.Unlock()
		return false, context.Canceled
	}
	t.seq++
	seq := t.seq
	if t.hooks.Begin != nil {
		t.hooks.Begin()
	}
	t.mu.Unlock()

	result, err := t.hooks.Fetch(context.WithoutCancel(ctx))

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.live || t.ctx != ctx || ctx.Err() != nil || seq <= t.applied {
		return false, err
	}
	t.applied = seq
	if t.hooks.Apply != nil {
		t.hooks.Apply(result, err)
	}
	return true, err
}
