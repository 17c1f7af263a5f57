package widget

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrLoopStopped is returned by Sync once the loop has exited.
var ErrLoopStopped = errors.New("update loop stopped")

type op struct {
	fn   func()
	done chan struct{} // closed after the batch is laid out
}

// Loop is the tree's update cycle. Writes posted with Do run on the loop
// goroutine in order, followed by one layout pass per batch, the way a UI
// toolkit applies state changes before the next frame.
type Loop struct {
	tree     *Tree
	ops      chan op
	done     chan struct{}
	interval time.Duration
	tick     func(*Tree)
	logger   *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithInterval sets the frame interval. Zero disables ticking.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) { l.interval = d }
}

// WithTick sets a function run on the loop goroutine every frame, used to
// animate demo trees.
func WithTick(fn func(*Tree)) LoopOption {
	return func(l *Loop) { l.tick = fn }
}

// WithLoopLogger sets the loop's logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop attaches a loop to tree. Writes posted to the tree go through the
// loop from now on; call Run to start processing them.
func NewLoop(tree *Tree, opts ...LoopOption) *Loop {
	l := &Loop{
		tree:   tree,
		ops:    make(chan op, 64),
		done:   make(chan struct{}),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	tree.mu.Lock()
	tree.loop = l
	tree.mu.Unlock()
	return l
}

// Run processes posted writes until ctx is done. The tree reverts to
// immediate writes afterwards.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.tree.mu.Lock()
		if l.tree.loop == l {
			l.tree.loop = nil
		}
		l.tree.mu.Unlock()
		close(l.done)
	}()

	var ticks <-chan time.Time
	if l.interval > 0 {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		var batch []op
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o := <-l.ops:
			batch = append(batch, o)
		case <-ticks:
			if l.tick != nil {
				batch = append(batch, op{fn: func() { l.tick(l.tree) }})
			}
		}
		batch = l.drain(batch)
		for _, o := range batch {
			l.run(o.fn)
		}
		l.tree.Layout()
		for _, o := range batch {
			if o.done != nil {
				close(o.done)
			}
		}
	}
}

func (l *Loop) drain(batch []op) []op {
	for {
		select {
		case o := <-l.ops:
			batch = append(batch, o)
		default:
			return batch
		}
	}
}

func (l *Loop) run(fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("update panicked", "panic", r)
		}
	}()
	fn()
}

func (l *Loop) enqueue(o op) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.ops <- o:
		return true
	case <-l.done:
		return false
	}
}

// Do queues fn for the next update cycle. It reports false once the loop
// has stopped.
func (l *Loop) Do(fn func()) bool {
	return l.enqueue(op{fn: fn})
}

// Sync waits until every write queued before the call has been applied and
// laid out.
func (l *Loop) Sync(ctx context.Context) error {
	done := make(chan struct{})
	if !l.enqueue(op{done: done}) {
		return ErrLoopStopped
	}
	select {
	case <-done:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
