package highlight

import (
	"context"
	"sync"
)

// Repairer drives background repair of an Index, one line per step so
// foreground queries are never blocked for long. It idles when the
// index is clean and wakes on Kick.
type Repairer struct {
	idx    *Index
	kick   chan struct{}
	notify func()

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRepairer creates a repairer for the index. Call Start to begin.
func NewRepairer(idx *Index) *Repairer {
	return &Repairer{
		idx:  idx,
		kick: make(chan struct{}, 1),
	}
}

// Notify registers a callback invoked from the repair goroutine each
// time a batch of lines has been repaired. Must be set before Start.
func (r *Repairer) Notify(fn func()) {
	r.notify = fn
}

// Start launches the repair goroutine. It runs until the context is
// canceled or Stop is called.
func (r *Repairer) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx, r.done)
}

// Stop halts background repair and waits for the goroutine to exit.
func (r *Repairer) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Kick wakes the repairer after an edit. Safe to call from any
// goroutine; redundant kicks coalesce.
func (r *Repairer) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

func (r *Repairer) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		repaired := false
		for {
			worked, more := r.idx.RepairStep()
			repaired = repaired || worked
			if !more {
				break
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
		}
		if repaired && r.notify != nil {
			r.notify()
		}
		select {
		case <-ctx.Done():
			return
		case <-r.kick:
		}
	}
}
