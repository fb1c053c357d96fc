// Package source delivers daily_scores snapshots from the places they live:
// a JSON export on disk, the SQLite store, or a Firebase Realtime Database stream.
package source

import (
	"context"
	"sync"
	"time"

	"github.com/j-veylop/journalist-leaderboard-tui/internal/models"
)

// Update is one push from a source. Snapshot is always the complete current
// state; on failure Err is set and Snapshot is empty.
type Update struct {
	At       time.Time
	Err      error
	Snapshot models.Snapshot
}

// Unsubscribe stops a subscription. After it returns the callback is never
// invoked again. It is safe to call more than once but must not be called
// from inside the callback.
type Unsubscribe func()

// Source pushes full snapshots to a subscriber.
type Source interface {
	// Name is the short kind of source, e.g. "file".
	Name() string
	// Location describes where the data comes from, for display.
	Location() string
	// Subscribe starts delivering updates to fn. The first update carries the
	// current state. Updates for one subscription are delivered one at a time
	// from a single goroutine.
	Subscribe(ctx context.Context, fn func(Update)) (Unsubscribe, error)
}

// dispatcher owns the callback of one subscription.
type dispatcher struct {
	fn     func(Update)
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	mu     sync.Mutex
	closed bool
}

func newDispatcher(fn func(Update), cancel context.CancelFunc) *dispatcher {
	return &dispatcher{
		fn:     fn,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// deliver invokes the callback unless the subscription has been stopped.
func (d *dispatcher) deliver(u Update) {
	if u.At.IsZero() {
		u.At = time.Now()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.fn(u)
}

func (d *dispatcher) fail(err error) {
	d.deliver(Update{Err: err})
}

// finish marks the producer goroutine as exited.
func (d *dispatcher) finish() {
	close(d.done)
}

func (d *dispatcher) unsubscribe() {
	d.once.Do(func() {
		d.cancel()
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		<-d.done
	})
}
