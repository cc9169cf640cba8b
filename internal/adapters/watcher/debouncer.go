package watcher

import (
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/rebuild/internal/core/domain"
	"go.trai.ch/rebuild/internal/core/ports"
)

// Debouncer coalesces bursts of watch events into one batch per path.
//
// The last operation seen for a path wins, so a file written and then removed within one
// window is reported once as removed.
type Debouncer struct {
	mu       sync.Mutex
	pending  map[domain.InternedString]ports.WatchOp
	timer    *time.Timer
	window   time.Duration
	callback func(batch []ports.WatchEvent)
}

// NewDebouncer creates a debouncer that calls callback once window has passed without events.
func NewDebouncer(window time.Duration, callback func(batch []ports.WatchEvent)) *Debouncer {
	return &Debouncer{
		pending:  make(map[domain.InternedString]ports.WatchOp),
		window:   window,
		callback: callback,
	}
}

// Add records an event and restarts the quiet period.
func (d *Debouncer) Add(event ports.WatchEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[domain.NewInternedString(event.Path)] = event.Operation

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

// fire runs when the quiet period expires.
func (d *Debouncer) fire() {
	d.mu.Lock()
	d.timer = nil
	batch := d.drain()
	d.mu.Unlock()

	if len(batch) > 0 && d.callback != nil {
		go d.callback(batch)
	}
}

// Flush delivers pending events synchronously. It does nothing if the timer already fired.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		if !d.timer.Stop() {
			d.mu.Unlock()
			return
		}
		d.timer = nil
	}
	batch := d.drain()
	d.mu.Unlock()

	if len(batch) > 0 && d.callback != nil {
		d.callback(batch)
	}
}

// drain empties the pending set and returns it sorted by path. Callers hold d.mu.
func (d *Debouncer) drain() []ports.WatchEvent {
	if len(d.pending) == 0 {
		return nil
	}
	batch := make([]ports.WatchEvent, 0, len(d.pending))
	for path, op := range d.pending {
		batch = append(batch, ports.WatchEvent{Path: path.String(), Operation: op})
	}
	d.pending = make(map[domain.InternedString]ports.WatchOp)
	slices.SortFunc(batch, func(a, b ports.WatchEvent) int {
		return strings.Compare(a.Path, b.Path)
	})
	return batch
}
