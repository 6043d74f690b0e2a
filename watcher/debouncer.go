package watcher

import (
	"sort"
	"sync"
	"time"
)

// Event is a file change that survived debouncing.
type Event struct {
	Path string
	Op   EventOp
}

// EventOp represents the type of file system operation.
type EventOp int

const (
	OpCreate EventOp = iota
	OpWrite
	OpRemove
	OpRename
)

func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Debouncer collects events and emits them as one batch after a quiet period.
// Events for the same path within the window collapse into the latest one.
// Batches are sorted by path so files are revised in walk order.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	pending  map[string]EventOp
	timer    *time.Timer
	output   chan []Event
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]EventOp),
		output:   make(chan []Event, 16),
	}
}

// Output returns the channel that receives batched events.
func (d *Debouncer) Output() <-chan []Event {
	return d.output
}

// Add records an event and restarts the quiet period.
func (d *Debouncer) Add(path string, op EventOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[path] = op
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop cancels a pending flush. Events not yet flushed are dropped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = make(map[string]EventOp)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	batch := make([]Event, 0, len(d.pending))
	for path, op := range d.pending {
		batch = append(batch, Event{Path: path, Op: op})
	}
	d.pending = make(map[string]EventOp)
	d.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	// Sent outside the lock so a slow consumer does not block Add.
	d.output <- batch
}
