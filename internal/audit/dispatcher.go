package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Overflow selects what Record does when the queue is full.
type Overflow int

const (
	// Block waits for room until the caller's context is done.
	Block Overflow = iota
	// Drop discards the event immediately.
	Drop
)

// Stats counts events by outcome.
type Stats struct {
	Queued    uint64
	Delivered uint64
	Dropped   uint64
}

// Dispatcher queues events and delivers them to a [Sink] from one worker.
// A nil *Dispatcher accepts and drops everything without counting.
type Dispatcher struct {
	sink     Sink
	overflow Overflow

	// mu guards closed and every send on queue, so Close never races a send.
	mu      sync.RWMutex
	closed  bool
	queue   chan Event
	stopped chan struct{}

	queued    atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// NewDispatcher starts a dispatcher with room for size queued events.
func NewDispatcher(size int, overflow Overflow, sink Sink) *Dispatcher {
	if sink == nil {
		sink = Discard
	}
	d := &Dispatcher{
		sink:     sink,
		overflow: overflow,
		queue:    make(chan Event, max(size, 1)),
		stopped:  make(chan struct{}),
	}
	go d.deliver()
	return d
}

func (d *Dispatcher) deliver() {
	defer close(d.stopped)
	for event := range d.queue {
		d.sink.Record(context.Background(), event)
		d.delivered.Add(1)
	}
}

// Record queues event. Events recorded after Close are ignored.
func (d *Dispatcher) Record(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- event:
		d.queued.Add(1)
		return
	default:
	}
	if d.overflow == Drop {
		d.dropped.Add(1)
		return
	}

	select {
	case d.queue <- event:
		d.queued.Add(1)
	case <-ctx.Done():
		d.dropped.Add(1)
	}
}

// Close stops accepting events and returns once every queued event has
// reached the sink. It is safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.stopped
}

// Stats returns a snapshot of the counters.
func (d *Dispatcher) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	return Stats{
		Queued:    d.queued.Load(),
		Delivered: d.delivered.Load(),
		Dropped:   d.dropped.Load(),
	}
}
