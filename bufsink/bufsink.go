// Package bufsink implements the "buffered sink adapter" called for by the
// synchronization core's design notes: synchronizers invoke their output
// sink with their internal lock held, so a sink that wants to hand tuples
// off to a slower background consumer must not do that work inline. This
// package buffers emitted tuples on a channel and drains them on a
// dedicated goroutine, decoupling the synchronizer's lock from whatever the
// downstream consumer does with a tuple.
//
// It is adapted from the teacher's pipeSender/pipeReceiver
// (core/pipe.go in disktnk-sensorbee), which solves the same problem for
// tuples flowing between boxes in a streaming topology: a bounded channel,
// an optional drop policy for when that channel is full, and a close
// sequence that can't deadlock a writer blocked on a full channel.
package bufsink

import (
	"sync"
	"sync/atomic"

	"github.com/CursedRock17/message-filters/core"
)

// DropMode controls what BufferedSink does when its internal queue is full
// and a new tuple arrives from the synchronizer.
type DropMode int

const (
	// DropNone blocks the writer (the synchronizer's Add call, and so its
	// lock) until the consumer drains space. Use only when the consumer is
	// known to keep up; this defeats the purpose of buffering otherwise.
	DropNone DropMode = iota

	// DropLatest discards the tuple currently being written when the queue
	// is full, keeping everything already queued.
	DropLatest

	// DropOldest discards the oldest queued tuple to make room for the new
	// one.
	DropOldest
)

// BufferedSink is a core.OutputSink (via its Write method) that queues
// tuples for consumption by a background goroutine, so the caller invoking
// the sink under a synchronizer's lock does not block on downstream work
// unless DropNone is selected and the queue is full.
type BufferedSink struct {
	// droppedCount is read atomically; keep it first for 64-bit alignment
	// on 32-bit platforms, matching the teacher's alignment discipline in
	// pipeSender.
	droppedCount int64

	queue    chan core.Tuple
	dropMode DropMode

	rwm    sync.RWMutex
	closed bool
}

// New creates a BufferedSink with the given queue capacity and drop mode,
// and starts the background consumer loop that calls consume for each
// queued tuple until the sink is closed.
func New(capacity int, mode DropMode, consume func(core.Tuple)) *BufferedSink {
	s := &BufferedSink{
		queue:    make(chan core.Tuple, capacity),
		dropMode: mode,
	}
	go func() {
		for t := range s.queue {
			consume(t)
		}
	}()
	return s
}

// Write implements core.OutputSink. It is safe to pass directly as the
// output sink registered with a synchronizer.
func (s *BufferedSink) Write(t core.Tuple) {
	s.rwm.RLock()
	defer s.rwm.RUnlock()

	if s.closed {
		return
	}

	if s.dropMode == DropNone {
		s.queue <- t
		return
	}

	select {
	case s.queue <- t:
	default:
		if s.dropMode == DropLatest {
			atomic.AddInt64(&s.droppedCount, 1)
			return
		}
		// DropOldest: make room for the new tuple by discarding the oldest
		// queued one, then retry. Another goroutine may drain a slot first,
		// which is fine; the select below covers both cases.
		select {
		case <-s.queue:
			atomic.AddInt64(&s.droppedCount, 1)
		default:
		}
		select {
		case s.queue <- t:
		default:
			// The queue filled again before we could insert; drop the
			// incoming tuple rather than block the synchronizer's lock.
			atomic.AddInt64(&s.droppedCount, 1)
		}
	}
}

// DroppedCount returns the number of tuples discarded because the queue was
// full, under DropLatest or DropOldest.
func (s *BufferedSink) DroppedCount() int64 {
	return atomic.LoadInt64(&s.droppedCount)
}

// QueueDepth reports the current and maximum number of buffered tuples.
func (s *BufferedSink) QueueDepth() (depth, capacity int) {
	s.rwm.RLock()
	defer s.rwm.RUnlock()
	if s.closed {
		return 0, 0
	}
	return len(s.queue), cap(s.queue)
}

// Close stops accepting new tuples and lets the background consumer drain
// and exit once it has processed everything already queued. Close waits for
// any Write in progress to return, which under DropNone with a full queue
// means waiting for the consumer to free a slot; it is safe to call more
// than once.
func (s *BufferedSink) Close() {
	s.rwm.Lock()
	defer s.rwm.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}
