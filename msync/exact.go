package msync

import (
	"sort"
	"sync"

	"github.com/CursedRock17/message-filters/core"
)

// ExactSync implements exact-time synchronization: a hash-keyed join on
// timestamp. A tuple is emitted only once one message from every stream
// shares an identical timestamp.
//
// ExactSync state: a mapping from timestamp to partial tuple, plus
// lastSignalTime (the timestamp of the most recently emitted tuple, unset
// until the first emission). Keys in the map are strictly greater than
// lastSignalTime once it is set; every key has at least one filled slot.
type ExactSync struct {
	mu sync.Mutex

	n         int
	queueSize int
	output    core.OutputSink
	dropSink  core.DropSink

	tuples map[core.Timestamp]core.Tuple
	// keys holds the live map keys in ascending order, so the overflow and
	// sweep steps can walk from the smallest timestamp without sorting the
	// map on every Add. A plain sorted slice is used in place of an ordered
	// map/btree because no example in the retrieval pack ships one suited
	// to this narrow a use, and the number of live partial tuples is
	// bounded by queueSize.
	keys []core.Timestamp

	lastSignalSet  bool
	lastSignalTime core.Timestamp
}

// NewExactSync creates an ExactSync for n streams. output is invoked with
// each fully-matched tuple. queueSize of 0 disables the per-timestamp
// overflow sweep (spec: "0 disables the per-timestamp overflow sweep").
func NewExactSync(n int, queueSize int, output core.OutputSink) *ExactSync {
	return &ExactSync{
		n:         n,
		queueSize: queueSize,
		output:    output,
		tuples:    make(map[core.Timestamp]core.Tuple),
	}
}

// ExactStats is a point-in-time snapshot of an ExactSync's internal state,
// intended for introspection rather than for driving any decision in the
// algorithm itself.
type ExactStats struct {
	PendingTuples  int
	LastSignalTime core.Timestamp
	HasLastSignal  bool
}

// Stats returns a snapshot of the synchronizer's current state.
func (s *ExactSync) Stats() ExactStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExactStats{
		PendingTuples:  len(s.tuples),
		LastSignalTime: s.lastSignalTime,
		HasLastSignal:  s.lastSignalSet,
	}
}

// RegisterDropSink attaches a callback invoked whenever a partial tuple is
// discarded without emission.
func (s *ExactSync) RegisterDropSink(sink core.DropSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropSink = sink
}

// LastSignalTime returns the timestamp of the most recently emitted tuple,
// and whether any tuple has been emitted yet.
func (s *ExactSync) LastSignalTime() (core.Timestamp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSignalTime, s.lastSignalSet
}

// Add ingests a timestamped event for stream i. If an event with the same
// timestamp for stream i already exists, it is overwritten (last-writer-wins
// at that timestamp). May emit at most one synchronized tuple and zero or
// more drop events before returning.
func (s *ExactSync) Add(i int, evt core.Event) error {
	if i < 0 || i >= s.n {
		return core.ErrStreamIndexOutOfRange(i, s.n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := evt.Timestamp
	t, ok := s.tuples[ts]
	if !ok {
		t = core.NewTuple(s.n)
		s.insertKey(ts)
	}
	t[i] = evt
	s.tuples[ts] = t

	if t.Full() {
		if s.output != nil {
			s.output(t)
		}
		s.lastSignalTime = ts
		s.lastSignalSet = true
		s.removeKey(ts)
		delete(s.tuples, ts)
		s.sweepUpToLastSignal()
	} else if s.lastSignalSet && ts <= s.lastSignalTime {
		// A late event can never complete a tuple: forward it to the drop
		// sink instead of retaining it.
		s.dropEntry(ts)
	}

	if s.queueSize > 0 {
		for len(s.keys) > s.queueSize {
			oldest := s.keys[0]
			s.dropEntry(oldest)
		}
	}

	return nil
}

// sweepUpToLastSignal forwards to the drop sink, and removes, every
// remaining entry whose timestamp is <= lastSignalTime. Since keys is kept
// sorted ascending, this only has to look at the front of the slice.
func (s *ExactSync) sweepUpToLastSignal() {
	for len(s.keys) > 0 && s.keys[0] <= s.lastSignalTime {
		s.dropEntry(s.keys[0])
	}
}

func (s *ExactSync) dropEntry(ts core.Timestamp) {
	t := s.tuples[ts]
	delete(s.tuples, ts)
	s.removeKey(ts)
	if s.dropSink != nil {
		s.dropSink(t)
	}
}

func (s *ExactSync) insertKey(ts core.Timestamp) {
	idx := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= ts })
	s.keys = append(s.keys, 0)
	copy(s.keys[idx+1:], s.keys[idx:])
	s.keys[idx] = ts
}

func (s *ExactSync) removeKey(ts core.Timestamp) {
	idx := sort.Search(len(s.keys), func(i int) bool { return s.keys[i] >= ts })
	if idx < len(s.keys) && s.keys[idx] == ts {
		s.keys = append(s.keys[:idx], s.keys[idx+1:]...)
	}
}
