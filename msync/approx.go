package msync

import (
	"sync"

	"github.com/CursedRock17/message-filters/core"
)

// NoPivot is the sentinel pivot value meaning "no candidate is held". Go
// streams are indexed from 0, so -1 serves the role the original's
// out-of-range sentinel (one past the max supported stream count) played.
const NoPivot = -1

// DefaultAgePenalty matches the original implementation's constructor
// default, which biases the optimizer a little towards not holding
// candidates open indefinitely even with age_penalty left unconfigured.
const DefaultAgePenalty = 0.1

// ApproxSync implements approximate-time synchronization: a pivot/candidate
// optimizer with virtual look-ahead, emitting tuples whose timestamps span
// the smallest achievable time interval under an age-penalty heuristic and
// optional per-stream rate bounds.
type ApproxSync struct {
	mu sync.Mutex

	n         int
	queueSize int
	output    core.OutputSink
	ctx       *core.Context

	deques [][]core.Event
	past   [][]core.Event

	nonEmptyCount int
	pivot         int
	pivotTime     core.Timestamp

	candidate      core.Tuple
	candidateStart core.Timestamp
	candidateEnd   core.Timestamp

	hasDropped             []bool
	interMessageLowerBound []core.Duration
	maxIntervalDuration    core.Duration
	agePenalty             float64
	warnedBound            []bool
}

// NewApproxSync creates an ApproxSync for n streams. The synchronizer will
// tend to drop many messages with a queue size of 1; at least 2 is
// recommended, matching the original implementation's guidance. queueSize
// must be > 0: this is a programming error, not a degenerate "unbounded"
// request.
func NewApproxSync(n, queueSize int, output core.OutputSink, ctx *core.Context) (*ApproxSync, error) {
	if queueSize <= 0 {
		return nil, core.NewProgrammingError("ApproxSync queue_size must be > 0, got %d", queueSize)
	}
	if ctx == nil {
		ctx = core.NewContext()
	}
	s := &ApproxSync{
		n:                      n,
		queueSize:              queueSize,
		output:                 output,
		ctx:                    ctx,
		deques:                 make([][]core.Event, n),
		past:                   make([][]core.Event, n),
		pivot:                  NoPivot,
		maxIntervalDuration:    core.MaxDuration,
		agePenalty:             DefaultAgePenalty,
		hasDropped:             make([]bool, n),
		interMessageLowerBound: make([]core.Duration, n),
		warnedBound:            make([]bool, n),
	}
	return s, nil
}

// ApproxStats is a point-in-time snapshot of an ApproxSync's internal
// state, intended for introspection (see the server package) rather than
// for driving any decision in the algorithm itself.
type ApproxStats struct {
	QueueDepth  []int
	PastDepth   []int
	HasDropped  []bool
	HasPivot    bool
	PivotStream int
}

// Stats returns a snapshot of the synchronizer's current state.
func (s *ApproxSync) Stats() ApproxStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := ApproxStats{
		QueueDepth:  make([]int, s.n),
		PastDepth:   make([]int, s.n),
		HasDropped:  make([]bool, s.n),
		HasPivot:    s.pivot != NoPivot,
		PivotStream: s.pivot,
	}
	for i := 0; i < s.n; i++ {
		st.QueueDepth[i] = len(s.deques[i])
		st.PastDepth[i] = len(s.past[i])
		st.HasDropped[i] = s.hasDropped[i]
	}
	return st
}

// SetAgePenalty sets the non-negative multiplier biasing the replacement
// rule toward older (earlier-starting) candidates.
func (s *ApproxSync) SetAgePenalty(a float64) error {
	if a < 0 {
		return core.NewProgrammingError("age_penalty must be >= 0, got %v", a)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agePenalty = a
	return nil
}

// SetInterMessageLowerBound sets the minimum gap between consecutive
// messages on stream i, used to prove optimality via virtual look-ahead.
func (s *ApproxSync) SetInterMessageLowerBound(i int, bound core.Duration) error {
	if i < 0 || i >= s.n {
		return core.ErrStreamIndexOutOfRange(i, s.n)
	}
	if bound < 0 {
		return core.NewProgrammingError("inter_message_lower_bound must be >= 0, got %v", bound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interMessageLowerBound[i] = bound
	return nil
}

// SetMaxIntervalDuration sets the upper bound on end_time-start_time for an
// acceptable tuple.
func (s *ApproxSync) SetMaxIntervalDuration(d core.Duration) error {
	if d < 0 {
		return core.NewProgrammingError("max_interval_duration must be >= 0, got %v", d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxIntervalDuration = d
	return nil
}

// Add ingests an event. May emit zero or more synchronized tuples before
// returning. May implicitly drop the oldest event of the overflowing
// stream.
func (s *ApproxSync) Add(i int, evt core.Event) error {
	if i < 0 || i >= s.n {
		return core.ErrStreamIndexOutOfRange(i, s.n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deques[i] = append(s.deques[i], evt)
	wasEmpty := len(s.deques[i]) == 1
	if wasEmpty {
		s.nonEmptyCount++
	}

	s.checkInterMessageBound(i)

	if wasEmpty && s.nonEmptyCount == s.n {
		s.process()
	}

	if len(s.deques[i])+len(s.past[i]) > s.queueSize {
		s.overflow(i)
	}

	return nil
}

// checkInterMessageBound compares the event just pushed onto deques[i]
// against the previous message on that stream - the previous deque entry if
// one exists, or the most recent entry stashed in past[i] if the deque had
// just been emptied by an in-progress candidate search. Warnings are
// one-shot per stream.
func (s *ApproxSync) checkInterMessageBound(i int) {
	if s.warnedBound[i] {
		return
	}

	deque := s.deques[i]
	msgTime := deque[len(deque)-1].Timestamp

	var prevTime core.Timestamp
	switch {
	case len(deque) >= 2:
		prevTime = deque[len(deque)-2].Timestamp
	case len(s.past[i]) > 0:
		prevTime = s.past[i][len(s.past[i])-1].Timestamp
	default:
		// No previous message is known (never received, or already
		// published); the bound cannot be checked yet.
		return
	}

	if msgTime < prevTime {
		s.ctx.StreamLog(i).Warn("messages arrived out of order (will warn only once for this stream)")
		s.warnedBound[i] = true
	} else if msgTime.Sub(prevTime) < s.interMessageLowerBound[i] {
		s.ctx.StreamLog(i).Warnf(
			"messages arrived closer (%d) than the configured lower bound (%d) (will warn only once for this stream)",
			msgTime.Sub(prevTime), s.interMessageLowerBound[i])
		s.warnedBound[i] = true
	}
}

// overflow implements spec 4.2.5: abort any in-progress candidate, restore
// all stashed past events, drop the oldest pending event on the offending
// stream, and mark it as having dropped a message.
func (s *ApproxSync) overflow(i int) {
	s.nonEmptyCount = 0
	for j := 0; j < s.n; j++ {
		s.recoverAll(j)
	}

	s.deques[i] = s.deques[i][1:]
	if len(s.deques[i]) == 0 {
		s.nonEmptyCount--
	}
	s.hasDropped[i] = true

	if s.pivot != NoPivot {
		s.candidate = nil
		s.pivot = NoPivot
		s.process()
	}
}

// recoverAll restores all of past[i] back onto the front of deques[i],
// preserving chronological order, without discarding anything.
func (s *ApproxSync) recoverAll(i int) {
	if len(s.past[i]) == 0 {
		if len(s.deques[i]) > 0 {
			s.nonEmptyCount++
		}
		return
	}
	merged := make([]core.Event, 0, len(s.past[i])+len(s.deques[i]))
	merged = append(merged, s.past[i]...)
	merged = append(merged, s.deques[i]...)
	s.deques[i] = merged
	s.past[i] = s.past[i][:0]
	if len(s.deques[i]) > 0 {
		s.nonEmptyCount++
	}
}

// recoverN restores the last numMessages entries of past[i] back onto the
// front of deques[i], used to roll back the virtual moves made during an
// inconclusive look-ahead. numMessages must be <= len(past[i]).
func (s *ApproxSync) recoverN(i, numMessages int) {
	if numMessages == 0 {
		if len(s.deques[i]) > 0 {
			s.nonEmptyCount++
		}
		return
	}
	split := len(s.past[i]) - numMessages
	tail := s.past[i][split:]
	merged := make([]core.Event, 0, len(tail)+len(s.deques[i]))
	merged = append(merged, tail...)
	merged = append(merged, s.deques[i]...)
	s.deques[i] = merged
	s.past[i] = s.past[i][:split]
	if len(s.deques[i]) > 0 {
		s.nonEmptyCount++
	}
}

// recoverAndDelete restores all of past[i] back onto the front of
// deques[i], then discards the new front - the event that was part of the
// just-published candidate.
func (s *ApproxSync) recoverAndDelete(i int) {
	if len(s.past[i]) > 0 {
		merged := make([]core.Event, 0, len(s.past[i])+len(s.deques[i]))
		merged = append(merged, s.past[i]...)
		merged = append(merged, s.deques[i]...)
		s.deques[i] = merged
		s.past[i] = s.past[i][:0]
	}
	s.deques[i] = s.deques[i][1:]
	if len(s.deques[i]) > 0 {
		s.nonEmptyCount++
	}
}

func (s *ApproxSync) dequeDeleteFront(i int) {
	s.deques[i] = s.deques[i][1:]
	if len(s.deques[i]) == 0 {
		s.nonEmptyCount--
	}
}

func (s *ApproxSync) dequeMoveFrontToPast(i int) {
	front := s.deques[i][0]
	s.deques[i] = s.deques[i][1:]
	s.past[i] = append(s.past[i], front)
	if len(s.deques[i]) == 0 {
		s.nonEmptyCount--
	}
}

func (s *ApproxSync) makeCandidate() {
	c := make(core.Tuple, s.n)
	for i := 0; i < s.n; i++ {
		c[i] = s.deques[i][0]
	}
	s.candidate = c
	for i := range s.past {
		s.past[i] = s.past[i][:0]
	}
}

// boundary scans the current deque heads and returns the stream index and
// timestamp of the extremum (latest head if end, earliest otherwise). Ties
// are broken in favor of the lower stream index by only ever replacing on a
// strict improvement.
func (s *ApproxSync) boundary(end bool) (int, core.Timestamp) {
	index := 0
	t := s.deques[0][0].Timestamp
	for i := 1; i < s.n; i++ {
		ti := s.deques[i][0].Timestamp
		if end {
			if ti > t {
				t, index = ti, i
			}
		} else {
			if ti < t {
				t, index = ti, i
			}
		}
	}
	return index, t
}

// virtualTime returns the earliest possible timestamp a future event on
// stream i could bear. Assumes a pivot and candidate are held.
func (s *ApproxSync) virtualTime(i int) core.Timestamp {
	if len(s.deques[i]) > 0 {
		return s.deques[i][0].Timestamp
	}
	last := s.past[i][len(s.past[i])-1].Timestamp
	lowerBound := core.Timestamp(core.AddDuration(core.Duration(last), s.interMessageLowerBound[i]))
	if lowerBound > s.pivotTime {
		return lowerBound
	}
	return s.pivotTime
}

func (s *ApproxSync) virtualBoundary(end bool) (int, core.Timestamp) {
	index := 0
	t := s.virtualTime(0)
	for i := 1; i < s.n; i++ {
		ti := s.virtualTime(i)
		if end {
			if ti > t {
				t, index = ti, i
			}
		} else {
			if ti < t {
				t, index = ti, i
			}
		}
	}
	return index, t
}

// process runs the pivot/candidate state machine for as long as every deque
// is non-empty; publishing a candidate does not end the loop, so one call
// may publish several tuples. Assumes the caller already holds s.mu.
func (s *ApproxSync) process() {
	for s.nonEmptyCount == s.n {
		startIdx, startTime := s.boundary(false)
		endIdx, endTime := s.boundary(true)

		for i := 0; i < s.n; i++ {
			if i != endIdx {
				// No dropped message could have been better to use than the
				// ones we have, so this stream becomes a safe pivot again.
				s.hasDropped[i] = false
			}
		}

		if s.pivot == NoPivot {
			if endTime.Sub(startTime) > s.maxIntervalDuration {
				s.dequeDeleteFront(startIdx)
				continue
			}
			if s.hasDropped[endIdx] {
				s.dequeDeleteFront(startIdx)
				continue
			}
			s.makeCandidate()
			s.candidateStart = startTime
			s.candidateEnd = endTime
			s.pivot = endIdx
			s.pivotTime = endTime
			s.dequeMoveFrontToPast(startIdx)
		} else {
			delta := core.ScaleDuration(endTime.Sub(s.candidateEnd), s.agePenalty)
			gap := startTime.Sub(s.candidateStart)
			if delta >= gap {
				s.dequeMoveFrontToPast(startIdx)
			} else {
				s.makeCandidate()
				s.candidateStart = startTime
				s.candidateEnd = endTime
				s.dequeMoveFrontToPast(startIdx)
				// Pivot and pivot time are unchanged.
			}
		}

		ageCheck := core.ScaleDuration(endTime.Sub(s.candidateEnd), s.agePenalty)
		switch {
		case startIdx == s.pivot:
			s.publishCandidate()
		case ageCheck >= s.pivotTime.Sub(s.candidateStart):
			s.publishCandidate()
		case s.nonEmptyCount < s.n:
			s.lookAhead()
		}
	}
}

// lookAhead performs the virtual look-ahead search (spec 4.2.3): using rate
// bounds to optimistically extend deque heads past their actual data,
// trying to prove the held candidate is already optimal before more real
// data arrives.
func (s *ApproxSync) lookAhead() {
	numVirtualMoves := make([]int, s.n)
	for {
		endIdx, endTime := s.virtualBoundary(true)
		_ = endIdx
		startIdx, startTime := s.virtualBoundary(false)

		if core.ScaleDuration(endTime.Sub(s.candidateEnd), s.agePenalty) >= s.pivotTime.Sub(s.candidateStart) {
			// Optimality proved: any future candidate must span at least
			// [pivot_time, end_time], already too wide.
			s.publishCandidate()
			return
		}
		if core.ScaleDuration(endTime.Sub(s.candidateEnd), s.agePenalty) < startTime.Sub(s.candidateStart) {
			// A possibly-better virtual candidate exists; optimality cannot
			// be proved. Roll back every virtual move made in this search.
			s.nonEmptyCount = 0
			for i := 0; i < s.n; i++ {
				s.recoverN(i, numVirtualMoves[i])
			}
			return
		}

		// startIdx != pivot and startTime < pivotTime are guaranteed by the
		// two conditions above having both failed: a stream whose deque is
		// empty always has a virtual time >= pivotTime, so startIdx must
		// name a stream with a real head here.
		s.dequeMoveFrontToPast(startIdx)
		numVirtualMoves[startIdx]++
	}
}

// publishCandidate emits the held candidate and recovers every stream's
// state for the next round. Assumes every stream's candidate event is still
// held in past[i] or at the front of deques[i]; a deque itself may be empty.
func (s *ApproxSync) publishCandidate() {
	if s.output != nil {
		s.output(s.candidate)
	}
	s.candidate = nil
	s.pivot = NoPivot

	s.nonEmptyCount = 0
	for i := 0; i < s.n; i++ {
		s.recoverAndDelete(i)
	}
}
