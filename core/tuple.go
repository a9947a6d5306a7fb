package core

// Tuple is an ordered collection of exactly N events, one slot per stream
// index. A Tuple handed to a sink is not retained by the synchronizer
// afterwards.
type Tuple []Event

// NewTuple allocates a Tuple of n unset slots.
func NewTuple(n int) Tuple {
	return make(Tuple, n)
}

// Full reports whether every slot of the tuple holds an event.
func (t Tuple) Full() bool {
	for _, e := range t {
		if e.Unset() {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the tuple's slots.
func (t Tuple) Clone() Tuple {
	c := make(Tuple, len(t))
	copy(c, t)
	return c
}

// OutputSink receives a complete, synchronized Tuple. Implementations are
// invoked with the owning synchronizer's lock held (see the msync package doc)
// and must not block or call back into the synchronizer that invoked them.
type OutputSink func(t Tuple)

// DropSink receives a Tuple discarded without emission. Slots for streams
// that never contributed an event to the discarded group are UnsetEvent.
// Implementations run under the same constraints as OutputSink.
type DropSink func(t Tuple)
