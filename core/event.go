package core

// Timestamp is a monotonic, non-negative nanosecond count since an
// unspecified epoch. Timestamps are totally ordered and compared bit-exact.
type Timestamp int64

// Sub returns the signed gap between two timestamps as a Duration. Callers
// that know the result must be non-negative (e.g. end-start in the
// synchronizers) rely on the algorithm's own invariants to guarantee that;
// Sub itself does not clamp.
func (t Timestamp) Sub(o Timestamp) Duration {
	return Duration(t - o)
}

// Add returns t advanced by d nanoseconds.
func (t Timestamp) Add(d Duration) Timestamp {
	return Timestamp(int64(t) + int64(d))
}

// Event is an opaque value carrying a message payload and the timestamp it
// was stamped with. Events are value-owned by a synchronizer from Add until
// they are handed to either the output sink or the drop sink.
type Event struct {
	Timestamp Timestamp
	Message   interface{}
}

// Unset reports whether this is the zero-value "no event" sentinel used to
// fill a Tuple slot for a stream that contributed nothing to a dropped
// group.
func (e Event) Unset() bool {
	return e.Message == nil
}

// UnsetEvent is the sentinel used for Tuple slots with no contributing
// event.
var UnsetEvent = Event{}
