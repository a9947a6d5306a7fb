// Package msync implements the two synchronization policies at the core of
// this library: exact-time (ExactSync) and approximate-time (ApproxSync),
// plus SyncFrame, the thin shared binder the rest of a filter graph uses to
// feed events into either policy and receive synchronized tuples back out.
//
// Every mutating method acquires a single per-synchronizer exclusive lock
// for its entire duration, including the calls it makes into the registered
// sinks. There is no background goroutine; all work happens on the calling
// producer's goroutine inside Add. Sink implementations must therefore be
// non-blocking and must never call back into Add on the same synchronizer -
// callers that need that kind of hand-off should wrap their sink with
// bufsink.BufferedSink instead.
package msync

import "github.com/CursedRock17/message-filters/core"

// Policy is the common contract both ExactSync and ApproxSync satisfy. It is
// the interface SyncFrame binds stream indices against.
type Policy interface {
	// Add ingests a timestamped event for stream i. i must be in [0, N).
	Add(i int, evt core.Event) error
}
