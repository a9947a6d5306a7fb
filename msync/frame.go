package msync

import "github.com/CursedRock17/message-filters/core"

// SyncFrame is the thin shared frame described in spec 4.3: it holds only
// the child policy and exposes per-stream ingestion entry points bound to a
// stream index. It holds no sinks; output and drop sinks are registered on
// the policy itself.
type SyncFrame struct {
	policy Policy
}

// NewSyncFrame wraps a Policy (ExactSync or ApproxSync) behind the per-stream
// Bind interface.
func NewSyncFrame(policy Policy) *SyncFrame {
	return &SyncFrame{policy: policy}
}

// Bind returns an event sink bound to stream index i: a function producers
// for that stream call with each new event.
func (f *SyncFrame) Bind(i int) func(evt core.Event) error {
	return func(evt core.Event) error {
		return f.policy.Add(i, evt)
	}
}
