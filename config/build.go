package config

import (
	"github.com/CursedRock17/message-filters/core"
	"github.com/CursedRock17/message-filters/msync"
)

// BuildFrame constructs the Policy named by c and wraps it in a SyncFrame,
// wiring output through sink. ctx may be nil; a default Context is used in
// that case.
func (c *Config) BuildFrame(sink core.OutputSink, ctx *core.Context) (*msync.SyncFrame, error) {
	switch c.Policy {
	case PolicyExact:
		return msync.NewSyncFrame(msync.NewExactSync(c.Streams, c.QueueSize, sink)), nil
	case PolicyApprox:
		a, err := msync.NewApproxSync(c.Streams, c.QueueSize, sink, ctx)
		if err != nil {
			return nil, err
		}
		if c.AgePenalty > 0 {
			if err := a.SetAgePenalty(c.AgePenalty); err != nil {
				return nil, err
			}
		}
		if c.MaxIntervalDurationNs > 0 {
			if err := a.SetMaxIntervalDuration(core.Duration(c.MaxIntervalDurationNs)); err != nil {
				return nil, err
			}
		}
		for i, ns := range c.InterMessageLowerBoundsNs {
			if ns <= 0 {
				continue
			}
			if err := a.SetInterMessageLowerBound(i, core.Duration(ns)); err != nil {
				return nil, err
			}
		}
		return msync.NewSyncFrame(a), nil
	default:
		return nil, core.NewProgrammingError("unknown policy %q", c.Policy)
	}
}
