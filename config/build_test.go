package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/CursedRock17/message-filters/core"
)

func TestBuildFrameExactEmitsMatchedTuple(t *testing.T) {
	Convey("Given an exact-policy config built into a frame", t, func() {
		c := &Config{Streams: 2, Policy: PolicyExact, QueueSize: 0}
		var emitted []core.Tuple
		frame, err := c.BuildFrame(func(t core.Tuple) { emitted = append(emitted, t.Clone()) }, nil)
		So(err, ShouldBeNil)

		Convey("When both streams are fed through the frame's bindings at the same timestamp", func() {
			So(frame.Bind(0)(core.Event{Timestamp: 100, Message: "a"}), ShouldBeNil)
			So(frame.Bind(1)(core.Event{Timestamp: 100, Message: "b"}), ShouldBeNil)

			Convey("Then one matched tuple is emitted", func() {
				So(len(emitted), ShouldEqual, 1)
			})
		})
	})
}

func TestBuildFrameApproxAppliesTuning(t *testing.T) {
	Convey("Given an approx-policy config with a max interval narrower than the inputs", t, func() {
		c := &Config{
			Streams:               2,
			Policy:                PolicyApprox,
			QueueSize:             10,
			MaxIntervalDurationNs: 5,
		}
		var emitted []core.Tuple
		frame, err := c.BuildFrame(func(t core.Tuple) { emitted = append(emitted, t.Clone()) }, nil)
		So(err, ShouldBeNil)

		Convey("When a pair further apart than the configured max interval is fed in", func() {
			So(frame.Bind(0)(core.Event{Timestamp: 100, Message: "a"}), ShouldBeNil)
			So(frame.Bind(1)(core.Event{Timestamp: 200, Message: "b"}), ShouldBeNil)

			Convey("Then the configured bound suppresses the match", func() {
				So(len(emitted), ShouldEqual, 0)
			})
		})
	})
}

func TestBuildFrameUnknownPolicy(t *testing.T) {
	Convey("Given a config with an invalid policy that slipped past Validate", t, func() {
		c := &Config{Streams: 2, Policy: "bogus", QueueSize: 1}

		Convey("When BuildFrame is called", func() {
			_, err := c.BuildFrame(func(core.Tuple) {}, nil)

			Convey("Then it returns an error instead of constructing a half-configured frame", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
