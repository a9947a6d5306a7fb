package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseExactConfig(t *testing.T) {
	Convey("Given a well-formed exact-policy YAML document", t, func() {
		raw := []byte(`
streams: 2
policy: exact
queue_size: 10
`)
		Convey("When it is parsed", func() {
			c, err := Parse(raw)

			Convey("Then it validates and the fields round-trip", func() {
				So(err, ShouldBeNil)
				So(c.Streams, ShouldEqual, 2)
				So(c.Policy, ShouldEqual, PolicyExact)
				So(c.QueueSize, ShouldEqual, 10)
			})
		})
	})
}

func TestParseApproxConfigWithBounds(t *testing.T) {
	Convey("Given an approx-policy document with per-stream lower bounds", t, func() {
		raw := []byte(`
streams: 3
policy: approx
queue_size: 5
age_penalty: 0.25
max_interval_duration_ns: 1000000
inter_message_lower_bounds_ns: [100, 200, 300]
`)
		Convey("When it is parsed", func() {
			c, err := Parse(raw)

			Convey("Then it validates and every field is carried through", func() {
				So(err, ShouldBeNil)
				So(c.Streams, ShouldEqual, 3)
				So(c.AgePenalty, ShouldEqual, 0.25)
				So(c.MaxIntervalDurationNs, ShouldEqual, int64(1000000))
				So(c.InterMessageLowerBoundsNs, ShouldResemble, []int64{100, 200, 300})
			})
		})
	})
}

func TestValidateRejectsStreamCountOutOfRange(t *testing.T) {
	Convey("Given a config with a single stream", t, func() {
		c := &Config{Streams: 1, Policy: PolicyExact}

		Convey("When it is validated", func() {
			err := c.Validate()

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestValidateRejectsUnknownPolicy(t *testing.T) {
	Convey("Given a config naming an unrecognized policy", t, func() {
		c := &Config{Streams: 2, Policy: "nearest"}

		Convey("When it is validated", func() {
			err := c.Validate()

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestValidateRejectsApproxZeroQueueSize(t *testing.T) {
	Convey("Given an approx-policy config with queue_size 0", t, func() {
		c := &Config{Streams: 2, Policy: PolicyApprox, QueueSize: 0}

		Convey("When it is validated", func() {
			err := c.Validate()

			Convey("Then it is rejected, unlike the exact policy which allows 0", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestValidateRejectsMismatchedBoundCount(t *testing.T) {
	Convey("Given a config with fewer lower bounds than streams", t, func() {
		c := &Config{
			Streams:                   3,
			Policy:                    PolicyApprox,
			QueueSize:                 5,
			InterMessageLowerBoundsNs: []int64{100, 200},
		}

		Convey("When it is validated", func() {
			err := c.Validate()

			Convey("Then it is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestLoadMissingFile(t *testing.T) {
	Convey("Given a path that does not exist", t, func() {
		Convey("When Load is called", func() {
			_, err := Load("/nonexistent/path/to/config.yaml")

			Convey("Then it returns an error rather than panicking", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
