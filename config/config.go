// Package config loads the declarative description of a synchronizer that,
// in a deployed filter graph, would otherwise be wired up in code: stream
// count, policy choice, queue sizes, and the approximate-time tuning knobs.
// It plays the role the teacher's BQL "CREATE ... WITH key=value" statements
// play for a streaming topology, but expressed as YAML since this module
// has no query language front-end (see DESIGN.md).
package config

import (
	"fmt"
	"os"

	"github.com/CursedRock17/message-filters/core"
	"gopkg.in/yaml.v3"
)

// Policy names the synchronization policy a Config selects.
type Policy string

const (
	PolicyExact  Policy = "exact"
	PolicyApprox Policy = "approx"
)

// Config describes a single synchronizer to construct.
type Config struct {
	Streams   int    `yaml:"streams"`
	Policy    Policy `yaml:"policy"`
	QueueSize int    `yaml:"queue_size"`

	// Approx-only fields; zero values mean "use the synchronizer's default".
	AgePenalty                float64 `yaml:"age_penalty"`
	MaxIntervalDurationNs     int64   `yaml:"max_interval_duration_ns"`
	InterMessageLowerBoundsNs []int64 `yaml:"inter_message_lower_bounds_ns"`
}

// Load reads and validates a Config from a YAML file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(b)
}

// Parse validates a Config from raw YAML bytes.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parsing yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the fail-fast, programming-error-class constraints spec.md
// §7 calls out, before any synchronizer is constructed from this Config.
func (c *Config) Validate() error {
	if c.Streams < 2 || c.Streams > 9 {
		return core.NewProgrammingError("streams must be in [2, 9], got %d", c.Streams)
	}
	switch c.Policy {
	case PolicyExact:
		if c.QueueSize < 0 {
			return core.NewProgrammingError("queue_size must be >= 0, got %d", c.QueueSize)
		}
	case PolicyApprox:
		if c.QueueSize <= 0 {
			return core.NewProgrammingError("queue_size must be > 0 for the approx policy, got %d", c.QueueSize)
		}
	default:
		return core.NewProgrammingError("unknown policy %q, expected %q or %q", c.Policy, PolicyExact, PolicyApprox)
	}
	if c.AgePenalty < 0 {
		return core.NewProgrammingError("age_penalty must be >= 0, got %v", c.AgePenalty)
	}
	if c.MaxIntervalDurationNs < 0 {
		return core.NewProgrammingError("max_interval_duration_ns must be >= 0, got %d", c.MaxIntervalDurationNs)
	}
	for i, b := range c.InterMessageLowerBoundsNs {
		if b < 0 {
			return core.NewProgrammingError("inter_message_lower_bounds_ns[%d] must be >= 0, got %d", i, b)
		}
	}
	if len(c.InterMessageLowerBoundsNs) > 0 && len(c.InterMessageLowerBoundsNs) != c.Streams {
		return core.NewProgrammingError(
			"inter_message_lower_bounds_ns must have one entry per stream (%d), got %d",
			c.Streams, len(c.InterMessageLowerBoundsNs))
	}
	return nil
}
