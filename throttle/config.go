package throttle

import (
	"time"
)

// Config describes a throttler, and can be decoded from YAML:
//
//	wait: 100ms
//	leading: false
//
// Leading and Trailing default to true when nil.
type Config struct {
	Wait     time.Duration `yaml:"wait"`
	Leading  *bool         `yaml:"leading"`
	Trailing *bool         `yaml:"trailing"`
}

// Options returns the options matching c.
func (c Config) Options() []Option {
	var opts []Option
	if c.Leading != nil {
		opts = append(opts, WithLeading(*c.Leading))
	}
	if c.Trailing != nil {
		opts = append(opts, WithTrailing(*c.Trailing))
	}

	return opts
}

// New returns a throttled function and its cancel function configured by c.
// Additional options are applied after the ones derived from c.
func (c *Config) New(
	f func(),
	opts ...Option,
) (throttled func(), cancel func(), err error) {
	if c == nil {
		c = &Config{}
	}

	return New(c.Wait, f, append(c.Options(), opts...)...)
}
