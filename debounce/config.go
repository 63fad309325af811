package debounce

import (
	"time"
)

// Config describes a debouncer, and can be decoded from YAML:
//
//	wait: 200ms
//	immediate: true
type Config struct {
	Wait      time.Duration `yaml:"wait"`
	Immediate bool          `yaml:"immediate"`
}

// Options returns the options matching c.
func (c Config) Options() []Option {
	if c.Immediate {
		return []Option{Immediate()}
	}

	return nil
}

// New returns a debounced function and its cancel function configured by c.
// Additional options are applied after the ones derived from c.
func (c *Config) New(
	f func(),
	opts ...Option,
) (debounced func(), cancel func(), err error) {
	if c == nil {
		c = &Config{}
	}

	return New(c.Wait, f, append(c.Options(), opts...)...)
}
