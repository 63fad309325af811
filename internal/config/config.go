// Package config loads the YAML description of a debouncer or throttler used
// by the ratefunc command.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/romdo/go-ratefunc/debounce"
	"github.com/romdo/go-ratefunc/throttle"
)

// Kinds of rate-limited function a config can describe.
const (
	KindDebounce = "debounce"
	KindThrottle = "throttle"
)

// ErrUnknownKind is returned when kind is neither debounce nor throttle.
var ErrUnknownKind = errors.New("config: kind must be debounce or throttle")

// Root is the top level of a ratefunc YAML file.
type Root struct {
	Kind     string          `yaml:"kind"`
	Name     string          `yaml:"name"`
	LogLevel string          `yaml:"log_level"` // "debug","info","warn","error"
	Debounce debounce.Config `yaml:"debounce"`
	Throttle throttle.Config `yaml:"throttle"`
}

// Wait returns the wait duration of the configured kind.
func (r *Root) Wait() time.Duration {
	if r.Kind == KindThrottle {
		return r.Throttle.Wait
	}

	return r.Debounce.Wait
}

// Load reads and parses the YAML config at path.
func Load(path string) (*Root, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(b)
}

// Parse decodes a YAML config and applies defaults: kind debounce, name
// equal to the kind, and log level info.
func Parse(b []byte) (*Root, error) {
	var cfg Root
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.Kind {
	case "":
		cfg.Kind = KindDebounce
	case KindDebounce, KindThrottle:
	default:
		return nil, fmt.Errorf("%w, got %q", ErrUnknownKind, cfg.Kind)
	}

	if cfg.Name == "" {
		cfg.Name = cfg.Kind
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return &cfg, nil
}
