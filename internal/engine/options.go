package engine

import (
	"context"

	"github.com/dshills/bstviz/internal/engine/history"
)

// Default configuration values.
const (
	DefaultMaxHistory = history.DefaultMaxEntries
	DefaultMinValue   = -9999
	DefaultMaxValue   = 9999
	DefaultMaxSize    = 100
	DefaultSource     = "engine"
)

// Publisher receives engine events after each state change.
// *event.Bus satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, event any) error
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithMaxHistory sets the maximum number of undo entries.
func WithMaxHistory(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxHistory = max
		}
	}
}

// WithValueRange sets the inclusive range of accepted values.
// Ranges with min greater than max are ignored.
func WithValueRange(min, max int) Option {
	return func(e *Engine) {
		if min <= max {
			e.minValue = min
			e.maxValue = max
		}
	}
}

// WithMaxSize sets the maximum number of nodes the tree may hold.
func WithMaxSize(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxSize = max
		}
	}
}

// WithPublisher sets the destination for engine events.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithSource sets the source name stamped on published events.
func WithSource(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.source = name
		}
	}
}

// WithValidation makes the engine check every tree invariant after each
// mutation and panic on violation. Intended for tests.
func WithValidation() Option {
	return func(e *Engine) {
		e.validate = true
	}
}
