package wave

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeLimit bounds a whole search.
	DefaultTimeLimit = 10 * time.Minute
	// DefaultEpsilon is the tolerance for matching the per-k ratio bound.
	DefaultEpsilon = 1e-8
)

// Observer receives search progress. Implementations must be cheap; they are
// called synchronously from the search loop.
type Observer interface {
	ObserveAttempt(Attempt)
	ObserveResult(*Result)
}

// Option configures a Search.
type Option func(*searchConfig)

type searchConfig struct {
	logger           *zap.Logger
	observer         Observer
	timeLimit        time.Duration
	epsilon          float64
	includeAllAisles bool
	boundPruning     bool
}

func defaultSearchConfig() *searchConfig {
	return &searchConfig{
		logger:       zap.NewNop(),
		timeLimit:    DefaultTimeLimit,
		epsilon:      DefaultEpsilon,
		boundPruning: true,
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *searchConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option {
	return func(c *searchConfig) {
		c.observer = o
	}
}

// WithTimeLimit bounds the whole search. Zero or negative means only the
// caller's context limits it.
func WithTimeLimit(d time.Duration) Option {
	return func(c *searchConfig) {
		c.timeLimit = d
	}
}

// WithEpsilon sets the tolerance used to detect that a k attains its bound.
func WithEpsilon(eps float64) Option {
	return func(c *searchConfig) {
		c.epsilon = eps
	}
}

// WithIncludeAllAisles extends the aisle-count range from
// 1..NumAisles-1 to 1..NumAisles.
func WithIncludeAllAisles(include bool) Option {
	return func(c *searchConfig) {
		c.includeAllAisles = include
	}
}

// WithBoundPruning enables stopping before k once Upper/k can no longer
// beat the best ratio found.
func WithBoundPruning(enabled bool) Option {
	return func(c *searchConfig) {
		c.boundPruning = enabled
	}
}
