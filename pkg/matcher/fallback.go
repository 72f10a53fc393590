package matcher

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/soundprediction/ontograph/pkg/config"
	"github.com/soundprediction/ontograph/pkg/types"
)

// FallbackMatcher routes match requests to a primary backend and falls
// back to a secondary backend when the primary fails at runtime. A circuit
// breaker around the primary stops hammering a backend that keeps failing;
// while the breaker is open, requests go straight to the secondary.
//
// The backend that actually served the most recent call is exposed via
// LastBackend.
type FallbackMatcher struct {
	primary   Matcher
	secondary Matcher
	cb        *gobreaker.CircuitBreaker
	logger    *slog.Logger

	mu          sync.RWMutex
	lastBackend string
}

// NewFallbackMatcher wraps primary and secondary matchers with fallback
// routing. With cfg.Enabled false the circuit breaker is omitted and every
// call tries the primary first.
func NewFallbackMatcher(primary, secondary Matcher, cfg config.CircuitBreakerConfig, logger *slog.Logger) *FallbackMatcher {
	if logger == nil {
		logger = slog.Default()
	}

	f := &FallbackMatcher{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}

	if cfg.Enabled {
		st := gobreaker.Settings{
			Name:        "matcher-primary",
			MaxRequests: cfg.MaxRequests,
			Interval:    time.Duration(cfg.Interval) * time.Second,
			Timeout:     time.Duration(cfg.Timeout) * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("matcher circuit breaker state change",
					"breaker", name, "from", from.String(), "to", to.String())
			},
		}
		f.cb = gobreaker.NewCircuitBreaker(st)
	}

	return f
}

// Initialize initializes both backends. A construction failure in either
// backend is surfaced; fallback routing covers runtime failures only.
func (f *FallbackMatcher) Initialize(groups []types.PatternGroup) error {
	if err := f.primary.Initialize(groups); err != nil {
		return fmt.Errorf("primary matcher (%s): %w", f.primary.MatcherType(), err)
	}
	if err := f.secondary.Initialize(groups); err != nil {
		return fmt.Errorf("secondary matcher (%s): %w", f.secondary.MatcherType(), err)
	}
	return nil
}

// FindMatches tries the primary backend, falling back to the secondary on
// any error. Only a failure of both backends is reported to the caller.
func (f *FallbackMatcher) FindMatches(text string) ([]types.ToolMatch, error) {
	matches, err := f.callPrimary(text)
	if err == nil {
		f.record(f.primary.MatcherType(), len(matches))
		return matches, nil
	}

	f.logger.Warn("primary matcher failed, falling back",
		"primary", f.primary.MatcherType(),
		"secondary", f.secondary.MatcherType(),
		"error", err)
	fallbacksTotal.Inc()

	matches, ferr := f.secondary.FindMatches(text)
	if ferr != nil {
		return nil, fmt.Errorf("primary failed (%v); secondary failed: %w", err, ferr)
	}
	f.record(f.secondary.MatcherType(), len(matches))
	return matches, nil
}

func (f *FallbackMatcher) callPrimary(text string) ([]types.ToolMatch, error) {
	if f.cb == nil {
		return f.primary.FindMatches(text)
	}
	result, err := f.cb.Execute(func() (interface{}, error) {
		return f.primary.FindMatches(text)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.ToolMatch), nil
}

func (f *FallbackMatcher) record(backend string, matchCount int) {
	f.mu.Lock()
	f.lastBackend = backend
	f.mu.Unlock()

	requestsTotal.WithLabelValues(backend).Inc()
	matchesTotal.Add(float64(matchCount))
}

// LastBackend returns the backend that served the most recent FindMatches
// call, or "" if none has completed yet.
func (f *FallbackMatcher) LastBackend() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lastBackend
}

// MatcherType implements Matcher.
func (f *FallbackMatcher) MatcherType() string {
	return BackendFallback
}
