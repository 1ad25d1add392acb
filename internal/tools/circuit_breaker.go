package tools

import (
	"errors"

	"github.com/sony/gobreaker"
)

// ErrSearchUnavailable is returned while the breaker is open and the search
// dependency is being given time to recover. It is an ordinary per-call
// failure, distinct from the fatal quota signal.
var ErrSearchUnavailable = errors.New("search temporarily unavailable")

// SearchBreaker guards the search dependency against hammering a failing
// API. Quota exhaustion does not benefit from retries either, so it counts
// as a failure like any other; callers distinguish it by errors.Is.
type SearchBreaker struct {
	breaker *gobreaker.TwoStepCircuitBreaker
}

// NewSearchBreaker creates a breaker that opens after 3 consecutive failures
// and probes again after 30 seconds.
func NewSearchBreaker() *SearchBreaker {
	return &SearchBreaker{
		breaker: gobreaker.NewTwoStepCircuitBreaker(gobreaker.Settings{
			Name:        "search",
			MaxRequests: 2,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Execute runs fn through the breaker. While the circuit is open it returns
// ErrSearchUnavailable without invoking fn.
func (b *SearchBreaker) Execute(fn func() (string, error)) (string, error) {
	done, err := b.breaker.Allow()
	if err != nil {
		return "", ErrSearchUnavailable
	}
	result, err := fn()
	done(err == nil)
	if err != nil {
		return "", err
	}
	return result, nil
}

// State returns the breaker state as a string: closed, open or half-open.
func (b *SearchBreaker) State() string {
	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
