// SPDX-License-Identifier: GPL-2.0-or-later

package external

import (
	"context"
	"errors"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/owntone/go-libretune-server/internal/apperr"
	"github.com/owntone/go-libretune-server/internal/logging"
	"github.com/owntone/go-libretune-server/internal/metrics"
)

// CircuitBreakerTranscoder wraps a Transcoder so a failing or wedged
// transcoder stops taking new stream requests instead of letting every
// request hang or fail slowly. Per spec §7, a transcoder failure is class
// External: logged, and the handler returns a 500-class protocol error
// rather than retrying internally.
type CircuitBreakerTranscoder struct {
	next Transcoder
	cb   *gobreaker.CircuitBreaker[io.ReadCloser]
	name string
}

// NewCircuitBreakerTranscoder wraps next with a breaker that opens after a
// 60% failure rate over at least 10 requests, matching the teacher's
// collaborator-breaker tuning.
func NewCircuitBreakerTranscoder(next Transcoder) *CircuitBreakerTranscoder {
	name := "transcoder"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[io.ReadCloser](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("from", stateName(from)).Str("to", stateName(to)).Msg("transcoder circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateName(from), stateName(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerTranscoder{next: next, cb: cb, name: name}
}

// StreamItem calls the wrapped transcoder through the breaker, translating
// a rejected or failed call into an apperr.External.
func (c *CircuitBreakerTranscoder) StreamItem(ctx context.Context, itemID int64, rangeHeader string) (io.ReadCloser, error) {
	stream, err := c.cb.Execute(func() (io.ReadCloser, error) {
		return c.next.StreamItem(ctx, itemID, rangeHeader)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
			counts := c.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, apperr.New(apperr.External, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	return stream, nil
}

func stateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
