// Package httpx provides outbound HTTP decorators: a circuit breaker and
// an opt-in retry wrapper. The weather and geocoding clients never retry
// on their own; a caller that wants retries composes RetryDoer around the
// shared client.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Doer executes an HTTP request.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var errCircuitOpen = errors.New("circuit breaker open")

// BreakerDoer fails fast once the upstream has produced enough transport
// errors, instead of hammering a provider that is down.
type BreakerDoer struct {
	next    Doer
	circuit *gobreaker.CircuitBreaker
}

// NewBreakerDoer wraps next with a named circuit breaker.
func NewBreakerDoer(next Doer, name string) *BreakerDoer {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &BreakerDoer{next: next, circuit: cb}
}

func (d *BreakerDoer) Do(req *http.Request) (*http.Response, error) {
	result, err := d.circuit.Execute(func() (interface{}, error) {
		return d.next.Do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}
	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// RetryDoer retries transport failures and 5xx responses with a fixed
// delay between attempts. Requests with a body are not retried since the
// body is consumed on the first attempt.
type RetryDoer struct {
	next     Doer
	attempts int
	delay    time.Duration
}

// NewRetryDoer wraps next with attempts total tries and a fixed delay
// between them.
func NewRetryDoer(next Doer, attempts int, delay time.Duration) *RetryDoer {
	if attempts <= 0 {
		attempts = 1
	}
	return &RetryDoer{next: next, attempts: attempts, delay: delay}
}

func (d *RetryDoer) Do(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		return d.next.Do(req)
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt < d.attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(d.delay)
			select {
			case <-req.Context().Done():
				timer.Stop()
				return nil, req.Context().Err()
			case <-timer.C:
			}
		}

		resp, err = d.next.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return nil, err
			}
			continue
		}
		if resp.StatusCode >= 500 && attempt < d.attempts-1 {
			resp.Body.Close()
			continue
		}
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
