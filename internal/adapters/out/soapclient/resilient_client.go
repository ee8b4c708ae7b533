package soapclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"

	"github.com/sony/gobreaker"
)

const (
	breakerConsecutiveFailures = 5
	breakerOpenTimeout         = 30 * time.Second
	breakerHalfOpenRequests    = 1
)

// ResilientClient decorates a WebserviceClient with a per-target circuit
// breaker and an optional per-call timeout. Each (country, type) pair gets
// its own breaker: one misbehaving authority operation must not block the
// rest.
//
// Only connection-level failures trip the breaker. An authority rejection
// means the endpoint is alive and answering, so it counts as a success for
// breaker purposes even though the submission failed.
type ResilientClient struct {
	inner       ports.WebserviceClient
	callTimeout time.Duration
	logger      *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewResilientClient decorates inner. callTimeout zero means the caller's
// context deadline is the only limit.
func NewResilientClient(inner ports.WebserviceClient, callTimeout time.Duration, logger *slog.Logger) *ResilientClient {
	return &ResilientClient{
		inner:       inner,
		callTimeout: callTimeout,
		logger:      logger.With("component", "resilient-client"),
		breakers:    make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (c *ResilientClient) Send(ctx context.Context, request ports.SendRequest) (ports.SendResult, error) {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	breaker := c.breakerFor(request.Country, request.WebserviceType)

	var result ports.SendResult
	var sendErr error
	_, err := breaker.Execute(func() (interface{}, error) {
		result, sendErr = c.inner.Send(ctx, request)
		if errors.Is(sendErr, errs.ErrNetworkTimeout) || errors.Is(sendErr, errs.ErrTransport) {
			return nil, sendErr
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ports.SendResult{}, errs.NewTransportError(
			breakerName(request.Country, request.WebserviceType), err)
	}

	// Failed calls still carry their partial payloads for the audit trail.
	return result, sendErr
}

func (c *ResilientClient) breakerFor(country kernel.Country, wsType kernel.WebserviceType) *gobreaker.CircuitBreaker {
	name := breakerName(country, wsType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if breaker, ok := c.breakers[name]; ok {
		return breaker
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: breakerHalfOpenRequests,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				"target", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	c.breakers[name] = breaker
	return breaker
}

func breakerName(country kernel.Country, wsType kernel.WebserviceType) string {
	return fmt.Sprintf("%s|%s", country, wsType)
}
