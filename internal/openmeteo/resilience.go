package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agrofleet/weather-gateway/internal/weather"
)

// BackoffConfig controls the retry loop around upstream calls.
type BackoffConfig struct {
	MaxRetries int           // additional attempts after the first
	Interval   time.Duration // fixed delay between attempts
}

var errServerError = errors.New("upstream server error")

// doRequestWithResilience executes the request with a fixed-interval retry
// loop and a circuit breaker. A 4xx response is never retried: the upstream
// is telling us the parameters are bad. Network failures and 5xx responses
// are retried until the budget runs out, which surfaces as
// KindUpstreamUnavailable.
func doRequestWithResilience(
	ctx context.Context,
	client *http.Client,
	backoff BackoffConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, weather.Errorf(weather.KindUpstreamUnavailable, "upstream call abandoned: %v", ctx.Err())
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if resp.StatusCode >= 500 {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: status %d", errServerError, resp.StatusCode)
			}
			return resp, nil
		})

		if err == nil {
			resp := result.(*http.Response)
			if resp.StatusCode >= 400 {
				// Bad parameters after resolution; the breaker does not
				// count this as an upstream failure.
				reason := readErrorReason(resp)
				return nil, weather.Errorf(weather.KindUpstreamRejected,
					"upstream rejected request: status %d%s", resp.StatusCode, reason)
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, weather.Errorf(weather.KindUpstreamUnavailable, "upstream circuit open: %v", err)
		}

		lastErr = err
		if attempt >= backoff.MaxRetries {
			return nil, weather.Errorf(weather.KindUpstreamUnavailable,
				"upstream unavailable after %d attempts: %v", attempt+1, lastErr)
		}

		timer := time.NewTimer(backoff.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, weather.Errorf(weather.KindUpstreamUnavailable, "upstream call abandoned: %v", ctx.Err())
		case <-timer.C:
		}
		attempt++
	}
}

// readErrorReason drains a rejected response and pulls the provider's
// reason field when present. Open-Meteo reports errors as
// {"error": true, "reason": "..."}.
func readErrorReason(resp *http.Response) string {
	defer resp.Body.Close()

	var payload struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil && payload.Reason != "" {
		return ": " + payload.Reason
	}
	return ""
}
