package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	maxAttempts     = 4
	maxBackoff      = 10 * time.Second
	maxErrBodyBytes = 4096
)

// httpStatusError is a non-2xx ORS response. Message is taken from the ORS
// error envelope when present, else the raw body.
type httpStatusError struct {
	Code       int
	Message    string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ors: status %d: %s", e.Code, e.Message)
}

func (o *ORSDistanceProvider) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// send issues one request and turns error statuses into *httpStatusError.
func (o *ORSDistanceProvider) send(req *http.Request) (*http.Response, error) {
	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))

	return nil, &httpStatusError{
		Code:       resp.StatusCode,
		Message:    orsErrorMessage(b),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
}

// orsErrorMessage extracts the message from {"error": "..."} or
// {"error": {"code": n, "message": "..."}} bodies.
func orsErrorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		var s string
		if json.Unmarshal(envelope.Error, &s) == nil && s != "" {
			return s
		}
		var detail struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &detail) == nil && detail.Message != "" {
			return fmt.Sprintf("%s (code %d)", detail.Message, detail.Code)
		}
	}
	return strings.TrimSpace(string(body))
}

// parseRetryAfter accepts the delay-seconds form only; dates are ignored.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxBackoff)
}

// isRetryable reports transient failures: rate limiting, 5xx gateway errors,
// and network errors.
func isRetryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryDelay is the exponential backoff for attempt, raised to the server's
// Retry-After when that is longer, and capped at maxBackoff.
func (o *ORSDistanceProvider) retryDelay(attempt int, err error) time.Duration {
	d := o.backoff << (attempt - 1)
	if d <= 0 || d > maxBackoff {
		d = maxBackoff
	}

	var he *httpStatusError
	if errors.As(err, &he) && he.RetryAfter > d {
		d = he.RetryAfter
	}
	return d
}

// doWithRetry retries transient failures while respecting context
// cancellation. makeReq is called per attempt so request bodies are fresh.
func (o *ORSDistanceProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := o.send(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		delay := o.retryDelay(attempt, err)
		log.Debug().Int("attempt", attempt).Dur("delay", delay).Err(err).Msg("ors request failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}
