// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Sentinel errors for status classes the pipeline cares about.
var (
	ErrRateLimited = errors.New("rate limited")
	ErrUnavailable = errors.New("service unavailable")
	ErrNotFound    = errors.New("not found")
)

// StatusError is returned when a remote service answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned HTTP %d: %s", e.Service, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned HTTP %d", e.Service, e.StatusCode)
}

// Is maps status codes onto the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrUnavailable:
		return e.StatusCode >= 500
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Outcome labels used in logs and metrics.
const (
	OutcomeOK        = "ok"
	OutcomeTimeout   = "timeout"
	OutcomeCanceled  = "canceled"
	OutcomeStatus    = "status"
	OutcomeDecode    = "decode"
	OutcomeTransport = "transport"
)

// DecodeError wraps a response body that could not be parsed.
type DecodeError struct {
	Service string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("parsing %s response: %v", e.Service, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Classify maps an error from a remote call onto an outcome label. A nil
// error is OutcomeOK.
func Classify(err error) string {
	if err == nil {
		return OutcomeOK
	}

	var statusErr *StatusError
	var decodeErr *DecodeError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.As(err, &statusErr):
		return OutcomeStatus
	case errors.As(err, &decodeErr):
		return OutcomeDecode
	case errors.As(err, &netErr) && netErr.Timeout():
		return OutcomeTimeout
	default:
		return OutcomeTransport
	}
}

// GetJSON issues a GET to url with its own deadline and decodes a 200
// response body into v. Any other status yields a *StatusError; a body that
// does not parse yields a *DecodeError. A zero timeout leaves the caller's
// deadline in place.
func GetJSON(ctx context.Context, client *http.Client, service, url, userAgent string, timeout time.Duration, v any) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Service: service, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &DecodeError{Service: service, Err: err}
	}
	return nil
}

// ReadError builds a *StatusError for resp, including up to 512 bytes of the
// body for diagnostics. The caller still owns resp.Body.
func ReadError(service string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}
}
