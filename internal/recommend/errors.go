// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/bolgeo/internal/platform/apperr"
)

// Sentinel error classes. Concrete failures wrap exactly one of them.
var (
	// ErrRateLimited marks a completion rejected with HTTP 429 or RESOURCE_EXHAUSTED.
	ErrRateLimited = errors.New("recommend: completion rate limited")

	// ErrTransport marks any other failure to obtain a completion.
	ErrTransport = errors.New("recommend: completion transport failed")

	// ErrMalformedResponse marks completion text that is not the expected JSON.
	ErrMalformedResponse = errors.New("recommend: malformed completion output")
)

// StatusResourceExhausted is the Google API status carried by quota errors.
const StatusResourceExhausted = "RESOURCE_EXHAUSTED"

// StatusError is a non-2xx answer of the completion endpoint.
type StatusError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion endpoint returned %d %s: %s", e.StatusCode, e.Status, e.Message)
}

// RateLimited reports whether the answer is a quota rejection.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Status == StatusResourceExhausted
}

// Unwrap classifies the error as [ErrRateLimited] or [ErrTransport].
func (e *StatusError) Unwrap() error {
	if e.RateLimited() {
		return ErrRateLimited
	}
	return ErrTransport
}

// IsRateLimited reports whether err is a retryable rate limit.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// toAppError maps a pipeline failure onto the API error taxonomy.
func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperr.IsAppError(err):
		return err
	case IsRateLimited(err):
		return apperr.RateLimited(int(Backoff(MaxRetries).Seconds())).WithCause(err)
	case errors.Is(err, ErrMalformedResponse):
		return apperr.Upstream(apperr.CodeMalformedResponse, "The recommendation could not be read", err)
	default:
		return apperr.Upstream(apperr.CodeUpstream, "The recommendation service is unavailable", err)
	}
}
