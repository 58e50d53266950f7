package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Failure kinds. Every error returned by a vendor provider is an *Error
// whose Kind is one of these, so callers match with errors.Is.
var (
	ErrRateLimit           = errors.New("rate limited")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrInvalidResponse     = errors.New("invalid response")
	ErrTruncated           = errors.New("response truncated")
	ErrRejected            = errors.New("request rejected")
)

// Error is a failed provider call.
type Error struct {
	Kind       error
	Provider   string
	Status     int
	RetryAfter time.Duration

	// Content is the rejected model output for ErrInvalidResponse and
	// ErrTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.RetryAfter > 0 {
		fmt.Fprintf(&b, ", retry after %s", e.RetryAfter)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a short label for the failure kind of err, or "" when
// err is not a provider failure.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimit):
		return "rate_limit"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrRejected):
		return "rejected"
	}
	return ""
}

// statusError classifies a vendor failure by HTTP status. A zero status
// means the request never got an answer.
func statusError(provider string, status int, header http.Header, err error) *Error {
	e := &Error{Provider: provider, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = ErrRateLimit
		e.RetryAfter = retryAfter(header)
	case status == http.StatusRequestTimeout, status == 0, status >= 500:
		e.Kind = ErrProviderUnavailable
	default:
		e.Kind = ErrRejected
	}
	return e
}

func invalidResponse(provider string, content json.RawMessage, format string, args ...any) *Error {
	return &Error{
		Kind:     ErrInvalidResponse,
		Provider: provider,
		Content:  content,
		Err:      fmt.Errorf(format, args...),
	}
}

// retryAfter reads a Retry-After header given in seconds or as an HTTP date.
func retryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}
