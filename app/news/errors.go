package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies strategy failures so the orchestrator can branch
// on kind instead of matching message text.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota // network error, non-2xx, bad payload
	KindRateLimited
	KindAuthInvalid
	KindTimeout
	KindEmptyResult
	KindNotConfigured
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuthInvalid:
		return "auth_invalid"
	case KindTimeout:
		return "timeout"
	case KindEmptyResult:
		return "empty_result"
	case KindNotConfigured:
		return "not_configured"
	default:
		return "upstream"
	}
}

// FetchError is a classified strategy failure.
type FetchError struct {
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewFetchError(kind ErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

// KindFromStatus maps an HTTP status code to an error kind.
func KindFromStatus(code int) ErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthInvalid
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindUpstream
	}
}

// KindOf classifies an arbitrary error. Unclassified errors are treated
// as transient upstream failures.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUpstream
}

// ErrUnknownSource is returned when a source id is not registered.
var ErrUnknownSource = errors.New("unknown source")

// ExhaustedError is raised when every strategy of a chain has failed.
// It carries each strategy's last failure reason for diagnosability.
type ExhaustedError struct {
	Source  string
	Reasons []string
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("source %s: all strategies failed: %s", e.Source, strings.Join(e.Reasons, "; "))
}
