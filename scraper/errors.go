package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gocolly/colly/v2"

	"github.com/gutenworks/gutencrawl/parser"
)

// FetchError indicates a page request failed. A fetch failure is fatal
// for a crawl: without the page the chain of next links is broken.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Errorf("fetch %s: %w", e.URL, e.Err).Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates the request exceeded its deadline.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %w", e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// ErrHTTPStatus indicates the site answered with an error status.
type ErrHTTPStatus struct {
	Code int
	Err  error
}

func (e ErrHTTPStatus) Error() string {
	return fmt.Errorf("http status %d: %w", e.Code, e.Err).Error()
}

func (e ErrHTTPStatus) Unwrap() error {
	return e.Err
}

// classifyFetchError assigns a transport failure its typed category.
func classifyFetchError(err error, statusCode int) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}
	if statusCode >= http.StatusBadRequest {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("request failed")
		}
		return ErrHTTPStatus{Code: statusCode, Err: wrapped}
	}
	if err == nil {
		return fmt.Errorf("request failed")
	}
	return err
}

// fetchErrorFor wraps a collector callback failure with its page URL and
// classification.
func fetchErrorFor(r *colly.Response, err error) *FetchError {
	statusCode := 0
	pageURL := ""
	if r != nil {
		statusCode = r.StatusCode
		if r.Request != nil && r.Request.URL != nil {
			pageURL = r.Request.URL.String()
		}
	}
	return &FetchError{URL: pageURL, Err: classifyFetchError(err, statusCode)}
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var status ErrHTTPStatus
	if errors.As(err, &status) {
		switch status.Code {
		case http.StatusForbidden:
			return "forbidden"
		case http.StatusNotFound:
			return "not_found"
		case http.StatusTooManyRequests:
			return "rate_limited"
		}
		return "http_error"
	}
	var structural *parser.StructuralError
	if errors.As(err, &structural) {
		return "structure"
	}
	var fetch *FetchError
	if errors.As(err, &fetch) {
		return "fetch"
	}
	return "other"
}
