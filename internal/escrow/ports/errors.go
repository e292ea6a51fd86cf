package ports

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCategory normalizes failures from external collaborators so the
// ledger can log and count them without knowing which adapter produced them.
type ErrorCategory string

const (
	ErrorDeclined    ErrorCategory = "declined"     // processor refused the charge
	ErrorTimeout     ErrorCategory = "timeout"      // no answer within the deadline
	ErrorUnavailable ErrorCategory = "unavailable"  // 5xx, connection refused, breaker open
	ErrorRateLimited ErrorCategory = "rate_limited" // 429
	ErrorBadResponse ErrorCategory = "bad_response" // undecodable or incomplete body
	ErrorNotFound    ErrorCategory = "not_found"
	ErrorInternal    ErrorCategory = "internal"
)

// ExternalError wraps a collaborator failure with its category.
type ExternalError struct {
	Category     ErrorCategory
	Collaborator string
	Message      string
	Underlying   error
	Retryable    bool
}

func (e *ExternalError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Collaborator, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Collaborator, e.Category, e.Message)
}

func (e *ExternalError) Unwrap() error {
	return e.Underlying
}

func NewExternalError(category ErrorCategory, collaborator, message string, underlying error) *ExternalError {
	return &ExternalError{
		Category:     category,
		Collaborator: collaborator,
		Message:      message,
		Underlying:   underlying,
		Retryable:    isRetryableCategory(category),
	}
}

func isRetryableCategory(category ErrorCategory) bool {
	switch category {
	case ErrorTimeout, ErrorUnavailable, ErrorRateLimited:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a collaborator failure worth retrying.
func IsRetryable(err error) bool {
	var ee *ExternalError
	if errors.As(err, &ee) {
		return ee.Retryable
	}
	return false
}

// CategoryOf extracts the category, defaulting to ErrorInternal.
func CategoryOf(err error) ErrorCategory {
	var ee *ExternalError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return ErrorInternal
}

// ClassifyHTTPStatus maps a non-success response status to a category.
func ClassifyHTTPStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusPaymentRequired, status == http.StatusUnprocessableEntity:
		return ErrorDeclined
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return ErrorTimeout
	case status >= 500:
		return ErrorUnavailable
	default:
		return ErrorBadResponse
	}
}

// ClassifyTransportError maps an error from http.Client.Do to a category.
func ClassifyTransportError(err error) ErrorCategory {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout
	}
	return ErrorUnavailable
}
