// Package domainerrors carries the error taxonomy shared by every service.
//
// Services return *Error values built with New or Wrap. Handlers translate
// the Code into an HTTP status with ToHTTPStatus; the message is only shown
// to callers for non-internal codes.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies the kind of failure independently of transport.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"

	// Contract lifecycle
	CodeInvalidTransition   Code = "invalid_transition"
	CodeProviderNotVerified Code = "provider_not_verified"

	// Escrow ledger
	CodeDuplicateDeposit     Code = "duplicate_deposit"
	CodeAlreadyReleased      Code = "already_released"
	CodeNoEscrowFound        Code = "no_escrow_found"
	CodeMilestoneNotApproved Code = "milestone_not_approved"
	CodeUnsupportedMethod    Code = "unsupported_method"
	CodeUnsupportedCurrency  Code = "unsupported_currency"
	CodeRateUnavailable      Code = "rate_unavailable"
	CodeGatewayFailure       Code = "gateway_failure"
)

// Error is a coded domain error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a domain error with the given code.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any error in the chain carries the code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the outermost domain code, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is reports whether err is a domain error. Useful in handlers that need to
// decide whether an error is safe to render.
func Is(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

// ToHTTPStatus maps a code to the HTTP status used by the REST layer.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized, CodeForbidden:
		// Services raise Unauthorized for ownership and role gates on an
		// authenticated caller. Missing credentials are answered with 401 by
		// the auth middleware before any service runs.
		return http.StatusForbidden
	case CodeBadRequest, CodeValidation, CodeInvalidInput,
		CodeUnsupportedMethod, CodeUnsupportedCurrency:
		return http.StatusBadRequest
	case CodeConflict, CodeInvalidTransition, CodeDuplicateDeposit, CodeAlreadyReleased:
		return http.StatusConflict
	case CodeProviderNotVerified, CodeMilestoneNotApproved, CodeNoEscrowFound:
		return http.StatusUnprocessableEntity
	case CodeRateUnavailable, CodeGatewayFailure:
		return http.StatusBadGateway
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
