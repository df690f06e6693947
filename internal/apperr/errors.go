// Package apperr defines the error kinds surfaced by the API.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing client input. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// GatewayError reports a failed call to the completion service.
// Timeout distinguishes an exceeded wait bound from other failures so
// callers can present a different message.
type GatewayError struct {
	Err     error
	Timeout bool
}

func (e *GatewayError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("completion gateway timed out: %v", e.Err)
	}
	return fmt.Sprintf("completion gateway failed: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// StoreError reports a persistence-layer failure during a request.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Store wraps err as a StoreError for the named operation.
func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsGatewayTimeout reports whether err is a GatewayError caused by an
// exceeded wait bound.
func IsGatewayTimeout(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Timeout
}

// IsGateway reports whether err is any GatewayError.
func IsGateway(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
