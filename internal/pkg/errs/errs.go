package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound      = errors.New("object not found")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrValueIsRequired     = errors.New("value is required")
	ErrObjectIsUnavailable = errors.New("object is unavailable")
	ErrOperationIsInvalid  = errors.New("operation is invalid")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrUpstreamFailure     = errors.New("upstream failure")
)

// sanitize keeps user supplied values on a single line inside error messages.
func sanitize(input any) string {
	str := fmt.Sprintf("%v", input)
	return strings.ReplaceAll(str, "\n", " ")
}

// ObjectNotFoundError reports a missing aggregate or external resource.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a value that failed a domain rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
	}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of its inclusive bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value any, minValue any, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value any,
	minValue any,
	maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
	}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ObjectIsUnavailableError reports an object that exists but cannot be used right now,
// for example an inactive product or one without enough stock.
type ObjectIsUnavailableError struct {
	ParamName string
	ID        any
	Reason    string
	Cause     error
}

func NewObjectIsUnavailableError(paramName string, id any, reason string) *ObjectIsUnavailableError {
	return &ObjectIsUnavailableError{
		ParamName: paramName,
		ID:        id,
		Reason:    reason,
	}
}

func NewObjectIsUnavailableErrorWithCause(
	paramName string,
	id any,
	reason string,
	cause error,
) *ObjectIsUnavailableError {
	return &ObjectIsUnavailableError{
		ParamName: paramName,
		ID:        id,
		Reason:    reason,
		Cause:     cause,
	}
}

func (e *ObjectIsUnavailableError) Error() string {
	msg := fmt.Sprintf("%s: %s %s is %s", ErrObjectIsUnavailable, e.ParamName, sanitize(e.ID), e.Reason)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ObjectIsUnavailableError) Unwrap() error {
	return ErrObjectIsUnavailable
}

// OperationIsInvalidError reports an operation that the current state does not permit.
type OperationIsInvalidError struct {
	Operation string
	Reason    string
}

func NewOperationIsInvalidError(operation string, reason string) *OperationIsInvalidError {
	return &OperationIsInvalidError{
		Operation: operation,
		Reason:    reason,
	}
}

func (e *OperationIsInvalidError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrOperationIsInvalid, e.Operation, e.Reason)
}

func (e *OperationIsInvalidError) Unwrap() error {
	return ErrOperationIsInvalid
}

// ConcurrencyConflictError reports a write against a stale optimistic version.
// The caller may reload the object and retry.
type ConcurrencyConflictError struct {
	ParamName       string
	ID              any
	ExpectedVersion int64
}

func NewConcurrencyConflictError(paramName string, id any, expectedVersion int64) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{
		ParamName:       paramName,
		ID:              id,
		ExpectedVersion: expectedVersion,
	}
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s was modified concurrently, expected version %d",
		ErrConcurrencyConflict, e.ParamName, sanitize(e.ID), e.ExpectedVersion)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// UpstreamFailureError reports a dependency that could not be reached or answered unexpectedly.
type UpstreamFailureError struct {
	Service string
	Cause   error
}

func NewUpstreamFailureError(service string, cause error) *UpstreamFailureError {
	return &UpstreamFailureError{
		Service: service,
		Cause:   cause,
	}
}

func (e *UpstreamFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrUpstreamFailure, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrUpstreamFailure, e.Service)
}

func (e *UpstreamFailureError) Unwrap() error {
	return ErrUpstreamFailure
}
