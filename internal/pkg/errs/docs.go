// Package errs provides the error types shared by the ordering service.
//
// Every type follows the same pattern: a sentinel variable (ErrObjectNotFound,
// ErrConcurrencyConflict, ...), a struct carrying the details, constructors with
// and without a cause, and an Unwrap method returning the sentinel so callers
// classify failures with errors.Is and read details with errors.As.
//
// The kinds map onto the failures the order core reports:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: unknown order or catalog product
//   - ObjectIsUnavailableError: inactive product or insufficient stock
//   - OperationIsInvalidError: a status transition the state machine rejects
//   - ConcurrencyConflictError: a write against a stale version, safe to retry
//   - UpstreamFailureError: the catalog could not be reached or answered unexpectedly
//
// The HTTP adapter translates each kind to its own status code.
package errs
