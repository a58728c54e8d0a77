package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error codes of the API.
const (
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeNotFound                = "NOT_FOUND"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeConcurrentModification  = "CONCURRENT_MODIFICATION"
	CodeProductUnavailable      = "PRODUCT_UNAVAILABLE"
	CodeUpstreamFailure         = "UPSTREAM_FAILURE"
	CodeInternalError           = "INTERNAL_ERROR"
)

const (
	messageValidationFailed = "Validation failed"
	messageUpstreamFailure  = "The product catalog is currently unavailable"
	messageInternalError    = "An unexpected error occurred"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Timestamp   time.Time         `json:"timestamp"`
	Status      int               `json:"status"`
	Error       string            `json:"error"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Path        string            `json:"path"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// translation is one row of the error table.
type translation struct {
	kind    error
	status  int
	code    string
	message func(err error) string
}

func ownMessage(err error) string {
	return err.Error()
}

func fixedMessage(message string) func(error) string {
	return func(error) string {
		return message
	}
}

// translations maps error kinds to answers. The first matching row wins.
var translations = []translation{
	{kind: errs.ErrValueIsRequired, status: http.StatusBadRequest, code: CodeValidationFailed, message: fixedMessage(messageValidationFailed)},
	{kind: errs.ErrValueIsInvalid, status: http.StatusBadRequest, code: CodeValidationFailed, message: fixedMessage(messageValidationFailed)},
	{kind: errs.ErrValueIsOutOfRange, status: http.StatusBadRequest, code: CodeValidationFailed, message: fixedMessage(messageValidationFailed)},
	{kind: errs.ErrObjectNotFound, status: http.StatusNotFound, code: CodeNotFound, message: ownMessage},
	{kind: errs.ErrOperationIsInvalid, status: http.StatusConflict, code: CodeInvalidStatusTransition, message: ownMessage},
	{kind: errs.ErrConcurrencyConflict, status: http.StatusConflict, code: CodeConcurrentModification, message: ownMessage},
	{kind: errs.ErrObjectIsUnavailable, status: http.StatusUnprocessableEntity, code: CodeProductUnavailable, message: ownMessage},
	{kind: errs.ErrUpstreamFailure, status: http.StatusBadGateway, code: CodeUpstreamFailure, message: fixedMessage(messageUpstreamFailure)},
}

// Translate maps err to the answer sent to the client. Errors of no known kind
// become a 500 without any internal detail.
func Translate(err error, path string, now time.Time) ErrorResponse {
	response := ErrorResponse{
		Timestamp: now.UTC(),
		Path:      path,
	}

	for _, row := range translations {
		if !errors.Is(err, row.kind) {
			continue
		}
		response.Status = row.status
		response.Code = row.code
		response.Message = row.message(err)
		if row.code == CodeValidationFailed {
			response.FieldErrors = fieldErrors(err)
		}
		response.Error = http.StatusText(row.status)
		return response
	}

	response.Status = http.StatusInternalServerError
	response.Code = CodeInternalError
	response.Message = messageInternalError
	response.Error = http.StatusText(http.StatusInternalServerError)
	return response
}

// fieldErrors flattens a tree of joined validation errors into field -> message.
func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)
	collectFieldErrors(err, fields)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func collectFieldErrors(err error, into map[string]string) {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			collectFieldErrors(inner, into)
		}
		return
	}

	var (
		required   *errs.ValueIsRequiredError
		invalid    *errs.ValueIsInvalidError
		outOfRange *errs.ValueIsOutOfRangeError
	)
	switch {
	case errors.As(err, &required):
		into[required.ParamName] = required.Error()
	case errors.As(err, &invalid):
		into[invalid.ParamName] = invalid.Error()
	case errors.As(err, &outOfRange):
		into[outOfRange.ParamName] = outOfRange.Error()
	}
}

// NewErrorHandler returns the echo error handler that applies the translation table.
// Echo's own errors (unknown route, wrong method, malformed body) keep their status.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	logger = logger.With("component", "http")
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		path := c.Request().URL.Path
		var response ErrorResponse

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Internal == nil {
			response = httpErrorResponse(httpErr, path)
		} else {
			response = Translate(err, path, time.Now())
		}

		if response.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", path,
				"status", response.Status,
				"error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(response.Status)
		} else {
			writeErr = c.JSON(response.Status, response)
		}
		if writeErr != nil {
			logger.Error("failed to write error response", "error", writeErr)
		}
	}
}

func httpErrorResponse(httpErr *echo.HTTPError, path string) ErrorResponse {
	code := CodeInternalError
	message := messageInternalError
	switch {
	case httpErr.Code == http.StatusNotFound:
		code = CodeNotFound
		message = "Resource not found"
	case httpErr.Code < http.StatusInternalServerError:
		code = CodeValidationFailed
		message = http.StatusText(httpErr.Code)
	}

	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    httpErr.Code,
		Error:     http.StatusText(httpErr.Code),
		Code:      code,
		Message:   message,
		Path:      path,
	}
}
