package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"ordering/internal/pkg/errs"
	"ordering/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
)

// RequestValidator checks requests against the OpenAPI document before they reach a handler.
type RequestValidator struct {
	doc     *openapi3.T
	options *openapi3filter.Options
}

func NewRequestValidator(doc *openapi3.T) *RequestValidator {
	return &RequestValidator{
		doc: doc,
		options: &openapi3filter.Options{
			MultiError:         true,
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
}

// Middleware validates parameters and body of documented routes. Routes the
// document does not describe pass through untouched.
func (v *RequestValidator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := v.route(c)
			if route == nil {
				return next(c)
			}

			pathParams := make(map[string]string, len(c.ParamNames()))
			for i, name := range c.ParamNames() {
				pathParams[name] = c.ParamValues()[i]
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    c.Request(),
				PathParams: pathParams,
				Route:      route,
				Options:    v.options,
			}
			if err := openapi3filter.ValidateRequest(c.Request().Context(), input); err != nil {
				return requestValidationError(err)
			}
			return next(c)
		}
	}
}

// route finds the documented operation of the matched echo route.
func (v *RequestValidator) route(c echo.Context) *routers.Route {
	path := openAPIPath(c.Path())
	item := v.doc.Paths.Value(path)
	if item == nil {
		return nil
	}
	method := c.Request().Method
	operation := item.GetOperation(method)
	if operation == nil {
		return nil
	}
	return &routers.Route{
		Spec:      v.doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: operation,
	}
}

// openAPIPath turns "/orders/:id" into "/orders/{id}".
func openAPIPath(echoPath string) string {
	segments := strings.Split(echoPath, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			segments[i] = "{" + segment[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// requestValidationError converts kin-openapi findings into joined field errors.
func requestValidationError(err error) error {
	var found []error
	collectRequestErrors(err, "request", &found)
	if len(found) == 0 {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}
	return errors.Join(found...)
}

func collectRequestErrors(err error, field string, found *[]error) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectRequestErrors(inner, field, found)
		}
	case *openapi3filter.RequestError:
		switch {
		case e.Parameter != nil:
			field = e.Parameter.Name
		case e.RequestBody != nil:
			field = "body"
		}
		if e.Err == nil {
			*found = append(*found, errs.NewValueIsInvalidErrorWithCause(field, errors.New(e.Reason)))
			return
		}
		collectRequestErrors(e.Err, field, found)
	case *openapi3.SchemaError:
		if pointer := e.JSONPointer(); len(pointer) > 0 {
			field = fieldPath(pointer)
		}
		*found = append(*found, errs.NewValueIsInvalidErrorWithCause(field, errors.New(e.Reason)))
	default:
		*found = append(*found, errs.NewValueIsInvalidErrorWithCause(field, err))
	}
}

// fieldPath renders ["items", "0", "quantity"] as "items[0].quantity".
func fieldPath(pointer []string) string {
	var b strings.Builder
	for _, segment := range pointer {
		if _, err := strconv.Atoi(segment); err == nil {
			b.WriteString("[" + segment + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
	}
	return b.String()
}

// MetricsMiddleware records count and latency of every request by route template.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(started))
			return nil
		}
	}
}
