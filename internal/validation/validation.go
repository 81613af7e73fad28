// Package validation contains the logic for binding and validating
// request data.
//
// Path parameters are bound with echo's binder, JSON bodies are decoded with
// encoding/json so explicit nulls stay observable, and struct rules are
// enforced by the `validator` library. Every failure is turned into a 400
// *errs.HTTPError the client can understand.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/shipping/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// maxBodyBytes bounds how much of a request body is read.
const maxBodyBytes = 1 << 20

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// BodyPayload is a Validatable whose fields come from a JSON object body.
// BindAndValidate rejects such requests when the body is missing.
type BodyPayload interface {
	Validatable
	RequiresBody() bool
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. Path parameters are bound from `param` tags. A value that does not
//     parse yields 404 "Route not found".
//  2. For a BodyPayload, the body must be a non-empty JSON object, else 400
//     "Missing JSON data in request body". A value of the wrong JSON type
//     yields 400 "Invalid data: ...".
//  3. payload.Validate() applies the remaining rules.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindPathParams(c, payload); err != nil {
		return errs.NewRouteNotFoundError()
	}

	if bp, ok := payload.(BodyPayload); ok && bp.RequiresBody() {
		if err := bindJSONBody(c.Request(), payload); err != nil {
			return err
		}
	}

	if err := payload.Validate(); err != nil {
		return extractValidationError(err)
	}

	return nil
}

func bindJSONBody(req *http.Request, payload any) error {
	if req.Body == nil || req.Body == http.NoBody {
		return errs.NewMissingBodyError()
	}

	contentType := req.Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(contentType), echo.MIMEApplicationJSON) {
		return errs.NewMissingBodyError()
	}

	raw, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
	if err != nil {
		return errs.NewMissingBodyError()
	}
	// Leave the body readable for anything downstream.
	req.Body = io.NopCloser(bytes.NewReader(raw))

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil || len(object) == 0 {
		return errs.NewMissingBodyError()
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "request body"
			}
			return invalidData(field, "must be "+describeType(typeErr.Type))
		}
		return errs.NewMissingBodyError()
	}

	return nil
}

func describeType(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}

	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	default:
		return "a valid value"
	}
}

func invalidData(field, reason string) *errs.HTTPError {
	return errs.NewBadRequestError(
		fmt.Sprintf("Invalid data: %s %s", field, reason),
		true,
		nil,
		[]errs.FieldError{{Field: field, Error: reason}},
	)
}

// extractValidationError converts a Validate() failure into a 400.
//
// The top-level message describes the first failing field; every failing
// field is listed in Errors.
func extractValidationError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var fieldErrors []errs.FieldError
	var message string

	var custom CustomValidationErrors
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &custom):
		for _, ce := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{Field: ce.Field, Error: ce.Message})
		}
		if len(custom) > 0 {
			message = fmt.Sprintf("Invalid data: %s %s", custom[0].Field, custom[0].Message)
		}

	case errors.As(err, &validationErrors):
		for i, fe := range validationErrors {
			field := fe.Field()
			msg := describeFieldError(fe)
			fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})

			if i > 0 {
				continue
			}
			if fe.Tag() == "required" {
				message = fmt.Sprintf("Missing required field: '%s'", field)
			} else {
				message = fmt.Sprintf("Invalid data: %s %s", field, msg)
			}
		}

	default:
		message = "Invalid data: " + err.Error()
	}

	if message == "" {
		message = "Validation failed"
	}

	return errs.NewBadRequestError(message, true, nil, fieldErrors)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"

	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())

	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return fmt.Sprintf("must not exceed %s", fe.Param())

	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())

	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed the '%s=%s' check", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed the '%s' check", fe.Tag())
	}
}
