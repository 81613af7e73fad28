package errs

import (
	"net/http"
)

const (
	// MessageMissingBody is returned whenever a request that needs a JSON
	// object body arrives without one (absent, not JSON, or an empty object).
	MessageMissingBody = "Missing JSON data in request body"

	// MessageRouteNotFound is returned for unknown routes and for path
	// parameters that do not parse as the route's key type.
	MessageRouteNotFound = "Route not found"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
func NewBadRequestError(message string, override bool, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
	}
}

// NewMissingBodyError creates the 400 returned when the JSON body is missing or unusable.
func NewMissingBodyError() *HTTPError {
	return NewBadRequestError(MessageMissingBody, true, nil, nil)
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Supports optional custom code override similar to NewBadRequestError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewRouteNotFoundError creates the 404 returned for unmatched routes.
func NewRouteNotFoundError() *HTTPError {
	return NewNotFoundError(MessageRouteNotFound, false, nil)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the underlying error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}
