package errs

import (
	"encoding/json"
	"strings"
)

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "height", "error": "is required" }
type FieldError struct {
	// Field is the JSON key the error relates to (e.g. "height").
	Field string `json:"field"`

	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error() and is serialized directly
// to JSON. Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: whether the client may show Message to end users verbatim.
//   - Errors: list of per-field errors (validation).
//   - Timestamp: unix seconds at which the error response was produced.
//   - Details: extra keys merged into the top-level JSON object
//     (e.g. the not-found enrichment: app_name, version, called_method).
type HTTPError struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Status    int          `json:"status"`
	Override  bool         `json:"override"`
	Errors    []FieldError `json:"errors"`
	Timestamp float64      `json:"timestamp"`

	Details map[string]any `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError with the same Status, so
// errors.Is(err, NewNotFoundError(...)) matches any 404.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}

	return e.Status == t.Status
}

// WithMessage returns a *copy* of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// WithDetails returns a *copy* of this HTTPError with details merged in.
// Keys already present on the copy are overwritten.
func (e *HTTPError) WithDetails(details map[string]any) *HTTPError {
	clone := *e
	clone.Details = make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	for k, v := range details {
		clone.Details[k] = v
	}
	return &clone
}

// MarshalJSON flattens Details into the top-level object. The fixed fields
// always win over a detail with the same key.
func (e HTTPError) MarshalJSON() ([]byte, error) {
	type plain HTTPError

	base, err := json.Marshal(plain(e))
	if err != nil || len(e.Details) == 0 {
		return base, err
	}

	merged := make(map[string]json.RawMessage, len(e.Details)+6)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}

	for k, v := range e.Details {
		if _, taken := merged[k]; taken {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}

	return json.Marshal(merged)
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
