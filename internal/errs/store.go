package errs

import "fmt"

// StoreError reports a failed interaction with the backing store after
// validation passed.
//
// Message is the generic text sent to the client. Operation, Key and the
// wrapped cause are for the server log only.
type StoreError struct {
	Operation string
	Key       int64
	Message   string
	Err       error
}

// NewStoreError wraps cause for operation on the entity identified by key.
func NewStoreError(operation string, key int64, message string, cause error) *StoreError {
	return &StoreError{
		Operation: operation,
		Key:       key,
		Message:   message,
		Err:       cause,
	}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s (key %d): %v", e.Operation, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
