// Package handler is the HTTP layer and the first entry point after the
// router.
//
// It binds and validates requests through the validation package, calls
// the service layer and writes the response. Errors are returned as-is and
// rendered by the global error handler.
package handler
