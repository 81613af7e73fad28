// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures
// (e.g. FieldErrors for request bodies, HTTPError for API responses,
// StoreError for failed store interactions) to ensure clients receive
// meaningful and consistent error messages while store failures stay
// diagnosable server side.
package errs
