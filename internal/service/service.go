// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// data from the handler, owns the per-request store session, calls
// repository methods inside it and decides whether the session commits or
// rolls back.
package service
