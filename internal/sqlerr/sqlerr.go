// Package sqlerr translates database driver errors into API errors.
//
// Constraint violations raised by the store (unique, foreign key, not null,
// check, out-of-range values) become 400 responses with a stable
// machine-readable code such as PACKAGE_ALREADY_EXISTS. Everything else
// becomes a 500 that leaks nothing about the store.
package sqlerr
