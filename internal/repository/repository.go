// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Repositories never commit or roll back: they run inside the session
// the caller acquired and leave finalizing it to the caller.
package repository
