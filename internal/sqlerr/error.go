package sqlerr

import "fmt"

// Code is a driver-independent classification of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ExclusionViolation  Code = "exclusion_violation"
	SerializationFailed Code = "serialization_failure"
	DeadlockDetected    Code = "deadlock_detected"
	ConnectionFailure   Code = "connection_failure"
	InvalidText         Code = "invalid_text_representation"
	NumericOutOfRange   Code = "numeric_value_out_of_range"
)

// Severity mirrors the Postgres severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (SQLSTATE %s)", e.Severity, e.Message, e.DatabaseCode)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE to a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "23P01":
		return ExclusionViolation
	case "40001":
		return SerializationFailed
	case "40P01":
		return DeadlockDetected
	case "22P02":
		return InvalidText
	case "22003":
		return NumericOutOfRange
	}

	// Class 08: connection exception.
	if len(sqlState) == 5 && sqlState[:2] == "08" {
		return ConnectionFailure
	}

	return Other
}

// MapSeverity maps the severity string reported by the server.
// Unknown values are treated as errors.
func MapSeverity(severity string) Severity {
	switch s := Severity(severity); s {
	case SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice,
		SeverityDebug, SeverityInfo, SeverityLog:
		return s
	default:
		return SeverityError
	}
}
