package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/shipping/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError normalizes a raw Postgres error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// generateErrorCode builds <DOMAIN>_<ACTION>, e.g. packages + UniqueViolation
// gives PACKAGE_ALREADY_EXISTS.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, NumericOutOfRange:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column when the constraint name reveals it.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation, NumericOutOfRange:
		if fieldName := humanizeText(sqlErr.ColumnName); fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a "<entity>_id" column, then the singular table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		return humanizeText(strings.TrimSuffix(strings.ToLower(columnName), "_id"))
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText turns snake_case into Title Case: "product_id" -> "Product Id".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from constraint names of
// the form unique_<table>_<column> or <table>_<column>_key. Column names may
// contain underscores, so the table prefix is stripped rather than split on.
func extractColumnForUniqueViolation(tableName, constraintName string) string {
	name := strings.ToLower(constraintName)

	switch {
	case strings.HasPrefix(name, "unique_"):
		name = strings.TrimPrefix(name, "unique_")
	case strings.HasSuffix(name, "_ukey"):
		name = strings.TrimSuffix(name, "_ukey")
	case strings.HasSuffix(name, "_key"):
		name = strings.TrimSuffix(name, "_key")
	default:
		return ""
	}

	if table := strings.ToLower(tableName); table != "" {
		if column, ok := strings.CutPrefix(name, table+"_"); ok {
			return column
		}
	}

	// Unknown table: drop the leading segment and keep the rest.
	if _, column, ok := strings.Cut(name, "_"); ok {
		return column
	}
	return ""
}

// HandleError converts an error from the data path into an *errs.HTTPError.
//
//   - *errs.HTTPError anywhere in the chain is returned unchanged.
//   - Postgres constraint violations become 400.
//   - pgx.ErrNoRows becomes 404.
//   - Anything else becomes 500.
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil)

		case UniqueViolation:
			if column := extractColumnForUniqueViolation(sqlErr.TableName, sqlErr.ConstraintName); column != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(column))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{{
				Field: strings.ToLower(sqlErr.ColumnName),
				Error: "is required",
			}}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors)

		case CheckViolation, NumericOutOfRange:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
