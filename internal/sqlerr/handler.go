package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/deppfellow/gradejournal/internal/errs"
)

// sqliteError is implemented by the pure-Go SQLite driver's error type.
type sqliteError interface {
	error
	Code() int
}

// ErrCode reports the normalized Code for err, or Other.
func ErrCode(err error) Code {
	if sqlErr := Convert(err); sqlErr != nil {
		return sqlErr.Code
	}
	return Other
}

// Convert normalizes a driver error found anywhere in err's chain.
// It returns nil when err carries no database error.
func Convert(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return ConvertPgError(pgerr)
	}

	var liteErr sqliteError
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr)
	}

	return nil
}

// ConvertPgError converts a raw PostgreSQL error into *Error.
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

// "UNIQUE constraint failed: students.name"
var sqliteColumnRe = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)`)

// ConvertSQLiteError converts a SQLite driver error into *Error. SQLite
// only reports the offending table and column in the message text.
func ConvertSQLiteError(src sqliteError) *Error {
	message := src.Error()
	sqlErr := &Error{
		Code:         MapSQLiteCode(src.Code(), message),
		Severity:     SeverityError,
		DatabaseCode: fmt.Sprintf("%d", src.Code()),
		Message:      message,
		driverErr:    src,
	}

	if matches := sqliteColumnRe.FindStringSubmatch(message); len(matches) == 3 {
		sqlErr.TableName = matches[1]
		sqlErr.ColumnName = matches[2]
	}

	return sqlErr
}

// generateErrorCode builds "<DOMAIN>_<ACTION>" codes such as
// STUDENT_ALREADY_EXISTS from the failing table.
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
	case CheckViolation:
		action = "INVALID"
	case Busy:
		action = "BUSY"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// referencedEntity names the parent side of a foreign key violation from
// the "<x>_id" column or a GORM "fk_<table>_<x>" constraint. SQLite
// reports neither, which yields "".
func referencedEntity(sqlErr *Error) string {
	column := strings.ToLower(sqlErr.ColumnName)
	if strings.HasSuffix(column, "_id") {
		return strings.TrimSuffix(column, "_id")
	}
	if strings.HasPrefix(sqlErr.ConstraintName, "fk_") {
		parts := strings.Split(sqlErr.ConstraintName, "_")
		return parts[len(parts)-1]
	}
	return ""
}

// HandleError converts a storage error into an *errs.HTTPError.
//
// Constraint violations surface as a 500 with a generic message and a
// classified code (STUDENT_ALREADY_EXISTS, GRADE_NOT_FOUND, ...); the
// driver text never reaches the client. Missing rows become a 404.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if sqlErr := Convert(err); sqlErr != nil {
		switch sqlErr.Code {
		case ForeignKeyViolation, UniqueViolation, NotNullViolation, CheckViolation, Busy:
			tableName := sqlErr.TableName
			if sqlErr.Code == ForeignKeyViolation {
				tableName = referencedEntity(sqlErr)
			}
			return errs.NewInternalServerErrorWithCode(generateErrorCode(tableName, sqlErr.Code))
		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
