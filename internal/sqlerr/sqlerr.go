// Package sqlerr classifies database driver errors.
//
// Both storage engines are understood: PostgreSQL errors arrive as
// *pgconn.PgError carrying a SQLSTATE, SQLite errors carry an extended
// result code. Either is normalized into *Error and then mapped onto an
// application error by HandleError.
package sqlerr

import (
	"fmt"
	"strings"
)

// Code is the normalized class of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	Busy                Code = "busy"
)

// Severity is the normalized severity reported by the server.
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

// Error is a driver error normalized across engines.
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
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a PostgreSQL SQLSTATE onto a Code.
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
	case "55P03", "40001", "40P01":
		return Busy
	default:
		return Other
	}
}

// MapSeverity maps a PostgreSQL severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	case "NOTICE":
		return SeverityNotice
	case "DEBUG":
		return SeverityDebug
	case "INFO":
		return SeverityInfo
	case "LOG":
		return SeverityLog
	default:
		return SeverityError
	}
}

// SQLite extended result codes, see https://www.sqlite.org/rescode.html.
const (
	sqliteBusy                 = 5
	sqliteLocked               = 6
	sqliteConstraint           = 19
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// MapSQLiteCode maps a SQLite (extended) result code onto a Code. The
// bare SQLITE_CONSTRAINT code is resolved from the message text.
func MapSQLiteCode(code int, message string) Code {
	switch code {
	case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
		return UniqueViolation
	case sqliteConstraintForeignKey:
		return ForeignKeyViolation
	case sqliteConstraintNotNull:
		return NotNullViolation
	case sqliteConstraintCheck:
		return CheckViolation
	case sqliteBusy, sqliteLocked:
		return Busy
	case sqliteConstraint:
		return codeFromSQLiteMessage(message)
	}
	if code&0xff == sqliteConstraint {
		return codeFromSQLiteMessage(message)
	}
	return Other
}

var sqliteConstraintKinds = []struct {
	prefix string
	code   Code
}{
	{"UNIQUE constraint failed", UniqueViolation},
	{"FOREIGN KEY constraint failed", ForeignKeyViolation},
	{"NOT NULL constraint failed", NotNullViolation},
	{"CHECK constraint failed", CheckViolation},
}

func codeFromSQLiteMessage(message string) Code {
	for _, kind := range sqliteConstraintKinds {
		if strings.Contains(message, kind.prefix) {
			return kind.code
		}
	}
	return Other
}
