package sqlerr

import (
	"regexp"
	"strconv"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteCodes maps SQLite extended result codes to Code.
var sqliteCodes = map[int]Code{
	sqlite3.SQLITE_CONSTRAINT_NOTNULL:    NotNullViolation,
	sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY: ForeignKeyViolation,
	sqlite3.SQLITE_CONSTRAINT_UNIQUE:     UniqueViolation,
	sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY: UniqueViolation,
	sqlite3.SQLITE_CONSTRAINT_CHECK:      CheckViolation,
}

var (
	// "NOT NULL constraint failed: foods.name"
	sqliteColumnPattern = regexp.MustCompile(`constraint failed: (\w+)\.(\w+)`)
	// "CHECK constraint failed: calories >= 0"
	sqliteCheckPattern = regexp.MustCompile(`CHECK constraint failed: (\w+)`)
)

// MapSQLiteCode converts a SQLite result code into a Code. A primary
// SQLITE_CONSTRAINT code is narrowed using the message text.
func MapSQLiteCode(code int, msg string) Code {
	if c, ok := sqliteCodes[code]; ok {
		return c
	}
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return Other
	}

	switch {
	case strings.Contains(msg, "NOT NULL constraint"):
		return NotNullViolation
	case strings.Contains(msg, "UNIQUE constraint"):
		return UniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint"):
		return ForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint"):
		return CheckViolation
	}
	return Other
}

// ConvertSQLiteError converts a modernc SQLite error into an *Error. The
// table and column are recovered from the message where SQLite names them.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	msg := src.Error()

	out := &Error{
		Code:         MapSQLiteCode(src.Code(), msg),
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(src.Code()),
		Message:      msg,
		driverErr:    src,
	}

	if m := sqliteColumnPattern.FindStringSubmatch(msg); m != nil {
		out.TableName, out.ColumnName = m[1], m[2]
	} else if m := sqliteCheckPattern.FindStringSubmatch(msg); m != nil {
		out.ColumnName = m[1]
	}

	if out.Code == UniqueViolation && out.TableName != "" {
		out.ConstraintName = out.TableName + "_" + out.ColumnName + "_key"
	}

	return out
}
