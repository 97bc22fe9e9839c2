package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/foodreggie/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint",
		TableName:      "foods",
		ConstraintName: "foods_name_key",
	}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("insert food: %w", pgErr)))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "FOOD_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Food with this Name already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNotNullViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:   "ERROR",
		Code:       "23502",
		TableName:  "foods",
		ColumnName: "food_group",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, "FOOD_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Food Group is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "food_group", httpErr.Errors[0].Field)
}

func TestHandleErrorCheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", TableName: "foods", ColumnName: "calories"}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, "FOOD_INVALID", httpErr.Code)
	assert.Equal(t, "The Calories value does not meet required conditions", httpErr.Message)
}

func TestHandleErrorUnknownPgCodeIsInternal(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(&pgconn.PgError{Code: "XX000"}))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestHandleErrorNoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(fmt.Errorf("table:foods: %w", pgx.ErrNoRows)))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Food not found", httpErr.Message)

	httpErr = asHTTPError(t, HandleError(sql.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	in := errs.NewNotFoundError("Food list not found", false, nil)
	assert.Same(t, in, HandleError(in))
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23503", Severity: "FATAL"})

	assert.Equal(t, ForeignKeyViolation, ErrCode(fmt.Errorf("wrap: %w", converted)))
	assert.Equal(t, SeverityFatal, converted.Severity)
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "name", extractColumnForUniqueViolation("unique_foods_name"))
	assert.Equal(t, "name", extractColumnForUniqueViolation("foods_name_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("foods_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}

func TestHandleErrorSQLiteConstraints(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE foods (
		food_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		calories REAL CHECK (calories >= 0)
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO foods (name, calories) VALUES ('Apple', 52)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO foods (name, calories) VALUES (NULL, 1)`)
	require.Error(t, err)
	assert.Equal(t, NotNullViolation, Classify(err))
	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, "FOOD_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Name is required", httpErr.Message)

	_, err = db.Exec(`INSERT INTO foods (name, calories) VALUES ('Apple', 2)`)
	require.Error(t, err)
	httpErr = asHTTPError(t, HandleError(err))
	assert.Equal(t, "FOOD_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Food with this Name already exists", httpErr.Message)

	_, err = db.Exec(`INSERT INTO foods (name, calories) VALUES ('Pear', -1)`)
	require.Error(t, err)
	assert.Equal(t, CheckViolation, Classify(err))
	httpErr = asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "The Calories value does not meet required conditions", httpErr.Message)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, UniqueViolation, Classify(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.Equal(t, Other, Classify(errors.New("plain")))
	assert.Equal(t, Other, MapSQLiteCode(1, "SQL logic error"))
	assert.Equal(t, CheckViolation, MapSQLiteCode(19, "CHECK constraint failed: fats >= 0"))
}
