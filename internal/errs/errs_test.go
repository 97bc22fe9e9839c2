package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "TOO_MANY_REQUESTS", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)))
}

func TestNewBadRequestErrorDefaultsCode(t *testing.T) {
	err := NewBadRequestError("bad", true, nil, []FieldError{{Field: "name", Error: "is required"}}, nil)

	assert.Equal(t, "BAD_REQUEST", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, err.Override)
	assert.Len(t, err.Errors, 1)
}

func TestNewNotFoundErrorCustomCode(t *testing.T) {
	code := "FOOD_NOT_FOUND"
	err := NewNotFoundError("Food not found for the FoodId", false, &code)

	assert.Equal(t, code, err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Equal(t, "Food not found for the FoodId", err.Error())
}

func TestHTTPErrorMatchesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading food: %w", NewNotFoundError("missing", false, nil))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.True(t, errors.Is(wrapped, &HTTPError{}))
}

func TestWithMessageCopies(t *testing.T) {
	orig := NewInternalServerError()
	changed := orig.WithMessage("try again later")

	assert.Equal(t, "Internal Server Error", orig.Message)
	assert.Equal(t, "try again later", changed.Message)
	assert.Equal(t, orig.Code, changed.Code)
}
