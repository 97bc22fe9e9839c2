package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/deppfellow/foodreggie/internal/config"
	"github.com/deppfellow/foodreggie/internal/errs"
	"github.com/deppfellow/foodreggie/internal/handler"
	"github.com/deppfellow/foodreggie/internal/model"
	"github.com/deppfellow/foodreggie/internal/repository"
	"github.com/deppfellow/foodreggie/internal/server"
	"github.com/deppfellow/foodreggie/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          1000,
		},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "foods.db"),
		},
		Observability: config.DefaultObservabilityConfig(),
	}

	logger := zerolog.Nop()
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.DB.Close() })

	services, err := service.NewService(s, repository.NewRepositories(s))
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(e *echo.Echo, method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type tableBody struct {
	View  string              `json:"view"`
	Model model.FoodViewModel `json:"model"`
}

func table(t *testing.T, e *echo.Echo) model.FoodViewModel {
	t.Helper()
	rec := do(e, http.MethodGet, "/food/table", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body tableBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Table", body.View)
	return body.Model
}

func TestFoodLifecycle(t *testing.T) {
	e := newTestRouter(t)

	assert.Empty(t, table(t, e).Foods)

	rec := do(e, http.MethodPost, "/food/create", url.Values{
		"name":       {"Apple"},
		"food_group": {"Fruit"},
		"calories":   {"52"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/food/table", rec.Header().Get(echo.HeaderLocation))

	foods := table(t, e).Foods
	require.Len(t, foods, 1)
	id := foods[0].ID

	rec = do(e, http.MethodGet, "/food/update/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"view":"Update"`)

	rec = do(e, http.MethodPost, "/food/update", url.Values{
		"food_id":    {itoa(id)},
		"name":       {"Green Apple"},
		"food_group": {"Fruit"},
		"calories":   {"50"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "Green Apple", table(t, e).Foods[0].Name)

	rec = do(e, http.MethodGet, "/food/delete/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"view":"Delete"`)

	rec = do(e, http.MethodPost, "/food/delete/"+itoa(id), url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, table(t, e).Foods)

	// Deleting again still lands on the table.
	rec = do(e, http.MethodPost, "/food/delete/"+itoa(id), url.Values{})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/food/table", rec.Header().Get(echo.HeaderLocation))
}

func TestUpdateOfMissingFoodRerendersForm(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/food/update", url.Values{
		"food_id":    {"77"},
		"name":       {"Ghost"},
		"food_group": {"None"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"view":"Update"`)
	assert.Contains(t, rec.Body.String(), `"name":"Ghost"`)
}

func TestMissingFoodResponses(t *testing.T) {
	e := newTestRouter(t)

	cases := []struct {
		path   string
		status int
	}{
		{"/food/update/999", http.StatusNotFound},
		{"/food/delete/999", http.StatusBadRequest},
	}

	for _, tc := range cases {
		rec := do(e, http.MethodGet, tc.path, nil)
		require.Equal(t, tc.status, rec.Code, tc.path)

		var body errs.HTTPError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Food not found for the FoodId", body.Message)
	}
}

func TestNonNumericIDIsBadRequest(t *testing.T) {
	e := newTestRouter(t)
	rec := do(e, http.MethodGet, "/food/update/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidCreateRendersErrors(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodPost, "/food/create", url.Values{"food_group": {"Fruit"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"view":"Create"`)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)

	assert.Empty(t, table(t, e).Foods)
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := do(e, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	do(e, http.MethodGet, "/food/table", nil)
	rec = do(e, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `foodreggie_food_actions_total{action="Table",outcome="view"} 1`)

	rec = do(e, http.MethodGet, "/nowhere", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Route not found", body.Message)
}

func TestResponsesCarryRequestID(t *testing.T) {
	e := newTestRouter(t)
	rec := do(e, http.MethodGet, "/food/table", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
