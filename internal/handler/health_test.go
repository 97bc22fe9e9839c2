package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/deppfellow/foodreggie/internal/config"
	"github.com/deppfellow/foodreggie/internal/database"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthServer(t *testing.T) *HealthHandler {
	t.Helper()

	s := testServer()
	s.Config.Database = config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "foods.db")}

	logger := zerolog.Nop()
	db, err := database.New(s.Config, &logger, nil)
	require.NoError(t, err)
	s.DB = db

	return NewHealthHandler(s)
}

func serveHealth(h *HealthHandler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
	_ = h.CheckHealth(c)
	return rec
}

func TestCheckHealthy(t *testing.T) {
	h := healthServer(t)
	defer h.server.DB.Close()

	rec := serveHealth(h)
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["database"].Status)
	assert.NotContains(t, body.Checks, "redis")
}

func TestCheckUnhealthyDatabase(t *testing.T) {
	h := healthServer(t)
	require.NoError(t, h.server.DB.Close())

	rec := serveHealth(h)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.NotEmpty(t, body.Checks["database"].Error)
}

func TestCheckHealthSkipsDisabledChecks(t *testing.T) {
	h := healthServer(t)
	defer h.server.DB.Close()
	h.server.Config.Observability.HealthChecks.Checks = []string{"redis"}

	var body healthResponse
	require.NoError(t, json.Unmarshal(serveHealth(h).Body.Bytes(), &body))
	assert.Empty(t, body.Checks)
}
