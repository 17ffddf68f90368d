package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lynchlens/internal/clients/yahoo"
	"github.com/aristath/lynchlens/internal/config"
	"github.com/aristath/lynchlens/internal/modules/analysis"
	analysishandlers "github.com/aristath/lynchlens/internal/modules/analysis/api/handlers"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	log := zerolog.Nop()
	service := analysis.NewService(yahoo.NewClient(nil, "http://127.0.0.1:0", log), nil, nil, log)

	return New(Config{
		Log:              log,
		Config:           &config.Config{DataDir: t.TempDir()},
		Port:             0,
		DevMode:          true,
		AnalysisHandlers: analysishandlers.NewHandlers(service, log),
	})
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "lynchlens", body["service"])
}

func TestSystemHealthWithoutCacheDB(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body SystemHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// No cache database wired: the endpoint reports degraded, not an error.
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.CacheDBOK)
	assert.GreaterOrEqual(t, body.UptimeSeconds, 0.0)
}

func TestDiskUsage(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/system/disk", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body DiskUsageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, body.TotalMB, 0.0)
}
