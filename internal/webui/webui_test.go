package webui

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happydash.dev/internal/app"
	"happydash.dev/internal/appconf"
	"happydash.dev/internal/happiness"
	"happydash.dev/internal/logging"
)

func createTestWebUI(t *testing.T, apiKeys ...string) *httptest.Server {
	t.Helper()
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
	manager, err := happiness.InitManager(happiness.Config{
		DataPath:  filepath.Join("..", "..", "testdata", "happiness.csv"),
		CacheSize: 8,
	}, logger, nil)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	config := appconf.DefaultConfig()
	config.ApiKeys = apiKeys

	webUI, err := NewWebUI(&app.Application{Config: config, Logger: logger, Manager: manager})
	require.NoError(t, err)

	router := httprouter.New()
	SetWebUIRoutes(router, webUI)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestDashboardDefaults(t *testing.T) {
	server := createTestWebUI(t)

	status, body := get(t, server.URL+"/")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, body, "<title>Country Happiness Visualization</title>")
	assert.Contains(t, body, `<option value="Top 20 Countries" selected>`)
	assert.Contains(t, body, `<option value="Cost of Living Index" selected>`)
	assert.Contains(t, body, `value="asc" checked`)
	assert.Contains(t, body, `value="all" checked`)
	assert.Contains(t, body, "/api/charts/world.json?")
	assert.Contains(t, body, "/api/charts/comparison.json?")
	assert.Contains(t, body, "/render/preference.svg?")

	// Cheapest first across the whole dataset; Chad has no happiness score and is not ranked.
	assert.Less(t, strings.Index(body, "<td>Afghanistan</td>"), strings.Index(body, "<td>Switzerland</td>"))
	assert.NotContains(t, body, "<td>Chad</td>")
	assert.NotContains(t, body, `class="notice"`)
}

func TestDashboardSelection(t *testing.T) {
	server := createTestWebUI(t)

	status, body := get(t, server.URL+"/?region=Western+Europe&indicator=Rent+Index&order=dsc&scope=filtered")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, body, `<option value="Western Europe" selected>`)
	assert.Contains(t, body, `<option value="Rent Index" selected>`)
	assert.Contains(t, body, `value="dsc" checked`)
	assert.Contains(t, body, `value="filtered" checked`)
	assert.Contains(t, body, "<td>50.3</td>")
	assert.Less(t, strings.Index(body, "<td>Switzerland</td>"), strings.Index(body, "<td>Finland</td>"))
	assert.NotContains(t, body, "<td>Canada</td>")
}

func TestDashboardFallsBackOnBadInput(t *testing.T) {
	server := createTestWebUI(t)

	status, body := get(t, server.URL+"/?region=Atlantis&indicator=upperwhisker&order=sideways")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, body, `class="notice"`)
	assert.Contains(t, body, "unknown region")
	assert.Contains(t, body, "not a ranking preference")
	assert.Contains(t, body, `<option value="Top 20 Countries" selected>`)
	assert.Contains(t, body, `value="asc" checked`)
}

func TestDashboardRequiresKeyWhenConfigured(t *testing.T) {
	server := createTestWebUI(t, "TEST")

	status, _ := get(t, server.URL+"/")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := get(t, server.URL+"/?key=TEST")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `name="key" value="TEST"`)
	assert.Contains(t, body, "key=TEST")
}

func TestDebugIndexHandler(t *testing.T) {
	server := createTestWebUI(t, "secret")

	tests := []struct {
		dataType string
		contains string
	}{
		{"regions", "Latin America and Caribbean"},
		{"indicators", "Local Purchasing Power Index"},
		{"records", "Zimbabwe"},
		{"cache", "Capacity"},
		{"dataset", "Generation"},
		{"config", "&lt;redacted&gt;"},
		{"", "Choose a data type"},
	}
	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			status, body := get(t, server.URL+"/debug/?key=secret&dataType="+tt.dataType)
			require.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, tt.contains)
			assert.NotContains(t, body, "secret")
		})
	}
}

func TestStaticFiles(t *testing.T) {
	server := createTestWebUI(t)

	status, body := get(t, server.URL+"/static/dashboard.js")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "vegaEmbed")

	status, _ = get(t, server.URL+"/static/missing.js")
	assert.Equal(t, http.StatusNotFound, status)
}
