package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"happydash.dev/internal/app"
	"happydash.dev/internal/appconf"
	"happydash.dev/internal/happiness"
	"happydash.dev/internal/logging"
	"happydash.dev/internal/metrics"
	"happydash.dev/internal/models"
)

var fixturePath = filepath.Join("..", "..", "testdata", "happiness.csv")

// createTestApi creates a RestAPI over the fixture dataset. Requests need ?key=TEST.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	logger := logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
	m := metrics.New()

	manager, err := happiness.InitManager(happiness.Config{DataPath: fixturePath, CacheSize: 32}, logger, m)
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	config := appconf.DefaultConfig()
	config.Env = appconf.EnvFlagToEnvironment("test")
	config.ApiKeys = []string{"TEST"}
	config.RateLimit = 0
	config.DataPath = fixturePath

	return NewRestAPI(&app.Application{
		Config:  config,
		Logger:  logger,
		Manager: manager,
		Metrics: m,
	})
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(api.Wrap(router))
	t.Cleanup(server.Close)
	return server
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	t.Helper()
	server := newTestServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// endpoint builds a path with the test API key and the given query pairs.
func endpoint(path string, pairs ...string) string {
	values := url.Values{"key": {"TEST"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		values.Set(pairs[i], pairs[i+1])
	}
	return path + "?" + values.Encode()
}

// entry digs data.entry out of a decoded envelope.
func entry(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object, got %T", model.Data)
	e, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry should be an object, got %T", data["entry"])
	return e
}

func rows(t *testing.T, model models.ResponseModel) []map[string]interface{} {
	t.Helper()
	raw, ok := entry(t, model)["rows"].([]interface{})
	require.True(t, ok)
	out := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.(map[string]interface{}))
	}
	return out
}

func fieldErrors(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body struct {
		Code        int                    `json:"code"`
		FieldErrors map[string]interface{} `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, http.StatusBadRequest, body.Code)
	return body.FieldErrors
}
