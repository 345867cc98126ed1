package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	limitedHandler := NewRateLimitMiddleware(3, time.Second)(okHandler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		limitedHandler.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=test-api-key", nil))
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should be allowed", i+1)
	}

	w := httptest.NewRecorder()
	limitedHandler.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=test-api-key", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	var body errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
}

func TestRateLimitMiddleware_PerClientLimiting(t *testing.T) {
	limitedHandler := NewRateLimitMiddleware(2, time.Second)(okHandler)

	serve := func(target, remoteAddr string) int {
		req := httptest.NewRequest("GET", target, nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		limitedHandler.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve("/test?key=api-key-1", "10.0.0.1:1000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, serve("/test?key=api-key-1", "10.0.0.2:1000"),
		"the key is limited wherever it comes from")
	assert.Equal(t, http.StatusOK, serve("/test?key=api-key-2", "10.0.0.1:1000"))

	// Keyless clients are told apart by address, not port.
	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve("/test", "10.0.0.3:1000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, serve("/test", "10.0.0.3:2000"))
	assert.Equal(t, http.StatusOK, serve("/test", "10.0.0.4:1000"))
}

func TestRateLimitMiddleware_ExemptKeys(t *testing.T) {
	limitedHandler := NewRateLimitMiddleware(1, time.Second, "dashboard-ui")(okHandler)

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		limitedHandler.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=dashboard-ui", nil))
		assert.Equal(t, http.StatusOK, w.Code, "Exempted request %d should always be allowed", i+1)
	}
}

func TestRateLimitMiddleware_ZeroDisablesLimiting(t *testing.T) {
	limitedHandler := NewRateLimitMiddleware(0, time.Second)(okHandler)

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		limitedHandler.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=k", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_RefillsOverTime(t *testing.T) {
	limitedHandler := NewRateLimitMiddleware(1, 100*time.Millisecond)(okHandler)

	serve := func() int {
		w := httptest.NewRecorder()
		limitedHandler.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=test-key", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve(), "First request should succeed")
	assert.Equal(t, http.StatusTooManyRequests, serve(), "Second request should be rate limited")

	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, http.StatusOK, serve(), "Request after refill should succeed")
}

func TestRateLimitMiddleware_ConcurrentRequests(t *testing.T) {
	limitedHandler := NewRateLimitMiddleware(5, time.Minute)(okHandler)

	var allowed, limited atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			limitedHandler.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=concurrent", nil))
			if w.Code == http.StatusOK {
				allowed.Add(1)
			} else {
				limited.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
	assert.Equal(t, int32(15), limited.Load())
}

func TestRateLimitIntegration(t *testing.T) {
	api := createTestApi(t)
	api.rateLimiter = NewRateLimitMiddleware(2, time.Minute)
	server := newTestServer(t, api)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + endpoint("/api/regions.json"))
		require.NoError(t, err)
		_ = resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
