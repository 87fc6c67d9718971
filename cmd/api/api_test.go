package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaorganizer/media-api/internal/data"
	"github.com/mediaorganizer/media-api/internal/mailer"
)

// newTestApplication builds an application wired to a mock database pool.
// The rate limiter is disabled and log output is discarded.
func newTestApplication(t *testing.T) (*application, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var cfg config
	cfg.env = "testing"

	app := &application{
		config:       cfg,
		logger:       logger,
		repositories: data.NewRepositories(mock),
		mailer:       mailer.New("localhost", 2525, "", "", "Media Organizer <no-reply@mediaorganizer.dev>"),
	}

	return app, mock
}

// do runs one request through the full middleware chain and router.
func do(t *testing.T, app *application, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	app.routes().ServeHTTP(rr, r)
	return rr
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestStatusHandler(t *testing.T) {
	app, _ := newTestApplication(t)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	assert.Equal(t, "available", body["status"])

	systemInfo, ok := body["system_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "testing", systemInfo["environment"])
	assert.Equal(t, version, systemInfo["version"])
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	app, _ := newTestApplication(t)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	app, _ := newTestApplication(t)

	rr := do(t, app, httptest.NewRequest(http.MethodPatch, "/movies/1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	app, _ := newTestApplication(t)

	rr := do(t, app, httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCORSAllowsTrustedOrigin(t *testing.T) {
	app, _ := newTestApplication(t)
	app.config.cors.trustedOrigins = []string{"http://localhost:3000"}

	r := httptest.NewRequest(http.MethodGet, "/status", nil)
	r.Header.Set("Origin", "http://localhost:3000")

	rr := do(t, app, r)

	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSIgnoresUntrustedOrigin(t *testing.T) {
	app, _ := newTestApplication(t)
	app.config.cors.trustedOrigins = []string{"http://localhost:3000"}

	r := httptest.NewRequest(http.MethodGet, "/status", nil)
	r.Header.Set("Origin", "http://evil.example.com")

	rr := do(t, app, r)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
