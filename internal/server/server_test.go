package server

import (
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"edgegate/internal/config"
	"edgegate/internal/observability"
	"edgegate/internal/observability/logging"
	"edgegate/internal/observability/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider() *observability.Provider {
	return &observability.Provider{
		Logger:  logging.NewDiscardLogger(),
		Metrics: metrics.NewCollector(),
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>todo app</html>"), 0o644))

	cfg := &config.Config{}
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Metrics.Address = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Static.Dir = dir
	cfg.Static.SPAFallback = true
	cfg.Auth.Basic.Enabled = true
	cfg.Auth.Basic.Username = "admin"
	cfg.Auth.Basic.Password = "admin"
	cfg.Auth.Basic.Realm = "Todo Demo"
	cfg.Todos.Enabled = true
	cfg.Todos.Store = config.StoreMemory
	return cfg
}

func basic(userpass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(userpass))
}

func request(h http.Handler, method, target, authz, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGateScenarios(t *testing.T) {
	srv, err := build(context.Background(), testConfig(t), newTestProvider())
	require.NoError(t, err)
	h := srv.Handler()

	t.Run("no authorization header", func(t *testing.T) {
		rec := request(h, http.MethodGet, "/", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="Todo Demo"`, rec.Header().Get("WWW-Authenticate"))
		assert.NotEmpty(t, rec.Header().Get(observability.TraceHeader))
	})

	t.Run("matching credential", func(t *testing.T) {
		rec := request(h, http.MethodGet, "/", basic("admin:admin"), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "todo app")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := request(h, http.MethodGet, "/", basic("admin:wrong"), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, `Basic realm="Todo Demo"`, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("malformed payload", func(t *testing.T) {
		rec := request(h, http.MethodGet, "/", "Basic not*base64", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("api is gated too", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(h, http.MethodGet, "/api/todos", "", "").Code)

		rec := request(h, http.MethodPost, "/api/todos", basic("admin:admin"), `{"text":"ship it"}`)
		assert.Equal(t, http.StatusCreated, rec.Code)

		rec = request(h, http.MethodGet, "/api/todos", basic("admin:admin"), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "ship it")
	})

	t.Run("spa route", func(t *testing.T) {
		rec := request(h, http.MethodGet, "/forms/simple", basic("admin:admin"), "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "todo app")
	})
}

func TestMetricsListenerIsNotGated(t *testing.T) {
	srv, err := build(context.Background(), testConfig(t), newTestProvider())
	require.NoError(t, err)

	rec := request(srv.MetricsHandler(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = request(srv.MetricsHandler(), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildWithSQLiteStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Todos.Store = config.StoreSQLite
	cfg.Todos.SQLitePath = filepath.Join(t.TempDir(), "todos.db")

	srv, err := build(context.Background(), cfg, newTestProvider())
	require.NoError(t, err)

	rec := request(srv.Handler(), http.MethodPost, "/api/todos", basic("admin:admin"), `{"text":"persist me"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, srv.Stop(context.Background()))
}

func TestBuildRejectsInvalidPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Basic.Password = ""

	_, err := build(context.Background(), cfg, newTestProvider())
	assert.ErrorContains(t, err, "authentication manager")
}

func TestServeAndStop(t *testing.T) {
	srv, err := build(context.Background(), testConfig(t), newTestProvider())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	url := "http://" + ln.Addr().String() + "/"
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(url)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="Todo Demo"`, resp.Header.Get("WWW-Authenticate"))

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-errCh)
}
