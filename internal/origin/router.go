// Package origin serves requests that have passed the gate: the todos API,
// and either a reverse proxy to the application or the static SPA bundle.
package origin

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"edgegate/internal/httputils"
	"edgegate/internal/observability/logging"
	"edgegate/internal/observability/metrics"

	"github.com/gorilla/mux"
)

// Origin kinds used as the metric label
const (
	KindAPI    = "api"
	KindProxy  = "proxy"
	KindStatic = "static"
)

// APIPrefix is where the API handler is mounted
const APIPrefix = "/api/todos"

// API is implemented by handlers mounted under APIPrefix
type API interface {
	Register(r *mux.Router)
}

// Config holds router configuration
type Config struct {
	// UpstreamURL is the application to proxy to. When nil, StaticDir is served.
	UpstreamURL *url.URL

	// UpstreamTimeout bounds the wait for upstream response headers
	UpstreamTimeout time.Duration

	// StaticDir is the root of the built SPA bundle
	StaticDir string

	// SPAFallback serves index.html for routes that do not match a file
	SPAFallback bool
}

// Router dispatches allowed requests to the API, the upstream or static files
type Router struct {
	*mux.Router
	logger  *logging.Logger
	metrics *metrics.Collector
}

// New creates a new router. api may be nil.
func New(config Config, api API, logger *logging.Logger, metricsCollector *metrics.Collector) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		logger:  logger.WithModule("origin"),
		metrics: metricsCollector,
	}

	if api != nil {
		sub := r.PathPrefix(APIPrefix).Subrouter()
		sub.Use(r.observe(KindAPI))
		api.Register(sub)
		r.logger.Info("Todos API mounted", "prefix", APIPrefix)
	}

	var fallback http.Handler
	if config.UpstreamURL != nil {
		fallback = r.newProxy(config)
		r.logger.Info("Proxying to upstream", "upstream", logging.RedactURL(config.UpstreamURL))
		fallback = r.observe(KindProxy)(fallback)
	} else {
		fallback = newStaticHandler(config.StaticDir, config.SPAFallback, r.logger)
		r.logger.Info("Serving static files", "dir", config.StaticDir, "spa_fallback", config.SPAFallback)
		fallback = r.observe(KindStatic)(fallback)
	}
	r.PathPrefix("/").Handler(fallback)

	return r
}

// newProxy builds the reverse proxy to the upstream application
func (r *Router) newProxy(config Config) http.Handler {
	target := httputil.NewSingleHostReverseProxy(config.UpstreamURL)

	target.Transport = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: config.UpstreamTimeout,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	target.ErrorHandler = func(w http.ResponseWriter, req *http.Request, err error) {
		logger := logging.LoggerOrDefault(req.Context(), r.logger)
		if errors.Is(err, req.Context().Err()) {
			logger.Debug("Client went away before upstream answered", "path", req.URL.Path)
			return
		}
		logger.Error("Upstream request failed",
			logging.Err(err),
			"upstream", logging.RedactURL(config.UpstreamURL),
			"path", req.URL.Path,
		)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		startTime := time.Now()
		wrapper := httputils.NewResponseWriter(w)

		target.ServeHTTP(wrapper, req)

		r.metrics.RecordUpstreamRequest(req.Method, wrapper.StatusCode, time.Since(startTime))
	})
}

// observe records the origin metric for every request handled by next
func (r *Router) observe(kind string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			wrapper := httputils.NewResponseWriter(w)
			next.ServeHTTP(wrapper, req)
			r.metrics.RecordOrigin(kind, wrapper.StatusCode)
		})
	}
}
