package origin

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"edgegate/internal/observability/logging"
)

const indexFile = "index.html"

// staticHandler serves a built single-page app from disk. Unknown routes
// without a file extension get index.html so client-side routing works.
type staticHandler struct {
	root        http.FileSystem
	files       http.Handler
	spaFallback bool
	logger      *logging.Logger
}

func newStaticHandler(dir string, spaFallback bool, logger *logging.Logger) *staticHandler {
	root := http.Dir(dir)
	return &staticHandler{
		root:        root,
		files:       http.FileServer(root),
		spaFallback: spaFallback,
		logger:      logger,
	}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if h.exists(name) {
		h.files.ServeHTTP(w, r)
		return
	}

	if !h.spaFallback || path.Ext(name) != "" {
		http.NotFound(w, r)
		return
	}

	logging.LoggerOrDefault(r.Context(), h.logger).Debug("Serving SPA fallback", "path", r.URL.Path)
	h.serveIndex(w, r)
}

// exists reports whether name is a regular file, or a directory holding an index
func (h *staticHandler) exists(name string) bool {
	f, err := h.root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}

	index, err := h.root.Open(strings.TrimSuffix(name, "/") + "/" + indexFile)
	if err != nil {
		return false
	}
	_ = index.Close()
	return true
}

func (h *staticHandler) serveIndex(w http.ResponseWriter, r *http.Request) {
	f, err := h.root.Open("/" + indexFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.LoggerOrDefault(r.Context(), h.logger).Error("Failed to open index", logging.Err(err))
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	// The shell must always be revalidated so new deploys are picked up.
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, indexFile, info.ModTime(), f)
}
