package todos

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"edgegate/internal/observability/logging"
	"edgegate/internal/observability/metrics"

	"github.com/gorilla/mux"
)

// maxBodyBytes bounds request bodies; todo text is capped far below this
const maxBodyBytes = 64 << 10

// Handler serves the todos JSON API
type Handler struct {
	store   Store
	logger  *logging.Logger
	metrics *metrics.Collector
}

// NewHandler creates a todos API handler
func NewHandler(store Store, logger *logging.Logger, metricsCollector *metrics.Collector) *Handler {
	return &Handler{
		store:   store,
		logger:  logger.WithModule("todos"),
		metrics: metricsCollector,
	}
}

// Register mounts the API routes on r. r is expected to be a subrouter
// already scoped to the API prefix.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("", h.list).Methods(http.MethodGet)
	r.HandleFunc("", h.create).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.update).Methods(http.MethodPatch)
	r.HandleFunc("/{id}", h.delete).Methods(http.MethodDelete)

	// Keep unmatched API paths out of the parent router's catch-all.
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no such endpoint"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
}

type createRequest struct {
	Text string `json:"text"`
}

type listResponse struct {
	Todos []Todo `json:"todos"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.List(r.Context())
	h.metrics.RecordTodoOperation("list", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Todos: todos})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	todo, err := h.store.Get(r.Context(), mux.Vars(r)["id"])
	h.metrics.RecordTodoOperation("get", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	todo, err := h.store.Create(r.Context(), req.Text)
	h.metrics.RecordTodoOperation("create", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", r.URL.Path+"/"+todo.ID)
	writeJSON(w, http.StatusCreated, todo)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var patch Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if patch.Text == nil && patch.Completed == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "nothing to update"})
		return
	}

	todo, err := h.store.Update(r.Context(), mux.Vars(r)["id"], patch)
	h.metrics.RecordTodoOperation("update", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(r.Context(), mux.Vars(r)["id"])
	h.metrics.RecordTodoOperation("delete", err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps store errors to responses. Unexpected errors are logged and
// reported without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: ErrNotFound.Error()})
	case errors.Is(err, ErrInvalidText):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		logging.LoggerOrDefault(r.Context(), h.logger).Error("Todo store failure",
			logging.Err(err),
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
