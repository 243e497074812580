package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/pkg/core/health"
	"github.com/msto63/kthxbye/pkg/core/logging"
)

// RunRequest is the body of POST /api/run and the payload of a websocket
// run message
type RunRequest struct {
	Name   string   `json:"name"`
	Source string   `json:"source"`
	Input  []string `json:"input,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Handler handles the HTTP API
type Handler struct {
	engine          *engine.Engine
	health          *health.Registry
	maxProgramBytes int64
	logger          *logging.Logger
}

// NewHandler creates a new API handler
func NewHandler(eng *engine.Engine, registry *health.Registry, maxProgramBytes int64, logger *logging.Logger) *Handler {
	return &Handler{
		engine:          eng,
		health:          registry,
		maxProgramBytes: maxProgramBytes,
		logger:          logger,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/healthz":
		h.handleHealth(w, r)
	case "/api/run":
		h.handleRun(w, r)
	default:
		h.writeError(w, mdwerror.Newf("no route for %s", r.URL.Path).WithCode(mdwerror.CodeNotFound))
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeMethodNotAllowed(w, "GET")
		return
	}

	report := h.health.CheckWithTimeout(5 * time.Second)
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeMethodNotAllowed(w, "POST")
		return
	}

	// JSON escaping can grow the source, so the body limit is looser
	// than the program limit checked below
	body := http.MaxBytesReader(w, r.Body, 2*h.maxProgramBytes+4096)
	var req RunRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		h.writeError(w, mdwerror.Wrap(err, "invalid JSON body").WithCode(mdwerror.CodeInvalidInput))
		return
	}

	report, err := runRequest(r.Context(), h.engine, req, h.maxProgramBytes, io.Discard)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error: "use " + allow,
		Code:  "METHOD_NOT_ALLOWED",
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := mdwerror.GetCode(err)
	resp := ErrorResponse{
		Error: err.Error(),
		Code:  code.String(),
	}
	if e, ok := err.(*mdwerror.Error); ok {
		resp.Error = e.Message()
		if cause := e.Cause(); cause != nil {
			resp.Details = cause.Error()
		}
	}
	if code.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("request failed", "code", code, "error", err)
	}
	h.writeJSON(w, code.HTTPStatus(), resp)
}
