// Package api exposes the HTTP trigger surface: the Pub/Sub push endpoint,
// the run history, and a liveness probe.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ftplake/internal/domain"
	"ftplake/internal/middleware"
	"ftplake/internal/service/pipeline"
)

// Handler serves the trigger endpoints.
type Handler struct {
	runner pipeline.Runner
	runs   domain.RunRepository // nil when the run log is disabled
	logger *slog.Logger
}

// NewHandler creates the API handler. runs may be nil.
func NewHandler(runner pipeline.Runner, runs domain.RunRepository, logger *slog.Logger) *Handler {
	return &Handler{runner: runner, runs: runs, logger: logger}
}

// RouterOptions carries the middleware configuration for the router.
type RouterOptions struct {
	RateLimit middleware.RateLimitConfig
	// PushAuth verifies push delivery tokens; nil disables verification.
	PushAuth middleware.TokenVerifier
}

// NewRouter builds the chi router: /healthz is public, /pubsub/push and
// /runs sit behind request IDs, rate limiting, and optional push auth.
func NewRouter(h *Handler, opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimiter(opts.RateLimit))
		if opts.PushAuth != nil {
			r.Use(middleware.PushAuth(opts.PushAuth))
		}
		r.Post("/pubsub/push", h.Push)
		r.Get("/runs", h.ListRuns)
	})

	return r
}

// pushEnvelope is the standard Pub/Sub push delivery wrapper. Data is
// base64 on the wire; encoding/json decodes it into raw bytes.
type pushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageID  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// pushResponse reports the invocation outcome in the (always-acked) response.
type pushResponse struct {
	Status     string `json:"status"`
	Stage      string `json:"stage,omitempty"`
	RowsLoaded int64  `json:"rows_loaded,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Push handles one push delivery. A decodable envelope is always answered
// with 200 so Pub/Sub does not redeliver: retrying cannot fix a missing
// remote file or bad attributes, and the outcome is recorded in the run log.
// Only an undecodable body gets a 400.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	var env pushEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, "malformed push envelope", http.StatusBadRequest)
		return
	}

	h.logger.Info("push delivery received",
		"message_id", env.Message.MessageID,
		"subscription", env.Subscription,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)

	res := h.runner.Run(r.Context(), string(env.Message.Data), env.Message.Attributes)

	resp := pushResponse{Status: string(res.Status), Stage: string(res.Stage), RowsLoaded: res.RowsLoaded}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRuns returns the most recent run records, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		http.Error(w, "run log disabled", http.StatusNotFound)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.runs.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list runs failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []domain.RunRecord{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
