// Package api provides HTTP handlers for the Retinue API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/artpar/retinue/internal/core/catalog"
	"github.com/artpar/retinue/internal/shell/api/openapi"
	"github.com/artpar/retinue/internal/shell/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxBatch caps the number of records in one batch resolve request.
const DefaultMaxBatch = 50

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
type Handler struct {
	store    store.Store
	catalog  *catalog.Catalog
	openapi  *openapi.Generator
	logger   *slog.Logger
	maxBatch int
}

// NewHandler creates a new API handler.
// maxBatch <= 0 selects DefaultMaxBatch.
func NewHandler(s store.Store, c *catalog.Catalog, l *slog.Logger, maxBatch int) *Handler {
	if l == nil {
		l = slog.Default()
	}
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	return &Handler{
		store:    s,
		catalog:  c,
		openapi:  newSpecGenerator(),
		logger:   l,
		maxBatch: maxBatch,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.jsonContentType)
	r.Use(h.requestIDHeader)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)
	r.Get("/openapi.json", h.openapi.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resolve", h.handleResolve)
		r.Post("/resolve/batch", h.handleResolveBatch)

		// Saved roster routes
		r.Route("/rosters", func(r chi.Router) {
			r.Post("/", h.handleCreateRoster)
			r.Get("/", h.handleListRosters)
			r.Get("/{id}", h.handleGetRoster)
			r.Put("/{id}", h.handleUpdateRoster)
			r.Delete("/{id}", h.handleDeleteRoster)
			r.Get("/{id}/resolved", h.handleGetResolvedRoster)
		})

		// Catalog routes
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/units", h.handleListUnits)
			r.Get("/upgrades", h.handleListUpgrades)
			r.Get("/upgrades/{name}", h.handleGetUpgrade)
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	ready := true

	if h.catalog == nil || h.catalog.Len() == 0 {
		checks["catalog"] = "empty"
		ready = false
	} else {
		checks["catalog"] = "ok"
	}

	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("database ping failed", "error", err)
		checks["database"] = "failed"
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if !ready {
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error(), "validation_error")
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// listOptions reads limit and offset query parameters, ignoring malformed values.
func listOptions(r *http.Request) store.ListOptions {
	opts := store.DefaultListOptions()

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			opts.Limit = l
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil {
			opts.Offset = o
		}
	}
	return opts.Normalize()
}

// isCanceled reports whether the request context ended the operation.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
