package api

import (
	"net/http"
	"runtime"
	"strconv"

	"github.com/artpar/retinue/internal/core/domain"
	"github.com/artpar/retinue/internal/core/roster"
	"github.com/artpar/retinue/internal/core/validation"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// Resolve Handlers
// =============================================================================

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	var record domain.RosterRecord
	if !h.decodeJSON(w, r, &record) {
		return
	}

	resp := h.resolve(record)
	if len(resp.Unresolved) > 0 {
		diags := roster.Diagnostics{Unresolved: resp.Unresolved}
		h.logger.Warn("roster resolved with unresolved names",
			"roster", record.Name,
			"units", diags.Count(roster.KindUnit),
			"upgrades", diags.Count(roster.KindUpgrade)+diags.Count(roster.KindLoadout),
		)
		if strict(r) {
			h.writeJSON(w, http.StatusUnprocessableEntity, resp)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleResolveBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchResolveRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if allowed, reason := validation.CanResolveBatch(len(req.Records), h.maxBatch); !allowed {
		h.writeError(w, http.StatusRequestEntityTooLarge, reason, "batch_too_large")
		return
	}

	results := make([]ResolveResponse, len(req.Records))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, record := range req.Records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = h.resolve(record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if isCanceled(err) {
			h.logger.Debug("batch resolve canceled", "error", err)
			return
		}
		h.logger.Error("batch resolve failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to resolve batch", "internal_error")
		return
	}

	h.logger.Debug("batch resolved", "records", len(results))
	h.writeJSON(w, http.StatusOK, BatchResolveResponse{Results: results})
}

// resolve resolves a record against the loaded catalog.
func (h *Handler) resolve(record domain.RosterRecord) ResolveResponse {
	resolved, diags := roster.ResolveWithDiagnostics(record, h.catalog)
	unresolved := diags.Unresolved
	if unresolved == nil {
		unresolved = []roster.Unresolved{}
	}
	return ResolveResponse{Roster: resolved, Unresolved: unresolved}
}

// strict reports whether the request asks for unresolved names to fail it.
func strict(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("strict"))
	return err == nil && v
}
