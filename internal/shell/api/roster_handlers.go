package api

import (
	"net/http"

	"github.com/artpar/retinue/internal/core/domain"
	"github.com/artpar/retinue/internal/core/validation"
	"github.com/artpar/retinue/internal/shell/store"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// Saved Roster Handlers
// =============================================================================

func (h *Handler) handleCreateRoster(w http.ResponseWriter, r *http.Request) {
	var record domain.RosterRecord
	if !h.decodeJSON(w, r, &record) {
		return
	}

	saved, err := domain.NewSavedRoster(record)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}

	if err := h.store.CreateRoster(r.Context(), saved); err != nil {
		h.logger.Error("failed to create roster", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create roster", "internal_error")
		return
	}

	h.logger.Info("roster created", "roster_id", saved.ID, "name", saved.Record.Name)
	h.writeJSON(w, http.StatusCreated, rosterToResponse(saved))
}

func (h *Handler) handleGetRoster(w http.ResponseWriter, r *http.Request) {
	saved, ok := h.loadRoster(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, rosterToResponse(saved))
}

func (h *Handler) handleListRosters(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)

	var (
		rosters []domain.SavedRoster
		total   int
		err     error
	)
	faction := r.URL.Query().Get("faction")
	if field, msg := validation.ValidateFactionParam(faction); field != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}
	if faction != "" {
		rosters, err = h.store.ListRostersByFaction(r.Context(), domain.Faction(faction), opts)
		if err == nil {
			total, err = h.store.CountRostersByFaction(r.Context(), domain.Faction(faction))
		}
	} else {
		rosters, err = h.store.ListRosters(r.Context(), opts)
		if err == nil {
			total, err = h.store.CountRosters(r.Context())
		}
	}
	if err != nil {
		h.logger.Error("failed to list rosters", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list rosters", "internal_error")
		return
	}

	resp := ListRostersResponse{
		Rosters: make([]RosterResponse, 0, len(rosters)),
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}
	for i := range rosters {
		resp.Rosters = append(resp.Rosters, rosterToResponse(&rosters[i]))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateRoster(w http.ResponseWriter, r *http.Request) {
	var record domain.RosterRecord
	if !h.decodeJSON(w, r, &record) {
		return
	}
	if err := domain.ValidateRosterRecord(record); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}

	id := chi.URLParam(r, "id")
	var updated *domain.SavedRoster
	err := h.store.WithTx(r.Context(), func(tx store.Store) error {
		saved, err := tx.GetRoster(r.Context(), id)
		if err != nil {
			return err
		}
		if err := saved.Replace(record); err != nil {
			return err
		}
		updated = saved
		return tx.UpdateRoster(r.Context(), saved)
	})
	if err != nil {
		if store.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "roster not found", "roster_not_found")
			return
		}
		h.logger.Error("failed to update roster", "roster_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update roster", "internal_error")
		return
	}

	h.logger.Info("roster updated", "roster_id", id)
	h.writeJSON(w, http.StatusOK, rosterToResponse(updated))
}

func (h *Handler) handleDeleteRoster(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteRoster(r.Context(), id); err != nil {
		if store.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "roster not found", "roster_not_found")
			return
		}
		h.logger.Error("failed to delete roster", "roster_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete roster", "internal_error")
		return
	}

	h.logger.Info("roster deleted", "roster_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetResolvedRoster(w http.ResponseWriter, r *http.Request) {
	saved, ok := h.loadRoster(w, r)
	if !ok {
		return
	}

	resp := h.resolve(saved.Record)
	h.writeJSON(w, http.StatusOK, ResolvedRosterResponse{
		ID:         saved.ID,
		Roster:     resp.Roster,
		Unresolved: resp.Unresolved,
	})
}

// loadRoster fetches the roster named by the {id} URL parameter. The id may
// also be a slug. On failure the error response is already written.
func (h *Handler) loadRoster(w http.ResponseWriter, r *http.Request) (*domain.SavedRoster, bool) {
	id := chi.URLParam(r, "id")

	saved, err := h.store.GetRoster(r.Context(), id)
	if store.IsNotFound(err) {
		saved, err = h.store.GetRosterBySlug(r.Context(), id)
	}
	if err != nil {
		if store.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, "roster not found", "roster_not_found")
			return nil, false
		}
		h.logger.Error("failed to get roster", "roster_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get roster", "internal_error")
		return nil, false
	}
	return saved, true
}

func rosterToResponse(s *domain.SavedRoster) RosterResponse {
	units := s.Record.Units
	if units == nil {
		units = []domain.UnitRecord{}
	}
	return RosterResponse{
		ID:        s.ID,
		Slug:      s.Slug,
		Name:      s.Record.Name,
		Faction:   s.Record.Faction,
		Units:     units,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
