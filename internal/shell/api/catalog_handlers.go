package api

import (
	"net/http"
	"strconv"

	"github.com/artpar/retinue/internal/core/catalog"
	"github.com/artpar/retinue/internal/core/domain"
	"github.com/artpar/retinue/internal/core/validation"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// Catalog Handlers
// =============================================================================

// handleListUnits lists unit cards. Without a name it lists every card,
// optionally narrowed by faction, keyword and uniqueness. With a name and a title or faction it
// returns the single card a roster with those values would resolve to; with
// only a name it returns every variant.
func (h *Handler) handleListUnits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if field, msg := validation.ValidateFactionParam(q.Get("faction")); field != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}

	unique, err := parseUniqueParam(q.Get("unique"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "unique must be true or false", "validation_error")
		return
	}

	name := q.Get("name")
	keyword := q.Get("keyword")
	opts := catalog.LookupOptions{
		Title:   q.Get("title"),
		Faction: domain.Faction(q.Get("faction")),
	}

	var units []domain.UnitCard
	switch {
	case name == "":
		for _, card := range h.catalog.Units() {
			if !opts.Faction.IsCustom() && card.Faction != opts.Faction {
				continue
			}
			if keyword != "" && !card.HasKeyword(keyword) {
				continue
			}
			if unique != nil && card.IsUnique() != *unique {
				continue
			}
			units = append(units, card)
		}
	case opts.Title != "" || !opts.Faction.IsCustom():
		card, ok := h.catalog.LookupUnit(name, opts)
		if !ok {
			h.writeError(w, http.StatusNotFound, "unit not found", "unit_not_found")
			return
		}
		units = []domain.UnitCard{card}
	default:
		units = h.catalog.Variants(name)
		if len(units) == 0 {
			h.writeError(w, http.StatusNotFound, "unit not found", "unit_not_found")
			return
		}
	}

	if units == nil {
		units = []domain.UnitCard{}
	}
	h.writeJSON(w, http.StatusOK, ListUnitsResponse{Units: units, Total: len(units)})
}

// parseUniqueParam returns nil when the filter is unset.
func parseUniqueParam(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (h *Handler) handleListUpgrades(w http.ResponseWriter, r *http.Request) {
	upgrades := h.catalog.Upgrades()
	h.writeJSON(w, http.StatusOK, ListUpgradesResponse{Upgrades: upgrades, Total: len(upgrades)})
}

func (h *Handler) handleGetUpgrade(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	card, ok := h.catalog.LookupUpgrade(name)
	if !ok {
		h.writeError(w, http.StatusNotFound, "upgrade not found", "upgrade_not_found")
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}
