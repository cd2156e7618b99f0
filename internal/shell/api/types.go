package api

import (
	"time"

	"github.com/artpar/retinue/internal/core/domain"
	"github.com/artpar/retinue/internal/core/roster"
)

// =============================================================================
// Request Types
// =============================================================================

// BatchResolveRequest is the request body for resolving many records at once.
type BatchResolveRequest struct {
	Records []domain.RosterRecord `json:"records"`
}

// =============================================================================
// Response Types
// =============================================================================

// ResolveResponse is a resolved roster plus the names that did not resolve.
type ResolveResponse struct {
	Roster     roster.Roster       `json:"roster"`
	Unresolved []roster.Unresolved `json:"unresolved"`
}

// BatchResolveResponse holds one result per request record, in request order.
type BatchResolveResponse struct {
	Results []ResolveResponse `json:"results"`
}

// RosterResponse is the response for saved roster operations.
type RosterResponse struct {
	ID        string              `json:"id"`
	Slug      string              `json:"slug"`
	Name      string              `json:"name"`
	Faction   domain.Faction      `json:"faction,omitempty"`
	Units     []domain.UnitRecord `json:"units"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// ResolvedRosterResponse is a saved roster resolved against the loaded catalog.
type ResolvedRosterResponse struct {
	ID         string              `json:"id"`
	Roster     roster.Roster       `json:"roster"`
	Unresolved []roster.Unresolved `json:"unresolved"`
}

// ListRostersResponse is the response for listing saved rosters.
type ListRostersResponse struct {
	Rosters []RosterResponse `json:"rosters"`
	Total   int              `json:"total"` // across all pages
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ListUnitsResponse is the response for unit card queries.
type ListUnitsResponse struct {
	Units []domain.UnitCard `json:"units"`
	Total int               `json:"total"`
}

// ListUpgradesResponse is the response for listing upgrade cards.
type ListUpgradesResponse struct {
	Upgrades []domain.UpgradeCard `json:"upgrades"`
	Total    int                  `json:"total"`
}

// ErrorResponse is the error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
