package api

import (
	"net/http"

	"github.com/artpar/retinue/internal/core/domain"
	"github.com/artpar/retinue/internal/shell/api/openapi"
)

// newSpecGenerator registers every route served by Routes.
func newSpecGenerator() *openapi.Generator {
	g := openapi.NewGenerator()

	g.RegisterResource(openapi.ResourceInfo{
		Name:           "rosters",
		Model:          RosterResponse{},
		Input:          domain.RosterRecord{},
		List:           ListRostersResponse{},
		SupportsList:   true,
		SupportsGet:    true,
		SupportsCreate: true,
		SupportsUpdate: true,
		SupportsDelete: true,
	})

	for _, op := range []openapi.OperationInfo{
		{
			Method:      http.MethodPost,
			Path:        "/api/v1/resolve",
			OperationID: "resolveRoster",
			Summary:     "Resolve a roster record against the catalog",
			Tag:         "Resolve",
			Request:     domain.RosterRecord{},
			Response:    ResolveResponse{},
			Parameters:  []openapi.ParamInfo{{Name: "strict", In: "query"}},
		},
		{
			Method:      http.MethodPost,
			Path:        "/api/v1/resolve/batch",
			OperationID: "resolveRosterBatch",
			Summary:     "Resolve many roster records",
			Tag:         "Resolve",
			Request:     BatchResolveRequest{},
			Response:    BatchResolveResponse{},
		},
		{
			Method:      http.MethodGet,
			Path:        "/api/v1/rosters/{id}/resolved",
			OperationID: "getResolvedRoster",
			Summary:     "Resolve a saved roster",
			Tag:         "Rosters",
			Response:    ResolvedRosterResponse{},
			Parameters:  []openapi.ParamInfo{{Name: "id", In: "path", Required: true}},
		},
		{
			Method:      http.MethodGet,
			Path:        "/api/v1/catalog/units",
			OperationID: "listUnits",
			Summary:     "List or look up unit cards",
			Tag:         "Catalog",
			Response:    ListUnitsResponse{},
			Parameters: []openapi.ParamInfo{
				{Name: "name", In: "query"},
				{Name: "title", In: "query"},
				{Name: "faction", In: "query"},
				{Name: "keyword", In: "query"},
				{Name: "unique", In: "query"},
			},
		},
		{
			Method:      http.MethodGet,
			Path:        "/api/v1/catalog/upgrades",
			OperationID: "listUpgrades",
			Summary:     "List upgrade cards",
			Tag:         "Catalog",
			Response:    ListUpgradesResponse{},
		},
		{
			Method:      http.MethodGet,
			Path:        "/api/v1/catalog/upgrades/{name}",
			OperationID: "getUpgrade",
			Summary:     "Look up an upgrade card",
			Tag:         "Catalog",
			Response:    domain.UpgradeCard{},
			Parameters:  []openapi.ParamInfo{{Name: "name", In: "path", Required: true}},
		},
		{
			Method:      http.MethodGet,
			Path:        "/health",
			OperationID: "health",
			Summary:     "Liveness check",
			Tag:         "Health",
			Response:    HealthResponse{},
		},
		{
			Method:      http.MethodGet,
			Path:        "/ready",
			OperationID: "ready",
			Summary:     "Readiness check",
			Tag:         "Health",
			Response:    ReadyResponse{},
		},
	} {
		g.RegisterOperation(op)
	}

	return g
}
