package store

import (
	"context"

	"github.com/artpar/retinue/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for saved roster records.
type Store interface {
	// Roster operations
	CreateRoster(ctx context.Context, roster *domain.SavedRoster) error
	GetRoster(ctx context.Context, id string) (*domain.SavedRoster, error)
	GetRosterBySlug(ctx context.Context, slug string) (*domain.SavedRoster, error)
	UpdateRoster(ctx context.Context, roster *domain.SavedRoster) error
	DeleteRoster(ctx context.Context, id string) error
	ListRosters(ctx context.Context, opts ListOptions) ([]domain.SavedRoster, error)
	ListRostersByFaction(ctx context.Context, faction domain.Faction, opts ListOptions) ([]domain.SavedRoster, error)
	CountRosters(ctx context.Context) (int, error)
	CountRostersByFaction(ctx context.Context, faction domain.Faction) (int, error)

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// ListOptions defines pagination and filtering options.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  100,
		Offset: 0,
	}
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
