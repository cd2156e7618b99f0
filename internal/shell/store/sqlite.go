package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artpar/retinue/internal/core/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// Executor Interface - Shared by DB and Transaction
// =============================================================================

// executor abstracts database operations that can be performed on both
// a database connection and a transaction.
type executor interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sqlx.Open("sqlite3", dsn+sep+"_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to open database", ErrConnectionFailed)
	}

	// Every connection to :memory: is a separate database.
	if strings.HasPrefix(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("Ping", "", "", err.Error(), ErrConnectionFailed)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Roster Operations
// =============================================================================

// rosterRow represents a roster row in the database.
type rosterRow struct {
	ID        string `db:"id"`
	Slug      string `db:"slug"`
	Name      string `db:"name"`
	Faction   string `db:"faction"`
	Units     string `db:"units"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (s *SQLiteStore) CreateRoster(ctx context.Context, roster *domain.SavedRoster) error {
	return createRoster(ctx, s.db, roster)
}

func (s *SQLiteStore) GetRoster(ctx context.Context, id string) (*domain.SavedRoster, error) {
	return getRoster(ctx, s.db, id)
}

func (s *SQLiteStore) GetRosterBySlug(ctx context.Context, slug string) (*domain.SavedRoster, error) {
	return getRosterBySlug(ctx, s.db, slug)
}

func (s *SQLiteStore) UpdateRoster(ctx context.Context, roster *domain.SavedRoster) error {
	return updateRoster(ctx, s.db, roster)
}

func (s *SQLiteStore) DeleteRoster(ctx context.Context, id string) error {
	return deleteRoster(ctx, s.db, id)
}

func (s *SQLiteStore) ListRosters(ctx context.Context, opts ListOptions) ([]domain.SavedRoster, error) {
	return listRosters(ctx, s.db, opts)
}

func (s *SQLiteStore) ListRostersByFaction(ctx context.Context, faction domain.Faction, opts ListOptions) ([]domain.SavedRoster, error) {
	return listRostersByFaction(ctx, s.db, faction, opts)
}

func (s *SQLiteStore) CountRosters(ctx context.Context) (int, error) {
	return countRosters(ctx, s.db)
}

func (s *SQLiteStore) CountRostersByFaction(ctx context.Context, faction domain.Faction) (int, error) {
	return countRostersByFaction(ctx, s.db, faction)
}

// =============================================================================
// Transaction Support
// =============================================================================

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return NewStoreError("WithTx", "", "", "failed to begin transaction", ErrTxFailed)
	}

	txS := &txSQLiteStore{tx: tx}

	if err := fn(txS); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return NewStoreError("WithTx", "", "", fmt.Sprintf("rollback failed after error: %v", err), ErrTxFailed)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return NewStoreError("WithTx", "", "", "failed to commit transaction", ErrTxFailed)
	}

	return nil
}

// =============================================================================
// Transaction Store
// =============================================================================

// txSQLiteStore implements Store within a transaction.
type txSQLiteStore struct {
	tx *sqlx.Tx
}

func (s *txSQLiteStore) CreateRoster(ctx context.Context, roster *domain.SavedRoster) error {
	return createRoster(ctx, s.tx, roster)
}

func (s *txSQLiteStore) GetRoster(ctx context.Context, id string) (*domain.SavedRoster, error) {
	return getRoster(ctx, s.tx, id)
}

func (s *txSQLiteStore) GetRosterBySlug(ctx context.Context, slug string) (*domain.SavedRoster, error) {
	return getRosterBySlug(ctx, s.tx, slug)
}

func (s *txSQLiteStore) UpdateRoster(ctx context.Context, roster *domain.SavedRoster) error {
	return updateRoster(ctx, s.tx, roster)
}

func (s *txSQLiteStore) DeleteRoster(ctx context.Context, id string) error {
	return deleteRoster(ctx, s.tx, id)
}

func (s *txSQLiteStore) ListRosters(ctx context.Context, opts ListOptions) ([]domain.SavedRoster, error) {
	return listRosters(ctx, s.tx, opts)
}

func (s *txSQLiteStore) ListRostersByFaction(ctx context.Context, faction domain.Faction, opts ListOptions) ([]domain.SavedRoster, error) {
	return listRostersByFaction(ctx, s.tx, faction, opts)
}

func (s *txSQLiteStore) CountRosters(ctx context.Context) (int, error) {
	return countRosters(ctx, s.tx)
}

func (s *txSQLiteStore) CountRostersByFaction(ctx context.Context, faction domain.Faction) (int, error) {
	return countRostersByFaction(ctx, s.tx, faction)
}

func (s *txSQLiteStore) WithTx(ctx context.Context, fn func(Store) error) error {
	// Already in a transaction, just run the function
	return fn(s)
}

func (s *txSQLiteStore) Ping(ctx context.Context) error {
	return nil
}

func (s *txSQLiteStore) Close() error {
	// No-op for tx store
	return nil
}

// =============================================================================
// Shared Implementation Functions
// =============================================================================

// timeFormat is fixed width so timestamps sort correctly as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func rosterToRow(op string, roster *domain.SavedRoster) (map[string]any, error) {
	units := roster.Record.Units
	if units == nil {
		units = []domain.UnitRecord{}
	}
	unitsJSON, err := json.Marshal(units)
	if err != nil {
		return nil, NewStoreError(op, "roster", roster.ID, "failed to serialize units", ErrInvalidData)
	}

	return map[string]any{
		"id":         roster.ID,
		"slug":       roster.Slug,
		"name":       roster.Record.Name,
		"faction":    string(roster.Record.Faction),
		"units":      string(unitsJSON),
		"created_at": roster.CreatedAt.UTC().Format(timeFormat),
		"updated_at": roster.UpdatedAt.UTC().Format(timeFormat),
	}, nil
}

func createRoster(ctx context.Context, exec executor, roster *domain.SavedRoster) error {
	row, err := rosterToRow("CreateRoster", roster)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rosters (id, slug, name, faction, units, created_at, updated_at)
		VALUES (:id, :slug, :name, :faction, :units, :created_at, :updated_at)`

	_, err = exec.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: rosters.id") {
			return NewStoreError("CreateRoster", "roster", roster.ID, "roster with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateRoster", "roster", roster.ID, err.Error(), err)
	}

	return nil
}

func getRoster(ctx context.Context, exec executor, id string) (*domain.SavedRoster, error) {
	query := `SELECT * FROM rosters WHERE id = ?`

	var row rosterRow
	err := exec.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetRoster", "roster", id, "roster not found", ErrNotFound)
		}
		return nil, NewStoreError("GetRoster", "roster", id, err.Error(), err)
	}

	return rowToRoster(&row)
}

// getRosterBySlug returns the most recently created roster with the slug.
func getRosterBySlug(ctx context.Context, exec executor, slug string) (*domain.SavedRoster, error) {
	query := `SELECT * FROM rosters WHERE slug = ? ORDER BY created_at DESC, id LIMIT 1`

	var row rosterRow
	err := exec.GetContext(ctx, &row, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetRosterBySlug", "roster", slug, "roster not found", ErrNotFound)
		}
		return nil, NewStoreError("GetRosterBySlug", "roster", slug, err.Error(), err)
	}

	return rowToRoster(&row)
}

func updateRoster(ctx context.Context, exec executor, roster *domain.SavedRoster) error {
	row, err := rosterToRow("UpdateRoster", roster)
	if err != nil {
		return err
	}

	query := `
		UPDATE rosters SET
			slug = :slug,
			name = :name,
			faction = :faction,
			units = :units,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := exec.NamedExecContext(ctx, query, row)
	if err != nil {
		return NewStoreError("UpdateRoster", "roster", roster.ID, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("UpdateRoster", "roster", roster.ID, "roster not found", ErrNotFound)
	}

	return nil
}

func deleteRoster(ctx context.Context, exec executor, id string) error {
	query := `DELETE FROM rosters WHERE id = ?`

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return NewStoreError("DeleteRoster", "roster", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteRoster", "roster", id, "roster not found", ErrNotFound)
	}

	return nil
}

func listRosters(ctx context.Context, exec executor, opts ListOptions) ([]domain.SavedRoster, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM rosters ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	var rows []rosterRow
	if err := exec.SelectContext(ctx, &rows, query, opts.Limit, opts.Offset); err != nil {
		return nil, NewStoreError("ListRosters", "roster", "", err.Error(), err)
	}
	return rowsToRosters(rows)
}

func listRostersByFaction(ctx context.Context, exec executor, faction domain.Faction, opts ListOptions) ([]domain.SavedRoster, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM rosters WHERE faction = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?`

	var rows []rosterRow
	if err := exec.SelectContext(ctx, &rows, query, string(faction), opts.Limit, opts.Offset); err != nil {
		return nil, NewStoreError("ListRostersByFaction", "roster", "", err.Error(), err)
	}
	return rowsToRosters(rows)
}

func countRosters(ctx context.Context, exec executor) (int, error) {
	var count int
	if err := exec.GetContext(ctx, &count, `SELECT COUNT(*) FROM rosters`); err != nil {
		return 0, NewStoreError("CountRosters", "roster", "", err.Error(), err)
	}
	return count, nil
}

func countRostersByFaction(ctx context.Context, exec executor, faction domain.Faction) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rosters WHERE faction = ?`
	if err := exec.GetContext(ctx, &count, query, string(faction)); err != nil {
		return 0, NewStoreError("CountRostersByFaction", "roster", "", err.Error(), err)
	}
	return count, nil
}

// =============================================================================
// Row Conversion Functions
// =============================================================================

// rowToRoster converts a database row to a domain.SavedRoster.
func rowToRoster(row *rosterRow) (*domain.SavedRoster, error) {
	createdAt, _ := time.Parse(timeFormat, row.CreatedAt)
	updatedAt, _ := time.Parse(timeFormat, row.UpdatedAt)

	var units []domain.UnitRecord
	if row.Units != "" && row.Units != "null" {
		if err := json.Unmarshal([]byte(row.Units), &units); err != nil {
			return nil, NewStoreError("rowToRoster", "roster", row.ID, "failed to parse units", ErrInvalidData)
		}
	}

	return &domain.SavedRoster{
		ID:   row.ID,
		Slug: row.Slug,
		Record: domain.RosterRecord{
			Name:    row.Name,
			Faction: domain.Faction(row.Faction),
			Units:   units,
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func rowsToRosters(rows []rosterRow) ([]domain.SavedRoster, error) {
	rosters := make([]domain.SavedRoster, 0, len(rows))
	for i := range rows {
		roster, err := rowToRoster(&rows[i])
		if err != nil {
			return nil, err
		}
		rosters = append(rosters, *roster)
	}
	return rosters, nil
}
