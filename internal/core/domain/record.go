package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// Record parsing errors
	ErrRecordEmpty   = errors.New("roster record is empty")
	ErrRecordInvalid = errors.New("roster record is not valid YAML or JSON")

	// Record validation errors
	ErrRosterNameRequired = errors.New("roster name is required")
	ErrRosterNameTooLong  = errors.New("roster name must be at most 100 characters")
	ErrUnitNameRequired   = errors.New("unit name is required")
	ErrRosterFaction      = errors.New("roster faction is not a known faction")
)

// RecordError points at the record field that failed validation.
type RecordError struct {
	Field string // e.g., "units[2].name"
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// =============================================================================
// Records
// =============================================================================

// UnitRecord is a recorded "raw" unit: a name-keyed, unresolved data-exchange
// shape that, paired with a catalog, resolves into a full unit.
//
// Title disambiguates character variants (e.g. "Jedi Knight" for
// "Luke Skywalker: Jedi Knight"). A nil Loadout means the unit has none; a
// non-nil empty Loadout is an explicitly empty alternative set. JSON keeps
// the two apart (null and []).
type UnitRecord struct {
	Name     string   `json:"name" yaml:"name"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Upgrades []string `json:"upgrades" yaml:"upgrades,omitempty"`
	Loadout  []string `json:"loadout" yaml:"loadout,omitempty"`
}

// RosterRecord is a recorded "raw" army list.
//
// An empty Faction marks a custom roster where normal list-building rules do
// not apply (house rules or homebrew).
type RosterRecord struct {
	Name    string       `json:"name" yaml:"name"`
	Faction Faction      `json:"faction,omitempty" yaml:"faction,omitempty"`
	Units   []UnitRecord `json:"units" yaml:"units"`
}

// ParseRosterRecord parses a YAML or JSON roster record.
// JSON is accepted because it is a subset of YAML.
func ParseRosterRecord(data []byte) (RosterRecord, error) {
	if strings.TrimSpace(string(data)) == "" {
		return RosterRecord{}, ErrRecordEmpty
	}

	var record RosterRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return RosterRecord{}, fmt.Errorf("%w: %v", ErrRecordInvalid, err)
	}
	return record, nil
}

// ValidateRosterRecord checks that a record is well formed before it is
// stored. It does not check list-building legality, and Resolve never
// requires it: unknown names are skipped during resolution.
func ValidateRosterRecord(r RosterRecord) error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return &RecordError{Field: "name", Err: ErrRosterNameRequired}
	}
	if len(name) > 100 {
		return &RecordError{Field: "name", Err: ErrRosterNameTooLong}
	}
	if !r.Faction.IsCustom() && !r.Faction.IsValid() {
		return &RecordError{Field: "faction", Err: ErrRosterFaction}
	}
	for i, u := range r.Units {
		if strings.TrimSpace(u.Name) == "" {
			return &RecordError{Field: fmt.Sprintf("units[%d].name", i), Err: ErrUnitNameRequired}
		}
	}
	return nil
}

// =============================================================================
// SavedRoster
// =============================================================================

// SavedRoster is a roster record persisted by a caller.
type SavedRoster struct {
	ID        string       `json:"id"`
	Slug      string       `json:"slug"`
	Record    RosterRecord `json:"record"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewSavedRoster validates the record and wraps it for persistence.
func NewSavedRoster(record RosterRecord) (*SavedRoster, error) {
	if err := ValidateRosterRecord(record); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &SavedRoster{
		ID:        "rst_" + uuid.New().String()[:8],
		Slug:      Slugify(record.Name),
		Record:    record,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Replace swaps in a new record after validating it.
func (s *SavedRoster) Replace(record RosterRecord) error {
	if err := ValidateRosterRecord(record); err != nil {
		return err
	}
	s.Record = record
	s.Slug = Slugify(record.Name)
	s.UpdatedAt = time.Now().UTC()
	return nil
}
