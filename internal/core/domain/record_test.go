package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Parsing Tests
// =============================================================================

func TestParseRosterRecord_YAML(t *testing.T) {
	data := `
name: Roster
faction: Galactic Empire
units:
  - name: Darth Vader
    title: Dark Lord of the Sith
  - name: Stormtroopers
    upgrades:
      - DLT-19 Stormtrooper
`
	record, err := ParseRosterRecord([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "Roster", record.Name)
	assert.Equal(t, FactionGalacticEmpire, record.Faction)
	require.Len(t, record.Units, 2)
	assert.Equal(t, "Dark Lord of the Sith", record.Units[0].Title)
	assert.Nil(t, record.Units[0].Upgrades)
	assert.Equal(t, []string{"DLT-19 Stormtrooper"}, record.Units[1].Upgrades)
	assert.Nil(t, record.Units[1].Loadout)
}

func TestParseRosterRecord_JSON(t *testing.T) {
	data := `{"name":"Clones","units":[{"name":"Clone Troopers","loadout":[]}]}`

	record, err := ParseRosterRecord([]byte(data))
	require.NoError(t, err)

	assert.True(t, record.Faction.IsCustom())
	require.Len(t, record.Units, 1)
	assert.NotNil(t, record.Units[0].Loadout, "explicit empty loadout is kept")
	assert.Empty(t, record.Units[0].Loadout)
}

func TestUnitRecord_JSONKeepsAbsentAndEmptyApart(t *testing.T) {
	record := RosterRecord{
		Name: "Clones",
		Units: []UnitRecord{
			{Name: "Clone Troopers", Upgrades: []string{}, Loadout: []string{}},
			{Name: "Clone Troopers"},
		},
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Clones","units":[
		{"name":"Clone Troopers","upgrades":[],"loadout":[]},
		{"name":"Clone Troopers","upgrades":null,"loadout":null}]}`, string(data))

	var decoded RosterRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Units, 2)
	assert.NotNil(t, decoded.Units[0].Upgrades)
	assert.NotNil(t, decoded.Units[0].Loadout)
	assert.Nil(t, decoded.Units[1].Upgrades)
	assert.Nil(t, decoded.Units[1].Loadout)
}

func TestParseRosterRecord_Empty(t *testing.T) {
	_, err := ParseRosterRecord([]byte("   \n"))
	assert.ErrorIs(t, err, ErrRecordEmpty)
}

func TestParseRosterRecord_Invalid(t *testing.T) {
	_, err := ParseRosterRecord([]byte("units: [[["))
	assert.ErrorIs(t, err, ErrRecordInvalid)
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestValidateRosterRecord(t *testing.T) {
	testCases := []struct {
		name   string
		record RosterRecord
		field  string
		err    error
	}{
		{
			name:   "valid",
			record: RosterRecord{Name: "Roster", Faction: FactionGalacticEmpire, Units: []UnitRecord{{Name: "Stormtroopers"}}},
		},
		{
			name:   "custom with no units",
			record: RosterRecord{Name: "Homebrew"},
		},
		{
			name:   "missing name",
			record: RosterRecord{Name: " "},
			field:  "name",
			err:    ErrRosterNameRequired,
		},
		{
			name:   "long name",
			record: RosterRecord{Name: strings.Repeat("a", 101)},
			field:  "name",
			err:    ErrRosterNameTooLong,
		},
		{
			name:   "unknown faction",
			record: RosterRecord{Name: "Roster", Faction: "Empire"},
			field:  "faction",
			err:    ErrRosterFaction,
		},
		{
			name:   "unit without name",
			record: RosterRecord{Name: "Roster", Units: []UnitRecord{{Name: "Stormtroopers"}, {Title: "Jedi Knight"}}},
			field:  "units[1].name",
			err:    ErrUnitNameRequired,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRosterRecord(tc.record)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)

			var recErr *RecordError
			require.ErrorAs(t, err, &recErr)
			assert.Equal(t, tc.field, recErr.Field)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

// =============================================================================
// SavedRoster Tests
// =============================================================================

func TestNewSavedRoster(t *testing.T) {
	record := RosterRecord{Name: "Vader's Fist", Faction: FactionGalacticEmpire}

	saved, err := NewSavedRoster(record)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(saved.ID, "rst_"))
	assert.Len(t, saved.ID, 12)
	assert.Equal(t, "vaders-fist", saved.Slug)
	assert.Equal(t, record, saved.Record)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
}

func TestNewSavedRoster_Invalid(t *testing.T) {
	_, err := NewSavedRoster(RosterRecord{})
	assert.ErrorIs(t, err, ErrRosterNameRequired)
}

func TestSavedRoster_Replace(t *testing.T) {
	saved, err := NewSavedRoster(RosterRecord{Name: "First"})
	require.NoError(t, err)
	created := saved.CreatedAt

	require.NoError(t, saved.Replace(RosterRecord{Name: "Second List"}))
	assert.Equal(t, "Second List", saved.Record.Name)
	assert.Equal(t, "second-list", saved.Slug)
	assert.Equal(t, created, saved.CreatedAt)
	assert.False(t, saved.UpdatedAt.Before(created))

	assert.ErrorIs(t, saved.Replace(RosterRecord{}), ErrRosterNameRequired)
	assert.Equal(t, "Second List", saved.Record.Name)
}
