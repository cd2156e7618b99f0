package catalog

import (
	"testing"

	"github.com/artpar/retinue/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

const testDataBank = `
units:
  - name: Darth Vader
    title: Dark Lord of the Sith
    faction: Galactic Empire
    rank: Commander
    points: 200
    wounds: 8
    upgrade_bar: [Force, Force, Force]
  - name: Darth Vader
    title: Master of Evil
    faction: Galactic Empire
    rank: Commander
    points: 170
  - name: Stormtroopers
    faction: Galactic Empire
    rank: Corps
    points: 44
    minis: 4
    upgrade_bar: [Heavy Weapon, Personnel, Gear, Grenades]
  - name: Boba Fett
    title: Infamous Bounty Hunter
    faction: Galactic Empire
    rank: Operative
    points: 140
  - name: Boba Fett
    title: Infamous Bounty Hunter
    faction: Shadow Collective
    rank: Operative
    points: 130
upgrades:
  - name: DLT-19 Stormtrooper
    type: Heavy Weapon
    points: 20
  - name: Targeting Scopes
    type: Gear
    points: 4
`

func buildTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	bank, err := ParseDataBank([]byte(testDataBank))
	require.NoError(t, err)

	b := NewBuilder()
	require.NoError(t, b.AddData(bank))
	return b.Build()
}

// =============================================================================
// LookupUnit Tests
// =============================================================================

func TestLookupUnit_ByName(t *testing.T) {
	c := buildTestCatalog(t)

	card, ok := c.LookupUnit("Stormtroopers", LookupOptions{})
	require.True(t, ok)
	assert.Equal(t, "Stormtroopers", card.Name)
	assert.Equal(t, 44, card.Points)
	assert.Equal(t, domain.RankCorps, card.Rank)
}

func TestLookupUnit_Unknown(t *testing.T) {
	c := buildTestCatalog(t)

	_, ok := c.LookupUnit("Snowtroopers", LookupOptions{})
	assert.False(t, ok)
}

func TestLookupUnit_NameIsExact(t *testing.T) {
	c := buildTestCatalog(t)

	_, ok := c.LookupUnit("stormtroopers", LookupOptions{})
	assert.False(t, ok)
}

func TestLookupUnit_TitleSelectsVariant(t *testing.T) {
	c := buildTestCatalog(t)

	card, ok := c.LookupUnit("Darth Vader", LookupOptions{Title: "Master of Evil"})
	require.True(t, ok)
	assert.Equal(t, "Master of Evil", card.Title)
	assert.Equal(t, 170, card.Points)

	card, ok = c.LookupUnit("Darth Vader", LookupOptions{Title: "Dark Lord of the Sith"})
	require.True(t, ok)
	assert.Equal(t, "Dark Lord of the Sith", card.Title)
	assert.Equal(t, 200, card.Points)
}

func TestLookupUnit_UnknownTitle(t *testing.T) {
	c := buildTestCatalog(t)

	_, ok := c.LookupUnit("Darth Vader", LookupOptions{Title: "Sith Apprentice"})
	assert.False(t, ok)
}

func TestLookupUnit_NoTitleTakesFirstVariant(t *testing.T) {
	c := buildTestCatalog(t)

	card, ok := c.LookupUnit("Darth Vader", LookupOptions{})
	require.True(t, ok)
	assert.Equal(t, "Dark Lord of the Sith", card.Title)
}

func TestLookupUnit_FactionPreferred(t *testing.T) {
	c := buildTestCatalog(t)

	testCases := []struct {
		faction domain.Faction
		points  int
	}{
		{domain.FactionShadowCollective, 130},
		{domain.FactionGalacticEmpire, 140},
		{domain.FactionNone, 140},
		{domain.FactionRebelAlliance, 140}, // no Rebel variant, falls back
	}

	for _, tc := range testCases {
		t.Run(string(tc.faction), func(t *testing.T) {
			card, ok := c.LookupUnit("Boba Fett", LookupOptions{
				Title:   "Infamous Bounty Hunter",
				Faction: tc.faction,
			})
			require.True(t, ok)
			assert.Equal(t, tc.points, card.Points)
		})
	}
}

// =============================================================================
// LookupUpgrade Tests
// =============================================================================

func TestLookupUpgrade(t *testing.T) {
	c := buildTestCatalog(t)

	card, ok := c.LookupUpgrade("DLT-19 Stormtrooper")
	require.True(t, ok)
	assert.Equal(t, 20, card.Points)
	assert.Equal(t, domain.UpgradeHeavyWeapon, card.Type)

	_, ok = c.LookupUpgrade("E-11D Grenade Launcher")
	assert.False(t, ok)
}

// =============================================================================
// Listing Tests
// =============================================================================

func TestCatalog_Listing(t *testing.T) {
	c := buildTestCatalog(t)

	assert.Equal(t, 7, c.Len())
	units := c.Units()
	require.Len(t, units, 5)
	assert.Equal(t, "Darth Vader", units[0].Name)
	assert.Equal(t, "Boba Fett", units[4].Name)

	upgrades := c.Upgrades()
	require.Len(t, upgrades, 2)
	assert.Equal(t, "Targeting Scopes", upgrades[1].Name)

	variants := c.Variants("Darth Vader")
	require.Len(t, variants, 2)
	assert.Equal(t, "Master of Evil", variants[1].Title)
	assert.Empty(t, c.Variants("Luke Skywalker"))
}

func TestCatalog_ListingIsCopy(t *testing.T) {
	c := buildTestCatalog(t)

	units := c.Units()
	units[0].Points = 1

	card, ok := c.LookupUnit("Darth Vader", LookupOptions{})
	require.True(t, ok)
	assert.Equal(t, 200, card.Points)
}

// =============================================================================
// Builder Tests
// =============================================================================

func TestBuilder_MultipleBanks(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddData(DataBank{
		Units: []domain.UnitCard{{Name: "Stormtroopers", Faction: domain.FactionGalacticEmpire, Points: 44}},
	}))
	require.NoError(t, b.AddData(DataBank{
		Upgrades: []domain.UpgradeCard{{Name: "DLT-19 Stormtrooper", Points: 20}},
	}))

	c := b.Build()
	_, ok := c.LookupUnit("Stormtroopers", LookupOptions{})
	assert.True(t, ok)
	_, ok = c.LookupUpgrade("DLT-19 Stormtrooper")
	assert.True(t, ok)
}

func TestBuilder_BuildIsSnapshot(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddData(DataBank{Units: []domain.UnitCard{{Name: "Stormtroopers", Points: 44}}}))
	first := b.Build()

	require.NoError(t, b.AddData(DataBank{Units: []domain.UnitCard{{Name: "Snowtroopers", Points: 48}}}))
	second := b.Build()

	_, ok := first.LookupUnit("Snowtroopers", LookupOptions{})
	assert.False(t, ok)
	_, ok = second.LookupUnit("Snowtroopers", LookupOptions{})
	assert.True(t, ok)
}

func TestBuilder_DuplicateUnit(t *testing.T) {
	b := NewBuilder()
	unit := domain.UnitCard{Name: "Darth Vader", Title: "Dark Lord of the Sith", Faction: domain.FactionGalacticEmpire, Points: 200}

	require.NoError(t, b.AddData(DataBank{Units: []domain.UnitCard{unit}}))
	err := b.AddData(DataBank{Units: []domain.UnitCard{unit}})
	assert.ErrorIs(t, err, ErrDuplicateUnit)

	var cardErr *CardError
	require.ErrorAs(t, err, &cardErr)
	assert.Equal(t, "unit", cardErr.Kind)
	assert.Equal(t, "Darth Vader: Dark Lord of the Sith", cardErr.Name)
}

func TestBuilder_DuplicateWithinBank(t *testing.T) {
	b := NewBuilder()
	err := b.AddData(DataBank{Upgrades: []domain.UpgradeCard{
		{Name: "Targeting Scopes", Points: 4},
		{Name: "Targeting Scopes", Points: 6},
	}})
	assert.ErrorIs(t, err, ErrDuplicateUpgrade)

	var cardErr *CardError
	require.ErrorAs(t, err, &cardErr)
	assert.Equal(t, 1, cardErr.Index)
}

func TestBuilder_InvalidCardRejectsWholeBank(t *testing.T) {
	b := NewBuilder()
	err := b.AddData(DataBank{
		Units: []domain.UnitCard{
			{Name: "Stormtroopers", Points: 44},
			{Name: "Broken", Points: -1},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidCard)
	assert.ErrorIs(t, err, domain.ErrCardPointsNegative)

	c := b.Build()
	assert.Equal(t, 0, c.Len())

	// The rejected bank left nothing behind, so it can be fixed and re-added.
	require.NoError(t, b.AddData(DataBank{Units: []domain.UnitCard{{Name: "Stormtroopers", Points: 44}}}))
}

func TestBuilder_SameNameDifferentFaction(t *testing.T) {
	b := NewBuilder()
	err := b.AddData(DataBank{Units: []domain.UnitCard{
		{Name: "Boba Fett", Title: "Infamous Bounty Hunter", Faction: domain.FactionGalacticEmpire, Points: 140},
		{Name: "Boba Fett", Title: "Infamous Bounty Hunter", Faction: domain.FactionShadowCollective, Points: 130},
	}})
	assert.NoError(t, err)
}

// =============================================================================
// ParseDataBank Tests
// =============================================================================

func TestParseDataBank_JSON(t *testing.T) {
	bank, err := ParseDataBank([]byte(`{"units":[{"name":"Stormtroopers","points":44,"keywords":["Precise 1"]}],"upgrades":[]}`))
	require.NoError(t, err)
	require.Len(t, bank.Units, 1)
	assert.Equal(t, []string{"Precise 1"}, bank.Units[0].Keywords)
}

func TestParseDataBank_Empty(t *testing.T) {
	_, err := ParseDataBank([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ParseDataBank([]byte("units: []\n"))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseDataBank_Invalid(t *testing.T) {
	_, err := ParseDataBank([]byte("units: [[["))
	assert.ErrorIs(t, err, ErrInvalidData)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
