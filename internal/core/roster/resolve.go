package roster

import (
	"github.com/artpar/retinue/internal/core/catalog"
	"github.com/artpar/retinue/internal/core/domain"
)

// =============================================================================
// Catalog Capability
// =============================================================================

// Catalog is the lookup capability Resolve needs. Lookups must be free of
// side effects and report unknown names with ok == false.
// *catalog.Catalog implements it.
type Catalog interface {
	LookupUnit(name string, opts catalog.LookupOptions) (domain.UnitCard, bool)
	LookupUpgrade(name string) (domain.UpgradeCard, bool)
}

var _ Catalog = (*catalog.Catalog)(nil)

// =============================================================================
// Resolved Types
// =============================================================================

// Unit is a resolved domain.UnitRecord: the unit card plus resolved upgrades.
// A Unit always has a card; units that do not resolve are never built.
type Unit struct {
	Card     domain.UnitCard      `json:"card"`
	Upgrades []domain.UpgradeCard `json:"upgrades"`
	Loadout  []domain.UpgradeCard `json:"loadout,omitempty"`
}

// Points returns the unit card's cost plus its upgrades. Loadout is excluded.
func (u Unit) Points() int {
	total := u.Card.Points
	for _, up := range u.Upgrades {
		total += up.Points
	}
	return total
}

// Roster is a resolved domain.RosterRecord.
// Points always equals the sum of Unit.Points over Units.
type Roster struct {
	Name    string         `json:"name"`
	Faction domain.Faction `json:"faction,omitempty"`
	Units   []Unit         `json:"units"`
	Points  int            `json:"points"`
}

// =============================================================================
// Resolution
// =============================================================================

// Resolve creates a roster by resolving a record in the context of a catalog.
// Names that do not resolve are skipped; see ResolveWithDiagnostics.
func Resolve(record domain.RosterRecord, c Catalog) Roster {
	r, _ := resolve(record, c, false)
	return r
}

// ResolveWithDiagnostics resolves like Resolve and also reports every name
// that failed to resolve, in the order encountered.
func ResolveWithDiagnostics(record domain.RosterRecord, c Catalog) (Roster, Diagnostics) {
	return resolve(record, c, true)
}

func resolve(record domain.RosterRecord, c Catalog, collect bool) (Roster, Diagnostics) {
	var diags Diagnostics
	units := make([]Unit, 0, len(record.Units))
	points := 0

	for i, rec := range record.Units {
		card, ok := c.LookupUnit(rec.Name, catalog.LookupOptions{
			Title:   rec.Title,
			Faction: record.Faction,
		})
		if !ok {
			if collect {
				diags.add(Unresolved{Kind: KindUnit, Name: rec.Name, Title: rec.Title, UnitIndex: i})
			}
			continue
		}

		unit := Unit{
			Card:     card,
			Upgrades: resolveUpgrades(rec.Upgrades, c, KindUpgrade, i, collect, &diags),
			Loadout:  resolveUpgrades(rec.Loadout, c, KindLoadout, i, collect, &diags),
		}
		units = append(units, unit)
		points += unit.Points()
	}

	return Roster{
		Name:    record.Name,
		Faction: record.Faction,
		Units:   units,
		Points:  points,
	}, diags
}

// resolveUpgrades returns a non-nil slice of the cards that resolved, in input order.
func resolveUpgrades(names []string, c Catalog, kind Kind, unitIndex int, collect bool, diags *Diagnostics) []domain.UpgradeCard {
	cards := make([]domain.UpgradeCard, 0, len(names))
	for _, name := range names {
		card, ok := c.LookupUpgrade(name)
		if !ok {
			if collect {
				diags.add(Unresolved{Kind: kind, Name: name, UnitIndex: unitIndex})
			}
			continue
		}
		cards = append(cards, card)
	}
	return cards
}
