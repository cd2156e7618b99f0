package roster

import "github.com/artpar/retinue/internal/core/domain"

// ToRecord projects a resolved unit back to its record form.
// Card metadata beyond name and title is discarded. A nil Loadout stays nil.
func (u Unit) ToRecord() domain.UnitRecord {
	rec := domain.UnitRecord{
		Name:     u.Card.Name,
		Title:    u.Card.Title,
		Upgrades: upgradeNames(u.Upgrades),
	}
	if u.Loadout != nil {
		rec.Loadout = upgradeNames(u.Loadout)
	}
	return rec
}

// ToRecord projects a resolved roster back to its record form.
//
// The projection is lossy: names dropped during resolution are gone, so
// ToRecord(Resolve(r, c)) differs from r whenever a lookup failed. Resolving
// the projection again with the same catalog yields the same roster.
func (r Roster) ToRecord() domain.RosterRecord {
	units := make([]domain.UnitRecord, 0, len(r.Units))
	for _, u := range r.Units {
		units = append(units, u.ToRecord())
	}
	return domain.RosterRecord{
		Name:    r.Name,
		Faction: r.Faction,
		Units:   units,
	}
}

func upgradeNames(cards []domain.UpgradeCard) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.Name)
	}
	return names
}
