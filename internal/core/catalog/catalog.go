package catalog

import (
	"errors"

	"github.com/artpar/retinue/internal/core/domain"
)

// =============================================================================
// Lookup Options
// =============================================================================

// LookupOptions disambiguates same-named unit cards.
type LookupOptions struct {
	// Title selects a character variant. When set, only cards with exactly
	// this title match.
	Title string

	// Faction is the roster's faction. When set, a matching card of that
	// faction is preferred over same-named cards of other factions.
	Faction domain.Faction
}

// =============================================================================
// Catalog
// =============================================================================

// Catalog is an immutable index of unit and upgrade cards.
// A built Catalog is never modified and is safe for concurrent lookups.
type Catalog struct {
	units    []domain.UnitCard
	upgrades []domain.UpgradeCard

	// unitsByName maps a card name to indexes into units, in insertion order.
	unitsByName    map[string][]int
	upgradesByName map[string]int
}

// LookupUnit finds the unit card for a name.
//
// Candidates are the cards with exactly this name. A non-empty Title narrows
// them to that title. Among what remains, the first card of opts.Faction
// wins, falling back to the first remaining card.
func (c *Catalog) LookupUnit(name string, opts LookupOptions) (domain.UnitCard, bool) {
	var (
		first     = -1
		preferred = -1
	)
	for _, i := range c.unitsByName[name] {
		card := c.units[i]
		if opts.Title != "" && card.Title != opts.Title {
			continue
		}
		if first < 0 {
			first = i
		}
		if !opts.Faction.IsCustom() && card.Faction == opts.Faction {
			preferred = i
			break
		}
	}

	switch {
	case preferred >= 0:
		return c.units[preferred], true
	case first >= 0:
		return c.units[first], true
	default:
		return domain.UnitCard{}, false
	}
}

// LookupUpgrade finds the upgrade card for a name.
func (c *Catalog) LookupUpgrade(name string) (domain.UpgradeCard, bool) {
	i, ok := c.upgradesByName[name]
	if !ok {
		return domain.UpgradeCard{}, false
	}
	return c.upgrades[i], true
}

// Units returns all unit cards in insertion order.
func (c *Catalog) Units() []domain.UnitCard {
	out := make([]domain.UnitCard, len(c.units))
	copy(out, c.units)
	return out
}

// Upgrades returns all upgrade cards in insertion order.
func (c *Catalog) Upgrades() []domain.UpgradeCard {
	out := make([]domain.UpgradeCard, len(c.upgrades))
	copy(out, c.upgrades)
	return out
}

// Variants returns every unit card sharing a name, in insertion order.
func (c *Catalog) Variants(name string) []domain.UnitCard {
	idx := c.unitsByName[name]
	out := make([]domain.UnitCard, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.units[i])
	}
	return out
}

// Len returns the total number of cards.
func (c *Catalog) Len() int {
	return len(c.units) + len(c.upgrades)
}

// =============================================================================
// Builder
// =============================================================================

type unitKey struct {
	name    string
	title   string
	faction domain.Faction
}

// Builder accumulates data banks into a Catalog.
// A Builder is not safe for concurrent use.
type Builder struct {
	units    []domain.UnitCard
	upgrades []domain.UpgradeCard
	seen     map[unitKey]struct{}
	upgradeN map[string]int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		seen:     make(map[unitKey]struct{}),
		upgradeN: make(map[string]int),
	}
}

// AddData validates and adds every card of a data bank.
// The bank is added atomically: on error no card from it is kept.
func (b *Builder) AddData(bank DataBank) error {
	pendingUnits := make(map[unitKey]struct{}, len(bank.Units))
	for i, card := range bank.Units {
		if err := domain.ValidateUnitCard(card); err != nil {
			return &CardError{Kind: "unit", Index: i, Name: card.Name, Err: errors.Join(ErrInvalidCard, err)}
		}
		key := unitKey{name: card.Name, title: card.Title, faction: card.Faction}
		if _, dup := b.seen[key]; dup {
			return &CardError{Kind: "unit", Index: i, Name: card.DisplayName(), Err: ErrDuplicateUnit}
		}
		if _, dup := pendingUnits[key]; dup {
			return &CardError{Kind: "unit", Index: i, Name: card.DisplayName(), Err: ErrDuplicateUnit}
		}
		pendingUnits[key] = struct{}{}
	}

	pendingUpgrades := make(map[string]struct{}, len(bank.Upgrades))
	for i, card := range bank.Upgrades {
		if err := domain.ValidateUpgradeCard(card); err != nil {
			return &CardError{Kind: "upgrade", Index: i, Name: card.Name, Err: errors.Join(ErrInvalidCard, err)}
		}
		if _, dup := b.upgradeN[card.Name]; dup {
			return &CardError{Kind: "upgrade", Index: i, Name: card.Name, Err: ErrDuplicateUpgrade}
		}
		if _, dup := pendingUpgrades[card.Name]; dup {
			return &CardError{Kind: "upgrade", Index: i, Name: card.Name, Err: ErrDuplicateUpgrade}
		}
		pendingUpgrades[card.Name] = struct{}{}
	}

	for key := range pendingUnits {
		b.seen[key] = struct{}{}
	}
	b.units = append(b.units, bank.Units...)
	for _, card := range bank.Upgrades {
		b.upgradeN[card.Name] = len(b.upgrades)
		b.upgrades = append(b.upgrades, card)
	}
	return nil
}

// Build returns a Catalog of every card added so far. The Builder may keep
// being used; later additions do not affect catalogs already built.
func (b *Builder) Build() *Catalog {
	c := &Catalog{
		units:          make([]domain.UnitCard, len(b.units)),
		upgrades:       make([]domain.UpgradeCard, len(b.upgrades)),
		unitsByName:    make(map[string][]int, len(b.units)),
		upgradesByName: make(map[string]int, len(b.upgrades)),
	}
	copy(c.units, b.units)
	copy(c.upgrades, b.upgrades)

	for i, card := range c.units {
		c.unitsByName[card.Name] = append(c.unitsByName[card.Name], i)
	}
	for name, i := range b.upgradeN {
		c.upgradesByName[name] = i
	}
	return c
}
