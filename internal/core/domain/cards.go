// Package domain contains the core card and record types and their validation.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"errors"
	"strings"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// Card validation errors
	ErrCardNameRequired   = errors.New("card name is required")
	ErrCardPointsNegative = errors.New("card points cannot be negative")
	ErrCardInvalidFaction = errors.New("invalid faction")
	ErrCardInvalidRank    = errors.New("invalid rank")
	ErrCardInvalidUpgrade = errors.New("invalid upgrade type")
	ErrCardNegativeStat   = errors.New("card stats cannot be negative")
)

// =============================================================================
// Faction
// =============================================================================

// Faction is the army a unit belongs to, or the faction a roster was built for.
// The empty Faction marks a custom roster where no list-building rules apply.
type Faction string

const (
	FactionNone               Faction = ""
	FactionGalacticEmpire     Faction = "Galactic Empire"
	FactionRebelAlliance      Faction = "Rebel Alliance"
	FactionGalacticRepublic   Faction = "Galactic Republic"
	FactionSeparatistAlliance Faction = "Separatist Alliance"
	FactionShadowCollective   Faction = "Shadow Collective"
)

// IsValid checks if the faction is one of the known factions.
// The empty faction is not valid; callers treat it as "custom" separately.
func (f Faction) IsValid() bool {
	switch f {
	case FactionGalacticEmpire, FactionRebelAlliance, FactionGalacticRepublic,
		FactionSeparatistAlliance, FactionShadowCollective:
		return true
	default:
		return false
	}
}

// IsCustom reports whether the faction is unset.
func (f Faction) IsCustom() bool {
	return f == FactionNone
}

// =============================================================================
// Rank
// =============================================================================

type Rank string

const (
	RankCommander     Rank = "Commander"
	RankOperative     Rank = "Operative"
	RankCorps         Rank = "Corps"
	RankSpecialForces Rank = "Special Forces"
	RankSupport       Rank = "Support"
	RankHeavy         Rank = "Heavy"
)

// IsValid checks if the rank is valid.
func (r Rank) IsValid() bool {
	switch r {
	case RankCommander, RankOperative, RankCorps, RankSpecialForces, RankSupport, RankHeavy:
		return true
	default:
		return false
	}
}

// =============================================================================
// Upgrade Types
// =============================================================================

type UpgradeType string

const (
	UpgradeForce       UpgradeType = "Force"
	UpgradeCommand     UpgradeType = "Command"
	UpgradeHeavyWeapon UpgradeType = "Heavy Weapon"
	UpgradePersonnel   UpgradeType = "Personnel"
	UpgradeGear        UpgradeType = "Gear"
	UpgradeGrenades    UpgradeType = "Grenades"
	UpgradeComms       UpgradeType = "Comms"
	UpgradeTraining    UpgradeType = "Training"
	UpgradeArmament    UpgradeType = "Armament"
	UpgradePilot       UpgradeType = "Pilot"
	UpgradeHardpoint   UpgradeType = "Hardpoint"
	UpgradeCrew        UpgradeType = "Crew"
	UpgradeGenerator   UpgradeType = "Generator"
	UpgradeOrdnance    UpgradeType = "Ordnance"
	UpgradeProgramming UpgradeType = "Programming"
)

// IsValid checks if the upgrade type is valid.
func (t UpgradeType) IsValid() bool {
	switch t {
	case UpgradeForce, UpgradeCommand, UpgradeHeavyWeapon, UpgradePersonnel,
		UpgradeGear, UpgradeGrenades, UpgradeComms, UpgradeTraining,
		UpgradeArmament, UpgradePilot, UpgradeHardpoint, UpgradeCrew,
		UpgradeGenerator, UpgradeOrdnance, UpgradeProgramming:
		return true
	default:
		return false
	}
}

// =============================================================================
// UnitCard
// =============================================================================

// UnitCard is the catalog's fully attributed description of a unit.
// Cards are reference data owned by the catalog and never modified.
type UnitCard struct {
	Name       string        `json:"name" yaml:"name"`
	Title      string        `json:"title,omitempty" yaml:"title,omitempty"`
	Faction    Faction       `json:"faction,omitempty" yaml:"faction,omitempty"`
	Rank       Rank          `json:"rank,omitempty" yaml:"rank,omitempty"`
	Points     int           `json:"points" yaml:"points"`
	Type       string        `json:"type,omitempty" yaml:"type,omitempty"`
	Minis      int           `json:"minis,omitempty" yaml:"minis,omitempty"`
	Wounds     int           `json:"wounds,omitempty" yaml:"wounds,omitempty"`
	Courage    int           `json:"courage,omitempty" yaml:"courage,omitempty"`
	Defense    string        `json:"defense,omitempty" yaml:"defense,omitempty"`
	Speed      int           `json:"speed,omitempty" yaml:"speed,omitempty"`
	Keywords   []string      `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	UpgradeBar []UpgradeType `json:"upgrade_bar,omitempty" yaml:"upgrade_bar,omitempty"`
	Text       string        `json:"text,omitempty" yaml:"text,omitempty"`
}

// HasKeyword reports whether the card lists the keyword.
// Keywords may carry a value ("Loadout", "Arsenal 2"); only the name is compared.
func (c UnitCard) HasKeyword(keyword string) bool {
	for _, k := range c.Keywords {
		if strings.EqualFold(keywordName(k), keyword) {
			return true
		}
	}
	return false
}

// IsUnique reports whether the card is a named character.
func (c UnitCard) IsUnique() bool {
	return c.Title != ""
}

// DisplayName returns "Name: Title" for titled cards and Name otherwise.
func (c UnitCard) DisplayName() string {
	if c.Title == "" {
		return c.Name
	}
	return c.Name + ": " + c.Title
}

// ValidateUnitCard validates a unit card.
func ValidateUnitCard(c UnitCard) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCardNameRequired
	}
	if c.Points < 0 {
		return ErrCardPointsNegative
	}
	if c.Faction != FactionNone && !c.Faction.IsValid() {
		return ErrCardInvalidFaction
	}
	if c.Rank != "" && !c.Rank.IsValid() {
		return ErrCardInvalidRank
	}
	if c.Minis < 0 || c.Wounds < 0 || c.Courage < 0 || c.Speed < 0 {
		return ErrCardNegativeStat
	}
	for _, slot := range c.UpgradeBar {
		if !slot.IsValid() {
			return ErrCardInvalidUpgrade
		}
	}
	return nil
}

// =============================================================================
// UpgradeCard
// =============================================================================

// UpgradeCard is the catalog's fully attributed description of an upgrade.
type UpgradeCard struct {
	Name         string      `json:"name" yaml:"name"`
	Type         UpgradeType `json:"type,omitempty" yaml:"type,omitempty"`
	Points       int         `json:"points" yaml:"points"`
	Exhaust      bool        `json:"exhaust,omitempty" yaml:"exhaust,omitempty"`
	Restrictions string      `json:"restrictions,omitempty" yaml:"restrictions,omitempty"`
	Keywords     []string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Text         string      `json:"text,omitempty" yaml:"text,omitempty"`
}

// ValidateUpgradeCard validates an upgrade card.
func ValidateUpgradeCard(c UpgradeCard) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCardNameRequired
	}
	if c.Points < 0 {
		return ErrCardPointsNegative
	}
	if c.Type != "" && !c.Type.IsValid() {
		return ErrCardInvalidUpgrade
	}
	return nil
}

func keywordName(k string) string {
	k = strings.TrimSpace(k)
	if i := strings.LastIndexAny(k, " :"); i > 0 {
		// "Master of the Force 1" -> "Master of the Force"
		if _, ok := keywordValue(k[i+1:]); ok {
			return strings.TrimRight(k[:i], " :")
		}
	}
	return k
}

func keywordValue(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return s, true
}
