package roster

import (
	"fmt"
	"strings"
)

// Kind says which part of a record a name came from.
type Kind string

const (
	KindUnit    Kind = "unit"
	KindUpgrade Kind = "upgrade"
	KindLoadout Kind = "loadout"
)

// Unresolved is a record name with no matching card.
type Unresolved struct {
	Kind  Kind   `json:"kind"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	// UnitIndex is the position of the unit in the input record.
	UnitIndex int `json:"unit_index"`
}

func (u Unresolved) String() string {
	name := u.Name
	if u.Title != "" {
		name += ": " + u.Title
	}
	return fmt.Sprintf("units[%d] %s %q", u.UnitIndex, u.Kind, name)
}

// Diagnostics lists the names dropped while resolving a record.
type Diagnostics struct {
	Unresolved []Unresolved `json:"unresolved,omitempty"`
}

func (d *Diagnostics) add(u Unresolved) {
	d.Unresolved = append(d.Unresolved, u)
}

// Empty reports whether every name resolved.
func (d Diagnostics) Empty() bool {
	return len(d.Unresolved) == 0
}

// Count returns how many names of a kind failed to resolve.
func (d Diagnostics) Count(kind Kind) int {
	n := 0
	for _, u := range d.Unresolved {
		if u.Kind == kind {
			n++
		}
	}
	return n
}

func (d Diagnostics) String() string {
	parts := make([]string, 0, len(d.Unresolved))
	for _, u := range d.Unresolved {
		parts = append(parts, u.String())
	}
	return strings.Join(parts, "; ")
}
