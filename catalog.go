package main

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrEmptyCatalog is returned when no spell is enabled.
var ErrEmptyCatalog = errors.New("no spells are enabled")

// ErrTargetRange is returned for a target whose magnitude exceeds
// maxMagnitude.
var ErrTargetRange = errors.New("target out of range")

// maxMagnitude bounds spell damage and the absolute value of a target, so
// the remaining health of a search cannot wrap.
const maxMagnitude = 1 << 31

// ConfigError reports a configuration value the search cannot run with.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// NewCatalog filters records to the enabled ones and sorts them by
// descending damage. Spells with equal damage keep their config order.
func NewCatalog(records []SpellRecord) (Catalog, error) {
	cat := make(Catalog, 0, len(records))
	for i, r := range records {
		if !r.Enabled {
			continue
		}
		if r.Damage <= 0 || r.Damage > maxMagnitude {
			return nil, &ConfigError{
				Field:  fmt.Sprintf("spells[%d].damage", i),
				Reason: fmt.Sprintf("must be in 1..%d, got %d (%q)", maxMagnitude, r.Damage, r.Name),
			}
		}
		cat = append(cat, Spell{Name: r.Name, Damage: r.Damage})
	}
	if len(cat) == 0 {
		return nil, ErrEmptyCatalog
	}
	slices.SortStableFunc(cat, func(a, b Spell) int {
		return cmp.Compare(b.Damage, a.Damage)
	})
	return cat, nil
}

// Damage returns the total damage of casting the spells at path in order.
func (c Catalog) Damage(path []int) int {
	total := 0
	for _, idx := range path {
		total += c[idx].Damage
	}
	return total
}

// Names maps catalog indices to spell names.
func (c Catalog) Names(path []int) []string {
	names := make([]string, len(path))
	for i, idx := range path {
		names[i] = c[idx].Name
	}
	return names
}
