package main

import (
	"fmt"
	"math"
)

// Spell is a named, fixed-damage action that can be cast any number of times.
type Spell struct {
	Name   string `json:"name"`
	Damage int    `json:"damage"`
}

// SpellRecord is a spell as it appears in the config file.
type SpellRecord struct {
	Name    string `json:"name" yaml:"name"`
	Damage  int    `json:"damage" yaml:"damage"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Catalog is the enabled spells of a session, sorted by descending damage.
// Build it with NewCatalog; searches index into it and never modify it.
type Catalog []Spell

// OutcomeKind is why a search stopped.
type OutcomeKind int

const (
	// GoodEnough: a leaf within tolerance stopped the search.
	GoodEnough OutcomeKind = iota
	// Exhausted: every branch from the root was tried.
	Exhausted
	// BudgetExhausted: the iteration budget ran out first.
	BudgetExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case GoodEnough:
		return "good_enough"
	case Exhausted:
		return "exhausted"
	case BudgetExhausted:
		return "budget_exhausted"
	}
	return "unknown"
}

// StopReason is the human-readable line printed when a search ends.
func (k OutcomeKind) StopReason() string {
	switch k {
	case GoodEnough:
		return "Ended Search: Found good enough solution!"
	case Exhausted:
		return "Ended Search: Looped through all solutions!"
	case BudgetExhausted:
		return "Ended Search: took too long!"
	}
	return "Ended Search"
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for _, c := range []OutcomeKind{GoodEnough, Exhausted, BudgetExhausted} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// noSolution is the remainder of a BestSolution before any leaf is reached.
const noSolution = math.MaxInt

// BestSolution is the smallest-overshoot sequence seen so far.
type BestSolution struct {
	Path      []int `json:"path"`      // catalog indices in cast order
	Remainder int   `json:"remainder"` // damage sum minus target, >= 0
}

// SearchOutcome is the result of one Engine.Search call.
type SearchOutcome struct {
	Kind       OutcomeKind   `json:"outcome"`
	Best       *BestSolution `json:"best,omitempty"` // nil if no leaf was reached
	Iterations int           `json:"iterations"`
}

// searchState is owned by a single Search call.
type searchState struct {
	remaining  int
	path       []int
	cursor     int
	iterations int
}
