package main

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// ── Engine ──────────────────────────────────────────────────────────

// Engine runs the depth-first spell search over a fixed catalog.
// An Engine holds no per-search state and may be shared between goroutines.
type Engine struct {
	catalog Catalog
	budget  int
	log     *zap.Logger
}

// NewEngine validates the catalog and iteration budget. A nil logger
// disables logging.
func NewEngine(catalog Catalog, budget int, log *zap.Logger) (*Engine, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	if budget <= 0 {
		return nil, &ConfigError{Field: "max_iterations", Reason: fmt.Sprintf("must be positive, got %d", budget)}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{catalog: catalog, budget: budget, log: log}, nil
}

// Catalog returns the engine's catalog. Callers must not modify it.
func (e *Engine) Catalog() Catalog { return e.catalog }

// Budget returns the iteration budget of each search.
func (e *Engine) Budget() int { return e.budget }

// Search is a one-shot helper equivalent to NewEngine followed by Engine.Search.
func Search(target int, catalog Catalog, budget, tolerance int) (SearchOutcome, error) {
	e, err := NewEngine(catalog, budget, nil)
	if err != nil {
		return SearchOutcome{}, err
	}
	return e.Search(target, tolerance)
}

// Search looks for the sequence of spells whose damage meets target with
// the smallest overshoot, stopping as soon as the overshoot is within
// tolerance.
//
// The walk is depth-first. After a cast that leaves the target alive the
// next depth starts over from the strongest spell. A cast that reaches the
// target is a leaf: it is scored, and the search backtracks to the nearest
// depth that still has a weaker spell to try.
func (e *Engine) Search(target, tolerance int) (SearchOutcome, error) {
	if tolerance < 0 {
		return SearchOutcome{}, &ConfigError{Field: "threshold_damage", Reason: fmt.Sprintf("must not be negative, got %d", tolerance)}
	}
	if err := checkTarget(target); err != nil {
		return SearchOutcome{}, err
	}

	st := searchState{remaining: target}
	best := BestSolution{Remainder: noSolution}
	cat := e.catalog

	finish := func(kind OutcomeKind) (SearchOutcome, error) {
		out := SearchOutcome{Kind: kind, Iterations: st.iterations}
		if best.Remainder != noSolution {
			b := best
			out.Best = &b
		}
		e.log.Debug("search finished",
			zap.Int("target", target),
			zap.Stringer("outcome", kind),
			zap.Int("iterations", st.iterations),
			zap.Int("remainder", best.Remainder))
		return out, nil
	}

	for {
		st.remaining -= cat[st.cursor].Damage
		st.path = append(st.path, st.cursor)
		st.iterations++

		if st.remaining > 0 {
			st.cursor = 0
		} else {
			overshoot := -st.remaining
			if overshoot < best.Remainder {
				best = BestSolution{Path: slices.Clone(st.path), Remainder: overshoot}
				e.log.Debug("better solution",
					zap.Int("remainder", overshoot),
					zap.Int("depth", len(st.path)),
					zap.Int("iterations", st.iterations))
			}
			if overshoot <= tolerance {
				return finish(GoodEnough)
			}
			if !st.backtrack(cat) {
				return finish(Exhausted)
			}
		}

		if st.iterations >= e.budget {
			return finish(BudgetExhausted)
		}
	}
}

func checkTarget(target int) error {
	if target < -maxMagnitude || target > maxMagnitude {
		return fmt.Errorf("%w: %d is outside ±%d", ErrTargetRange, target, maxMagnitude)
	}
	return nil
}

// backtrack undoes casts until one of them has a weaker sibling and points
// the cursor at it. It returns false once the root has no sibling left.
func (st *searchState) backtrack(cat Catalog) bool {
	for len(st.path) > 0 {
		last := st.path[len(st.path)-1]
		st.path = st.path[:len(st.path)-1]
		st.remaining += cat[last].Damage
		if last+1 < len(cat) {
			st.cursor = last + 1
			return true
		}
	}
	return false
}
