package main

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func catalogOf(t *testing.T, damages ...int) Catalog {
	t.Helper()
	recs := make([]SpellRecord, len(damages))
	for i, d := range damages {
		recs[i] = SpellRecord{Name: string(rune('a' + i)), Damage: d, Enabled: true}
	}
	cat, err := NewCatalog(recs)
	require.NoError(t, err)
	return cat
}

func towerCatalog(t *testing.T) Catalog {
	t.Helper()
	cat, err := NewCatalog([]SpellRecord{
		{Name: "rocket", Damage: 371, Enabled: true},
		{Name: "poison", Damage: 184, Enabled: true},
		{Name: "vines", Damage: 76, Enabled: true},
		{Name: "log", Damage: 41, Enabled: true},
		{Name: "tornado", Damage: 25, Enabled: true},
	})
	require.NoError(t, err)
	return cat
}

type refResult struct {
	Kind       OutcomeKind
	Path       []int
	Remainder  int
	Iterations int
}

// referenceSearch walks the same cast tree recursively: children are tried
// strongest first, a cast that kills the tower is a leaf, and the walk ends
// at the first leaf within tolerance, at the rightmost leaf, or when the
// budget is spent.
func referenceSearch(target int, cat Catalog, budget, tolerance int) refResult {
	r := refResult{Remainder: noSolution}
	var path []int

	isLast := func() bool {
		for _, idx := range path {
			if idx != len(cat)-1 {
				return false
			}
		}
		return true
	}

	var visit func(remaining int) bool
	visit = func(remaining int) bool {
		for i, s := range cat {
			path = append(path, i)
			r.Iterations++
			left := remaining - s.Damage
			if left > 0 {
				if r.Iterations >= budget {
					r.Kind = BudgetExhausted
					return true
				}
				if visit(left) {
					return true
				}
			} else {
				if -left < r.Remainder {
					r.Remainder = -left
					r.Path = slices.Clone(path)
				}
				switch {
				case -left <= tolerance:
					r.Kind = GoodEnough
					return true
				case isLast():
					r.Kind = Exhausted
					return true
				case r.Iterations >= budget:
					r.Kind = BudgetExhausted
					return true
				}
			}
			path = path[:len(path)-1]
		}
		return false
	}
	visit(target)
	return r
}

func toRef(out SearchOutcome) refResult {
	r := refResult{Kind: out.Kind, Remainder: noSolution, Iterations: out.Iterations}
	if out.Best != nil {
		r.Path = out.Best.Path
		r.Remainder = out.Best.Remainder
	}
	return r
}

// minOvershoot is the smallest damage sum >= target reachable with
// unlimited casts, minus target.
func minOvershoot(target int, cat Catalog) int {
	limit := target + cat[0].Damage
	reach := make([]bool, limit+1)
	reach[0] = true
	for s := 1; s <= limit; s++ {
		for _, sp := range cat {
			if sp.Damage <= s && reach[s-sp.Damage] {
				reach[s] = true
				break
			}
		}
	}
	for s := target; s <= limit; s++ {
		if reach[s] {
			return s - target
		}
	}
	return noSolution
}

func TestSearch_TowerScenario(t *testing.T) {
	cat := towerCatalog(t)

	out, err := Search(400, cat, 10000, 5)
	require.NoError(t, err)

	want := referenceSearch(400, cat, 10000, 5)
	if diff := cmp.Diff(want, toRef(out)); diff != "" {
		t.Fatalf("search mismatch (-reference +engine):\n%s", diff)
	}

	assert.Equal(t, GoodEnough, out.Kind)
	assert.Equal(t, []string{"poison", "vines", "vines", "log", "tornado"}, cat.Names(out.Best.Path))
	assert.Equal(t, 2, out.Best.Remainder)
	assert.Equal(t, 37, out.Iterations)
}

func TestSearch_MatchesReference(t *testing.T) {
	catalogs := map[string][]int{
		"tower":   {371, 184, 76, 41, 25},
		"default": {371, 184, 144, 76, 75, 41, 25},
		"coprime": {9, 6},
		"small":   {7, 5, 3},
		"single":  {10},
		"ties":    {5, 5, 2},
	}
	targets := []int{-20, 0, 1, 7, 25, 31, 99, 400, 1234, 5000}
	budgets := []int{1, 2, 17, 500, 10000}
	tolerances := []int{0, 3, 50}

	for name, damages := range catalogs {
		cat := catalogOf(t, damages...)
		t.Run(name, func(t *testing.T) {
			for _, target := range targets {
				for _, budget := range budgets {
					for _, tol := range tolerances {
						out, err := Search(target, cat, budget, tol)
						require.NoError(t, err)
						want := referenceSearch(target, cat, budget, tol)
						if diff := cmp.Diff(want, toRef(out)); diff != "" {
							t.Errorf("target=%d budget=%d tol=%d (-reference +engine):\n%s", target, budget, tol, diff)
						}
					}
				}
			}
		})
	}
}

func TestSearch_FirstLeaf(t *testing.T) {
	cat := towerCatalog(t)
	for _, target := range []int{1, 100, 370, 371} {
		// budget 1 stops right after the first cast
		out, err := Search(target, cat, 1, 0)
		require.NoError(t, err)
		require.NotNil(t, out.Best, "target %d", target)
		assert.Equal(t, []int{0}, out.Best.Path)
		assert.Equal(t, 371-target, out.Best.Remainder)
		assert.Equal(t, 1, out.Iterations)
	}
}

func TestSearch_TargetRange(t *testing.T) {
	cat := catalogOf(t, 371, 41)
	for _, target := range []int{math.MinInt + 5, -maxMagnitude - 1, maxMagnitude + 1, math.MaxInt} {
		_, err := Search(target, cat, 100, 3)
		assert.ErrorIs(t, err, ErrTargetRange, "target %d", target)
	}

	// the most negative accepted target still scores every first cast
	out, err := Search(-maxMagnitude, cat, 100, 3)
	require.NoError(t, err)
	assert.Equal(t, Exhausted, out.Kind)
	assert.Equal(t, 2, out.Iterations)
	require.NotNil(t, out.Best)
	assert.Equal(t, []int{1}, out.Best.Path)
	assert.Equal(t, maxMagnitude+41, out.Best.Remainder)

	out, err = Search(maxMagnitude, catalogOf(t, maxMagnitude), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, GoodEnough, out.Kind)
	assert.Equal(t, 0, out.Best.Remainder)
}

func TestSearch_NonPositiveTarget(t *testing.T) {
	cat := towerCatalog(t)

	out, err := Search(0, cat, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, BudgetExhausted, out.Kind)
	require.NotNil(t, out.Best)
	assert.Equal(t, []int{0}, out.Best.Path)
	assert.Equal(t, 371, out.Best.Remainder)

	out, err = Search(-7, cat, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, out.Best)
	assert.Equal(t, 378, out.Best.Remainder)

	// every single cast is a leaf, so the weakest spell wins
	out, err = Search(0, cat, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, Exhausted, out.Kind)
	assert.Equal(t, []int{4}, out.Best.Path)
	assert.Equal(t, 25, out.Best.Remainder)
	assert.Equal(t, 5, out.Iterations)
}

func TestSearch_BudgetOfOne(t *testing.T) {
	cat := towerCatalog(t)

	out, err := Search(400, cat, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, BudgetExhausted, out.Kind)
	assert.Nil(t, out.Best)

	out, err = Search(300, cat, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, BudgetExhausted, out.Kind)
	require.NotNil(t, out.Best)
	assert.Equal(t, BestSolution{Path: []int{0}, Remainder: 71}, *out.Best)

	out, err = Search(368, cat, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, GoodEnough, out.Kind)
	assert.Equal(t, 3, out.Best.Remainder)
}

func TestSearch_SingleSpell(t *testing.T) {
	cat := catalogOf(t, 10)

	out, err := Search(25, cat, 1000, 0)
	require.NoError(t, err)
	require.NotNil(t, out.Best)
	assert.Equal(t, []int{0, 0, 0}, out.Best.Path)
	assert.Equal(t, 5, out.Best.Remainder)
	// backtracking from [a a a] finds no weaker spell at any depth
	assert.Equal(t, Exhausted, out.Kind)
	assert.Equal(t, 3, out.Iterations)
}

func TestSearch_ExhaustiveFindsMinimalOvershoot(t *testing.T) {
	for _, damages := range [][]int{{9, 6}, {7, 5, 3}, {11, 4}, {10}, {13, 8, 5}} {
		cat := catalogOf(t, damages...)
		for target := 1; target <= 40; target++ {
			out, err := Search(target, cat, 1_000_000, 0)
			require.NoError(t, err)
			require.NotEqual(t, BudgetExhausted, out.Kind, "damages=%v target=%d", damages, target)
			require.NotNil(t, out.Best)

			want := minOvershoot(target, cat)
			assert.Equal(t, want, out.Best.Remainder, "damages=%v target=%d", damages, target)
			if want == 0 {
				assert.Equal(t, GoodEnough, out.Kind)
			} else {
				assert.Equal(t, Exhausted, out.Kind)
			}
		}
	}
}

func TestSearch_BestRemainderDecreases(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, err := NewEngine(catalogOf(t, 371, 184, 144, 76, 75, 41, 25), 10000, zap.New(core))
	require.NoError(t, err)

	_, err = e.Search(20000, 0)
	require.NoError(t, err)

	entries := logs.FilterMessage("better solution").AllUntimed()
	require.NotEmpty(t, entries)
	prev := noSolution
	for _, entry := range entries {
		rem := int(entry.ContextMap()["remainder"].(int64))
		assert.Less(t, rem, prev)
		assert.GreaterOrEqual(t, rem, 0)
		prev = rem
	}
}

func TestSearch_DoesNotMutateCatalog(t *testing.T) {
	cat := towerCatalog(t)
	before := slices.Clone(cat)
	_, err := Search(1234, cat, 5000, 0)
	require.NoError(t, err)
	assert.Equal(t, before, cat)
}

func TestSearch_RepeatedCallsAreIndependent(t *testing.T) {
	e, err := NewEngine(towerCatalog(t), 10000, nil)
	require.NoError(t, err)

	first, err := e.Search(400, 5)
	require.NoError(t, err)
	_, err = e.Search(99, 0)
	require.NoError(t, err)
	again, err := e.Search(400, 5)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil, 10, nil)
	assert.True(t, errors.Is(err, ErrEmptyCatalog))

	cat := catalogOf(t, 5)
	for _, budget := range []int{0, -3} {
		_, err = NewEngine(cat, budget, nil)
		var cerr *ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "max_iterations", cerr.Field)
	}

	_, err = Search(10, cat, 10, -1)
	var cerr *ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "threshold_damage", cerr.Field)
}
