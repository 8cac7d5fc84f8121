package automaton

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenLR0States(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ielr.automaton")
	defer teardown()

	gram := exprGrammar()
	a := buildAutomaton(t, gram)
	g := newTestGenerators(t, gram)

	expectedKernels := map[int][]Item{
		0: {
			g.item("$accept", 0, "E", "$end"),
		},
		1: {
			g.item("E", 1, "NUM"),
		},
		2: {
			g.item("$accept", 1, "E", "$end"),
			g.item("E", 1, "E", "+", "E"),
			g.item("E", 1, "E", "*", "E"),
		},
		3: {
			g.item("$accept", 2, "E", "$end"),
		},
		4: {
			g.item("E", 2, "E", "+", "E"),
		},
		5: {
			g.item("E", 2, "E", "*", "E"),
		},
		6: {
			g.item("E", 3, "E", "+", "E"),
			g.item("E", 1, "E", "+", "E"),
			g.item("E", 1, "E", "*", "E"),
		},
		7: {
			g.item("E", 1, "E", "+", "E"),
			g.item("E", 3, "E", "*", "E"),
			g.item("E", 1, "E", "*", "E"),
		},
	}

	expectedTransitions := map[int]map[string]int{
		0: {"NUM": 1, "E": 2},
		1: {},
		2: {"$end": 3, "+": 4, "*": 5},
		3: {},
		4: {"NUM": 1, "E": 6},
		5: {"NUM": 1, "E": 7},
		6: {"+": 4, "*": 5},
		7: {"+": 4, "*": 5},
	}

	expectedPredecessors := map[int][]int{
		0: {},
		1: {0, 4, 5},
		2: {0},
		3: {2},
		4: {2, 6, 7},
		5: {2, 6, 7},
		6: {4},
		7: {5},
	}

	require.Len(t, a.States(), len(expectedKernels))
	assert.Equal(t, 8, a.LALRStateCount())
	assert.Equal(t, a.States()[0], a.InitialState())
	assert.Nil(t, a.InitialState().AccessingSymbol())

	for id, s := range a.States() {
		assert.Equal(t, id, s.ID())
		assert.ElementsMatch(t, expectedKernels[id], s.Kernels(), "state %v", id)

		trs := s.Transitions()
		assert.Len(t, trs, len(expectedTransitions[id]), "state %v", id)
		for _, tr := range trs {
			next, ok := expectedTransitions[id][tr.Shift.NextSymbol().Name()]
			if assert.True(t, ok, "state %v has an unexpected transition on %v", id, tr.Shift.NextSymbol()) {
				assert.Equal(t, next, tr.Next.ID())
				assert.Equal(t, tr.Shift.NextSymbol(), tr.Next.AccessingSymbol())
			}
		}
		for i := 1; i < len(trs); i++ {
			assert.Less(t, trs[i-1].Shift.NextSymbol().Num().Int(), trs[i].Shift.NextSymbol().Num().Int(), "shifts must be sorted by symbol number")
		}

		var preds []int
		for _, p := range s.Predecessors() {
			preds = append(preds, p.ID())
		}
		assert.ElementsMatch(t, expectedPredecessors[id], preds, "state %v", id)

		assert.Equal(t, s, s.LALRIsocore())
		assert.False(t, s.IsSplit())
	}
}

func TestGenLR0States_Closure(t *testing.T) {
	gram := nullableGrammar()
	a := buildAutomaton(t, gram)
	g := newTestGenerators(t, gram)

	require.Len(t, a.States(), 9)
	assert.Equal(t, []Item{
		g.item("S", 0, "A", "B", "x"),
		g.item("A", 0, "a", "A"),
		g.item("A", 0),
	}, a.InitialState().Closure())
	assert.Len(t, a.InitialState().Items(), 4)

	var reduceRules []string
	for _, r := range a.InitialState().Reduces() {
		reduceRules = append(reduceRules, r.Rule().String())
	}
	assert.Equal(t, []string{"A → ε"}, reduceRules)
}
