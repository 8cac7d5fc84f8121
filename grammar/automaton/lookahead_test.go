package automaton

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expectedReduce struct {
	state     int
	rule      []string
	lookAhead []string
}

func assertReduceLookAheads(t *testing.T, a *Automaton, g *testGenerators, expected []expectedReduce) {
	t.Helper()

	for _, e := range expected {
		s, ok := a.State(e.state)
		require.True(t, ok, "state %v", e.state)
		prod := g.prod(e.rule[0], e.rule[1:]...)
		var found *Reduce
		for _, r := range s.Reduces() {
			if r.Rule() == prod {
				found = r
				break
			}
		}
		if !assert.NotNil(t, found, "state %v has no reduce of %v", e.state, prod) {
			continue
		}
		assert.Equal(t, e.lookAhead, symbolNames(found.LookAhead()), "state %v: %v", e.state, prod)
	}
}

func TestLookAhead_Expr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ielr.automaton")
	defer teardown()

	gram := exprGrammar()
	a := buildAutomaton(t, gram)
	g := newTestGenerators(t, gram)

	assertReduceLookAheads(t, a, g, []expectedReduce{
		{state: 1, rule: []string{"E", "NUM"}, lookAhead: []string{"$end", "+", "*"}},
		{state: 3, rule: []string{"$accept", "E", "$end"}, lookAhead: []string{}},
		{state: 6, rule: []string{"E", "E", "+", "E"}, lookAhead: []string{"$end", "+", "*"}},
		{state: 7, rule: []string{"E", "E", "*", "E"}, lookAhead: []string{"$end", "+", "*"}},
	})

	s2, _ := a.State(2)
	assert.Equal(t, []string{"$end", "+", "*"}, symbolNames(s2.ItemLookAhead(g.item("E", 1, "E", "+", "E"))))
	assert.Empty(t, s2.ItemLookAhead(g.item("$accept", 1, "E", "$end")))

	s4, _ := a.State(4)
	assert.Equal(t, []string{"$end", "+", "*"}, symbolNames(s4.ItemLookAhead(g.item("E", 2, "E", "+", "E"))))
}

func TestLookAhead_Nullable(t *testing.T) {
	gram := nullableGrammar()
	a := buildAutomaton(t, gram)
	g := newTestGenerators(t, gram)

	assertReduceLookAheads(t, a, g, []expectedReduce{
		{state: 0, rule: []string{"A"}, lookAhead: []string{"x", "b"}},
		{state: 1, rule: []string{"A"}, lookAhead: []string{"x", "b"}},
		{state: 3, rule: []string{"B"}, lookAhead: []string{"x"}},
		{state: 4, rule: []string{"A", "a", "A"}, lookAhead: []string{"x", "b"}},
		{state: 6, rule: []string{"B", "b"}, lookAhead: []string{"x"}},
		{state: 8, rule: []string{"S", "A", "B", "x"}, lookAhead: []string{"$end"}},
	})
	assert.Zero(t, a.SRConflictCount())
	assert.Zero(t, a.RRConflictCount())
}

func TestGotoFollows(t *testing.T) {
	gram := nullableGrammar()
	a := buildAutomaton(t, gram)
	g := newTestGenerators(t, gram)

	s0 := a.InitialState()
	tr, ok := s0.transitionOn(g.sym("A"))
	require.True(t, ok)

	// The read set of the goto on A contains b, and x is read through the nullable B.
	assert.Equal(t, []string{"x", "b"}, symbolNames(s0.alwaysFollows(tr.Shift, tr.Next).symbols()))
	assert.Equal(t, []string{"x", "b"}, symbolNames(s0.gotoFollows(tr.Shift, tr.Next).symbols()))

	s1, _ := a.State(1)
	tr, ok = s1.transitionOn(g.sym("A"))
	require.True(t, ok)
	assert.Empty(t, s1.alwaysFollows(tr.Shift, tr.Next).symbols())
	assert.Equal(t, []string{"x", "b"}, symbolNames(s1.gotoFollows(tr.Shift, tr.Next).symbols()))

	deps := s1.predecessorDependencies(tr.Shift, tr.Next)
	var origins []int
	for _, d := range deps {
		assert.Equal(t, g.sym("A"), d.shift.NextSymbol())
		origins = append(origins, d.state.ID())
	}
	assert.ElementsMatch(t, []int{0, 1}, origins)
}

func TestTraceItemOrigins(t *testing.T) {
	gram := exprGrammar()
	a := buildAutomaton(t, gram)
	g := newTestGenerators(t, gram)

	s6, _ := a.State(6)
	var origins []int
	for _, o := range s6.traceItemOrigins(g.item("E", 3, "E", "+", "E")) {
		assert.Equal(t, 0, o.item.Dot())
		origins = append(origins, o.state.ID())
	}
	assert.ElementsMatch(t, []int{0, 4, 5}, origins)
}
