/*
Package automaton builds LR parsing automata from a grammar.

The builder first generates the LR(0) state graph, then attaches LALR(1)
look-ahead sets computed from the goto relations of the graph, resolves
shift/reduce conflicts by precedence and associativity, and picks a default
reduction for each state. When IELR(1) is requested, it afterwards annotates
every state whose conflicts depend on look-ahead tokens, propagates the
annotations backwards through the graph, and splits states that LALR(1) merged
although they would resolve those conflicts differently.

	gram, err := grammar.NewGrammarBuilder("calc").
		Left("+").Left("*").
		Rule("expr").N("expr").T("+").N("expr").End().
		Rule("expr").N("expr").T("*").N("expr").End().
		Rule("expr").T("NUM").End().
		Build()
	if err != nil {
		return err
	}
	a, err := automaton.Build(gram, automaton.WithAlgorithm(grammar.AlgorithmIELR))

The resulting states, their conflicts, and the resolutions made are exposed
through State. Conflicts are data, not errors.
*/
package automaton

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'ielr.automaton'.
func tracer() tracing.Trace {
	return tracing.Select("ielr.automaton")
}
