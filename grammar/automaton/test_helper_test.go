package automaton

import (
	"testing"

	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/symbol"
)

type testSymbolGenerator func(text string) *symbol.Symbol

func newTestSymbolGenerator(t *testing.T, gram *grammar.Grammar) testSymbolGenerator {
	return func(text string) *symbol.Symbol {
		t.Helper()

		sym, ok := gram.Symbols().ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *grammar.Production

func newTestProductionGenerator(t *testing.T, gram *grammar.Grammar, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *grammar.Production {
		t.Helper()

		l := genSym(lhs)
	PRODUCTIONS:
		for _, prod := range gram.ProductionsByLHS(l) {
			if prod.Len() != len(rhs) {
				continue
			}
			for i, sym := range prod.RHS() {
				if sym != genSym(rhs[i]) {
					continue PRODUCTIONS
				}
			}
			return prod
		}
		t.Fatalf("production was not found: %v → %v", lhs, rhs)
		return nil
	}
}

type testItemGenerator func(lhs string, dot int, rhs ...string) Item

func newTestItemGenerator(t *testing.T, genProd testProductionGenerator) testItemGenerator {
	return func(lhs string, dot int, rhs ...string) Item {
		t.Helper()

		item, err := newItem(genProd(lhs, rhs...), dot)
		if err != nil {
			t.Fatalf("failed to create an item: %v", err)
		}
		return item
	}
}

type testGenerators struct {
	sym  testSymbolGenerator
	prod testProductionGenerator
	item testItemGenerator
}

func newTestGenerators(t *testing.T, gram *grammar.Grammar) *testGenerators {
	genSym := newTestSymbolGenerator(t, gram)
	genProd := newTestProductionGenerator(t, gram, genSym)
	return &testGenerators{
		sym:  genSym,
		prod: genProd,
		item: newTestItemGenerator(t, genProd),
	}
}

func buildAutomaton(t *testing.T, gram *grammar.Grammar, opts ...BuildOption) *Automaton {
	t.Helper()

	a, err := Build(gram, opts...)
	if err != nil {
		t.Fatalf("failed to build the automaton: %v", err)
	}
	if a == nil {
		t.Fatal("Build returned nil without any error")
	}
	return a
}

func symbolNames(syms []*symbol.Symbol) []string {
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i] = sym.Name()
	}
	return names
}

// exprGrammar is an ambiguous expression grammar whose conflicts precedences resolve.
func exprGrammar() *grammar.Grammar {
	return grammar.NewGrammarBuilder("expr").
		Left("+").
		Left("*").
		Rule("E").N("E").T("+").N("E").End().
		Rule("E").N("E").T("*").N("E").End().
		Rule("E").T("NUM").End().
		MustBuild()
}

// lalrOnlyGrammar is LR(1) but not LALR(1). LALR(1) merges the states reached by e after a and after
// b, which leads to a reduce/reduce conflict on c and d.
func lalrOnlyGrammar() *grammar.Grammar {
	return grammar.NewGrammarBuilder("lr1").
		Rule("S").T("a").N("E").T("c").End().
		Rule("S").T("a").N("F").T("d").End().
		Rule("S").T("b").N("E").T("d").End().
		Rule("S").T("b").N("F").T("c").End().
		Rule("E").T("e").End().
		Rule("F").T("e").End().
		MustBuild()
}

// nullableGrammar is conflict-free and exercises look-ahead propagation through nullable symbols.
func nullableGrammar() *grammar.Grammar {
	return grammar.NewGrammarBuilder("nullable").
		Rule("S").N("A").N("B").T("x").End().
		Rule("A").T("a").N("A").End().
		Rule("A").Empty().
		Rule("B").T("b").End().
		Rule("B").Empty().
		MustBuild()
}
