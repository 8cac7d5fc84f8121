package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verr "github.com/nihei9/ielr/error"
	"github.com/nihei9/ielr/grammar/symbol"
	spec "github.com/nihei9/ielr/spec/grammar"
)

func TestGrammarBuilder_Build(t *testing.T) {
	gram, err := NewGrammarBuilder("calc").
		Left("+", "-").
		Left("*").
		Rule("E").N("E").T("+").N("E").End().
		Rule("E").N("E").T("*").N("E").End().
		Rule("E").T("-").N("E").Prec("*").End().
		Rule("E").T("NUM").End().
		Build()
	require.NoError(t, err)

	assert.Equal(t, "calc", gram.Name())
	assert.Equal(t, AlgorithmLALR, gram.Algorithm())
	assert.Equal(t, "E", gram.StartSymbol().Name())

	syms := gram.Symbols()
	var terms []string
	for _, sym := range syms.TerminalSymbols() {
		terms = append(terms, sym.Name())
	}
	assert.Equal(t, []string{"$end", "error", "$undefined", "+", "-", "*", "NUM"}, terms)
	var nonTerms []string
	for _, sym := range syms.NonTerminalSymbols() {
		nonTerms = append(nonTerms, sym.Name())
	}
	assert.Equal(t, []string{"$accept", "E"}, nonTerms)

	prods := gram.Productions()
	require.Len(t, prods, 5)
	for i, p := range prods {
		assert.Equal(t, ProductionNum(i), p.Num())
	}
	assert.True(t, prods[0].IsStart())
	assert.Equal(t, gram.AugmentedStartProduction(), prods[0])
	assert.Equal(t, "$accept → E $end", prods[0].String())

	tests := []struct {
		prod    ProductionNum
		str     string
		precSym string
		prec    *symbol.Precedence
	}{
		{
			prod:    1,
			str:     "E → E + E",
			precSym: "+",
			prec:    &symbol.Precedence{Level: 1, Assoc: symbol.AssocTypeLeft},
		},
		{
			prod:    2,
			str:     "E → E * E",
			precSym: "*",
			prec:    &symbol.Precedence{Level: 2, Assoc: symbol.AssocTypeLeft},
		},
		{
			prod:    3,
			str:     "E → - E",
			precSym: "*",
			prec:    &symbol.Precedence{Level: 2, Assoc: symbol.AssocTypeLeft},
		},
		{
			prod: 4,
			str:  "E → NUM",
		},
	}
	for _, tt := range tests {
		p, ok := gram.Production(tt.prod)
		require.True(t, ok)
		assert.Equal(t, tt.str, p.String())
		assert.Equal(t, tt.prec, p.Precedence(), "%v", p)
		if tt.precSym == "" {
			assert.Nil(t, p.PrecedenceSymbol())
		} else if assert.NotNil(t, p.PrecedenceSymbol()) {
			assert.Equal(t, tt.precSym, p.PrecedenceSymbol().Name())
		}
	}

	_, ok := gram.Production(5)
	assert.False(t, ok)
	e, _ := syms.ToSymbol("E")
	assert.Len(t, gram.ProductionsByLHS(e), 4)
}

func TestGrammarBuilder_RightmostPrecedence(t *testing.T) {
	gram := NewGrammarBuilder("rightmost").
		Left("+").
		Right("^").
		Rule("E").N("E").T("+").N("E").T("^").N("E").End().
		Rule("E").N("E").T("^").N("E").T("ID").End().
		Rule("E").T("ID").End().
		MustBuild()

	p1, _ := gram.Production(1)
	assert.Equal(t, "^", p1.PrecedenceSymbol().Name())
	assert.Equal(t, symbol.AssocTypeRight, p1.Precedence().Assoc)

	// ID has no precedence, so the rule takes the one of ^.
	p2, _ := gram.Production(2)
	assert.Equal(t, "^", p2.PrecedenceSymbol().Name())
	assert.Equal(t, 2, p2.Precedence().Level)
}

func TestGrammarBuilder_Nullable(t *testing.T) {
	gram := NewGrammarBuilder("nullable").
		Algorithm(AlgorithmIELR).
		Start("S").
		Rule("S").N("A").N("B").T("x").End().
		Rule("A").T("a").N("A").End().
		Rule("A").Empty().
		Rule("B").N("C").End().
		Rule("C").Empty().
		MustBuild()

	assert.Equal(t, AlgorithmIELR, gram.Algorithm())
	nullable := map[string]bool{
		"S": false,
		"A": true,
		"B": true,
		"C": true,
		"x": false,
		"a": false,
	}
	for name, expected := range nullable {
		sym, ok := gram.Symbols().ToSymbol(name)
		require.True(t, ok, name)
		assert.Equal(t, expected, sym.IsNullable(), name)
	}

	p, _ := gram.Production(3)
	assert.True(t, p.IsEmpty())
	assert.Equal(t, "A → ε", p.String())
}

func TestGrammarBuilder_Errors(t *testing.T) {
	tests := []struct {
		caption string
		builder func() *GrammarBuilder
		cause   error
	}{
		{
			caption: "a grammar needs a name",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("").Rule("S").T("a").End()
			},
			cause: semErrNoGrammarName,
		},
		{
			caption: "an unknown algorithm",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Algorithm(Algorithm("lr1")).Rule("S").T("a").End()
			},
			cause: semErrInvalidAlgorithm,
		},
		{
			caption: "a grammar needs a production",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test")
			},
			cause: semErrNoProduction,
		},
		{
			caption: "an undefined symbol",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Rule("S").N("X").End()
			},
			cause: semErrUndefinedSym,
		},
		{
			caption: "an undefined start symbol",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Start("X").Rule("S").T("a").End()
			},
			cause: semErrUndefinedStart,
		},
		{
			caption: "a duplicate production",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").
					Rule("S").T("a").End().
					Rule("S").T("a").End()
			},
			cause: semErrDuplicateProduction,
		},
		{
			caption: "a terminal and a non-terminal share a name",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Terminal("S").Rule("S").T("a").End()
			},
			cause: semErrDuplicateName,
		},
		{
			caption: "a reserved name in RHS",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Rule("S").T("$end").End()
			},
			cause: semErrReservedName,
		},
		{
			caption: "a reserved name in LHS",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Rule("error").T("a").End()
			},
			cause: semErrReservedName,
		},
		{
			caption: "a precedence of a non-terminal",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Left("S").Rule("S").T("a").End()
			},
			cause: semErrPrecOnNonTerminal,
		},
		{
			caption: "a precedence declared twice",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").
					Left("+").
					Right("+").
					Rule("S").T("a").T("+").T("a").End()
			},
			cause: semErrPrecRedefined,
		},
		{
			caption: "%prec takes a non-terminal",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Rule("S").T("a").Prec("S").End()
			},
			cause: semErrPrecSymNotTerminal,
		},
		{
			caption: "%prec takes an undefined symbol",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").Rule("S").T("a").Prec("zz").End()
			},
			cause: semErrUndefinedSym,
		},
		{
			caption: "an unreachable non-terminal",
			builder: func() *GrammarBuilder {
				return NewGrammarBuilder("test").
					Rule("S").T("a").End().
					Rule("U").T("b").End()
			},
			cause: semErrUnusedNonTerminal,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram, err := tt.builder().Build()
			assert.Nil(t, gram)
			var specErrs verr.SpecErrors
			require.True(t, errors.As(err, &specErrs), "unexpected error: %v", err)
			require.NotEmpty(t, specErrs)
			assert.Equal(t, tt.cause, specErrs[0].Cause)
		})
	}
}

func TestGrammarBuilder_MustBuild(t *testing.T) {
	assert.Panics(t, func() {
		NewGrammarBuilder("test").MustBuild()
	})
}

func TestNewGrammarFromDeclaration(t *testing.T) {
	src := `name = "calc"
algorithm = "ielr"
terminals = ["NUM"]

[[precedence]]
assoc = "left"
symbols = ["+"]

[[rules]]
lhs = "expr"
rhs = ["expr", "+", "expr"]
action = "add"

[[rules]]
lhs = "expr"
rhs = ["NUM"]
`
	decl, err := spec.ParseDeclaration(strings.NewReader(src))
	require.NoError(t, err)
	gram, err := NewGrammarFromDeclaration(decl)
	require.NoError(t, err)

	assert.Equal(t, AlgorithmIELR, gram.Algorithm())
	p, _ := gram.Production(1)
	assert.Equal(t, "expr → expr + expr", p.String())
	assert.Equal(t, "add", p.Action())
	assert.Equal(t, decl.Rules[0].Line, p.Line())
	assert.Equal(t, 1, p.Precedence().Level)
}

func TestNewGrammarFromDeclaration_Errors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		cause   error
		row     func(decl *spec.Declaration) int
	}{
		{
			caption: "an undefined symbol",
			src: `name = "test"
terminals = ["a"]

[[rules]]
lhs = "S"
rhs = ["a"]

[[rules]]
lhs = "S"
rhs = ["X"]
`,
			cause: semErrUndefinedSym,
			row: func(decl *spec.Declaration) int {
				return decl.Rules[1].Line
			},
		},
		{
			caption: "an invalid associativity",
			src: `name = "test"
terminals = ["a"]

[[precedence]]
assoc = "up"
symbols = ["a"]

[[rules]]
lhs = "S"
rhs = ["a"]
`,
			cause: semErrInvalidAssoc,
			row: func(decl *spec.Declaration) int {
				return decl.Precedence[0].Line
			},
		},
		{
			caption: "an undefined start symbol",
			src: `name = "test"
start = "X"
terminals = ["a"]

[[rules]]
lhs = "S"
rhs = ["a"]
`,
			cause: semErrUndefinedStart,
			row: func(decl *spec.Declaration) int {
				return decl.StartLine
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			decl, err := spec.ParseDeclaration(strings.NewReader(tt.src))
			require.NoError(t, err)
			_, err = NewGrammarFromDeclaration(decl)
			var specErrs verr.SpecErrors
			require.True(t, errors.As(err, &specErrs), "unexpected error: %v", err)
			require.Len(t, specErrs, 1)
			assert.Equal(t, tt.cause, specErrs[0].Cause)
			assert.Equal(t, tt.row(decl), specErrs[0].Row)
		})
	}
}
