package grammar

import (
	"github.com/nihei9/ielr/grammar/symbol"
	spec "github.com/nihei9/ielr/spec/grammar"
)

// NewGrammarFromDeclaration builds a grammar from a parsed TOML declaration. Errors carry the line
// of the offending declaration.
func NewGrammarFromDeclaration(decl *spec.Declaration) (*Grammar, error) {
	b := NewGrammarBuilder(decl.Name)
	b.Algorithm(Algorithm(decl.Algorithm))
	if decl.Start != "" {
		b.start = &nameDecl{
			name: decl.Start,
			line: decl.StartLine,
		}
	}
	b.Terminal(decl.Terminals...)
	for _, p := range decl.Precedence {
		b.declarePrecedence(symbol.AssocType(p.Assoc), p.Line, p.Symbols)
	}
	for _, r := range decl.Rules {
		rb := b.Rule(r.LHS).Line(r.Line).Prec(r.Prec).Action(r.Action)
		for _, name := range r.RHS {
			rb.N(name)
		}
		rb.End()
	}
	return b.Build()
}
