package grammar

import (
	"fmt"

	verr "github.com/nihei9/ielr/error"
	"github.com/nihei9/ielr/grammar/symbol"
)

// Algorithm selects how look-ahead sets are made precise enough for a grammar.
type Algorithm string

const (
	AlgorithmLALR = Algorithm("lalr")
	AlgorithmIELR = Algorithm("ielr")
)

func (a Algorithm) String() string {
	return string(a)
}

func (a Algorithm) IsValid() bool {
	return a == AlgorithmLALR || a == AlgorithmIELR
}

type Grammar struct {
	name          string
	algorithm     Algorithm
	symbolTable   *symbol.SymbolTable
	productionSet *productionSet
	startSymbol   *symbol.Symbol
}

func (g *Grammar) Name() string {
	return g.name
}

// Algorithm returns the algorithm the grammar declares. It defaults to LALR.
func (g *Grammar) Algorithm() Algorithm {
	return g.algorithm
}

func (g *Grammar) Symbols() *symbol.SymbolTableReader {
	return g.symbolTable.Reader()
}

// Productions returns all productions ordered by their numbers. The first one is the augmented
// start production `$accept → start $end`.
func (g *Grammar) Productions() []*Production {
	return g.productionSet.getAllProductions()
}

func (g *Grammar) Production(num ProductionNum) (*Production, bool) {
	return g.productionSet.findByNum(num)
}

func (g *Grammar) ProductionsByLHS(lhs *symbol.Symbol) []*Production {
	prods, _ := g.productionSet.findByLHS(lhs)
	return prods
}

func (g *Grammar) AugmentedStartProduction() *Production {
	prod, _ := g.productionSet.findByNum(ProductionNumStart)
	return prod
}

// StartSymbol returns the user-defined start symbol.
func (g *Grammar) StartSymbol() *symbol.Symbol {
	return g.startSymbol
}

type nameDecl struct {
	name string
	line int
}

type precDecl struct {
	assoc symbol.AssocType
	names []string
	line  int
}

// GrammarBuilder accumulates declarations and builds a Grammar from them. Declaration methods
// return the builder itself so that calls can be chained.
type GrammarBuilder struct {
	name      string
	algorithm Algorithm
	start     *nameDecl
	terms     []*nameDecl
	precs     []*precDecl
	rules     []*RuleBuilder

	errs verr.SpecErrors
}

func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name: name,
	}
}

func (b *GrammarBuilder) Algorithm(a Algorithm) *GrammarBuilder {
	b.algorithm = a
	return b
}

func (b *GrammarBuilder) Start(name string) *GrammarBuilder {
	b.start = &nameDecl{
		name: name,
	}
	return b
}

func (b *GrammarBuilder) Terminal(names ...string) *GrammarBuilder {
	for _, name := range names {
		b.terms = append(b.terms, &nameDecl{
			name: name,
		})
	}
	return b
}

// Left declares a precedence level with left associativity. Each precedence declaration binds
// tighter than the previous ones.
func (b *GrammarBuilder) Left(names ...string) *GrammarBuilder {
	return b.declarePrecedence(symbol.AssocTypeLeft, 0, names)
}

func (b *GrammarBuilder) Right(names ...string) *GrammarBuilder {
	return b.declarePrecedence(symbol.AssocTypeRight, 0, names)
}

func (b *GrammarBuilder) NonAssoc(names ...string) *GrammarBuilder {
	return b.declarePrecedence(symbol.AssocTypeNonAssoc, 0, names)
}

// Precedence declares a precedence level without associativity. Conflicts between symbols of the
// same level stay unresolved.
func (b *GrammarBuilder) Precedence(names ...string) *GrammarBuilder {
	return b.declarePrecedence(symbol.AssocTypePrecedence, 0, names)
}

func (b *GrammarBuilder) declarePrecedence(assoc symbol.AssocType, line int, names []string) *GrammarBuilder {
	b.precs = append(b.precs, &precDecl{
		assoc: assoc,
		names: names,
		line:  line,
	})
	return b
}

func (b *GrammarBuilder) Rule(lhs string) *RuleBuilder {
	return &RuleBuilder{
		b:   b,
		lhs: lhs,
	}
}

type rhsElem struct {
	name     string
	terminal bool
}

type RuleBuilder struct {
	b      *GrammarBuilder
	lhs    string
	rhs    []rhsElem
	prec   string
	action string
	line   int
}

// N appends a non-terminal symbol to the RHS.
func (r *RuleBuilder) N(name string) *RuleBuilder {
	r.rhs = append(r.rhs, rhsElem{
		name: name,
	})
	return r
}

// T appends a terminal symbol to the RHS. The terminal is declared implicitly.
func (r *RuleBuilder) T(name string) *RuleBuilder {
	r.rhs = append(r.rhs, rhsElem{
		name:     name,
		terminal: true,
	})
	return r
}

func (r *RuleBuilder) Prec(term string) *RuleBuilder {
	r.prec = term
	return r
}

func (r *RuleBuilder) Action(code string) *RuleBuilder {
	r.action = code
	return r
}

func (r *RuleBuilder) Line(row int) *RuleBuilder {
	r.line = row
	return r
}

func (r *RuleBuilder) End() *GrammarBuilder {
	r.b.rules = append(r.b.rules, r)
	return r.b
}

// Empty finishes a rule whose RHS is empty.
func (r *RuleBuilder) Empty() *GrammarBuilder {
	r.rhs = nil
	return r.End()
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	b.errs = nil

	if b.name == "" {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoGrammarName,
		})
	}
	algorithm := b.algorithm
	if algorithm == "" {
		algorithm = AlgorithmLALR
	}
	if !algorithm.IsValid() {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrInvalidAlgorithm,
			Detail: algorithm.String(),
		})
	}
	if len(b.rules) == 0 {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: semErrNoProduction,
		})
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	symTab := b.genSymbolTable()
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	startSym, prods := b.genProductions(symTab)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	b.checkUnusedNonTerminals(symTab, startSym, prods)
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	markNullableSymbols(symTab.Writer(), prods)

	return &Grammar{
		name:          b.name,
		algorithm:     algorithm,
		symbolTable:   symTab,
		productionSet: prods,
		startSymbol:   startSym,
	}, nil
}

func isReservedName(name string) bool {
	switch name {
	case symbol.SymbolNameEOF, symbol.SymbolNameUndefined, symbol.SymbolNameAccept:
		return true
	}
	return false
}

func (b *GrammarBuilder) genSymbolTable() *symbol.SymbolTable {
	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	lhsLines := map[string]int{}
	for _, r := range b.rules {
		if _, ok := lhsLines[r.lhs]; !ok {
			lhsLines[r.lhs] = r.line
		}
	}

	registerTerm := func(name string, line int) {
		if isReservedName(name) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedName,
				Detail: name,
				Row:    line,
			})
			return
		}
		if lhsLine, ok := lhsLines[name]; ok {
			if line == 0 {
				line = lhsLine
			}
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: name,
				Row:    line,
			})
			return
		}
		if _, err := w.RegisterTerminalSymbol(name); err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: name,
				Row:    line,
			})
		}
	}

	for _, t := range b.terms {
		registerTerm(t.name, t.line)
	}
	for _, p := range b.precs {
		for _, name := range p.names {
			if _, ok := lhsLines[name]; ok {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrPrecOnNonTerminal,
					Detail: name,
					Row:    p.line,
				})
				continue
			}
			registerTerm(name, p.line)
		}
	}
	for _, r := range b.rules {
		for _, e := range r.rhs {
			if !e.terminal {
				continue
			}
			registerTerm(e.name, r.line)
		}
	}

	for _, r := range b.rules {
		if isReservedName(r.lhs) || r.lhs == symbol.SymbolNameError {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedName,
				Detail: r.lhs,
				Row:    r.line,
			})
			continue
		}
		if _, err := w.RegisterNonTerminalSymbol(r.lhs); err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: r.lhs,
				Row:    r.line,
			})
		}
	}

	w.Freeze()

	level := 1
	for _, p := range b.precs {
		if !p.assoc.IsValid() {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrInvalidAssoc,
				Detail: p.assoc.String(),
				Row:    p.line,
			})
			continue
		}
		prec := &symbol.Precedence{
			Level: level,
			Assoc: p.assoc,
		}
		for _, name := range p.names {
			sym, ok := symTab.Reader().ToSymbol(name)
			if !ok || !sym.IsTerminal() {
				continue
			}
			if sym.Precedence() != nil {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrPrecRedefined,
					Detail: name,
					Row:    p.line,
				})
				continue
			}
			if err := w.SetPrecedence(sym, prec); err != nil {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrInvalidAssoc,
					Detail: err.Error(),
					Row:    p.line,
				})
			}
		}
		level++
	}

	return symTab
}

func (b *GrammarBuilder) genProductions(symTab *symbol.SymbolTable) (*symbol.Symbol, *productionSet) {
	r := symTab.Reader()

	startName := b.rules[0].lhs
	startLine := b.rules[0].line
	if b.start != nil {
		startName = b.start.name
		startLine = b.start.line
	}
	startSym, ok := r.ToSymbol(startName)
	if !ok || !startSym.IsNonTerminal() || startSym.IsAccept() {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrUndefinedStart,
			Detail: startName,
			Row:    startLine,
		})
		return nil, nil
	}

	prods := newProductionSet()
	augProd, err := newProduction(r.Accept(), []*symbol.Symbol{startSym, r.EOF()})
	if err != nil {
		b.errs = append(b.errs, &verr.SpecError{
			Cause: err,
		})
		return nil, nil
	}
	prods.append(augProd)

	for _, rule := range b.rules {
		lhs, ok := r.ToSymbol(rule.lhs)
		if !ok || !lhs.IsNonTerminal() {
			continue
		}

		rhs := make([]*symbol.Symbol, 0, len(rule.rhs))
		undefined := false
		for _, e := range rule.rhs {
			sym, ok := r.ToSymbol(e.name)
			if !ok || sym.IsAccept() || sym == r.Undefined() {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrUndefinedSym,
					Detail: e.name,
					Row:    rule.line,
				})
				undefined = true
				continue
			}
			rhs = append(rhs, sym)
		}
		if undefined {
			continue
		}

		prod, err := newProduction(lhs, rhs)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause: err,
				Row:   rule.line,
			})
			continue
		}
		prod.action = rule.action
		prod.line = rule.line

		if rule.prec != "" {
			sym, ok := r.ToSymbol(rule.prec)
			if !ok {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrUndefinedSym,
					Detail: rule.prec,
					Row:    rule.line,
				})
				continue
			}
			if !sym.IsTerminal() {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrPrecSymNotTerminal,
					Detail: rule.prec,
					Row:    rule.line,
				})
				continue
			}
			prod.precSym = sym
		} else {
			for i := len(rhs) - 1; i >= 0; i-- {
				if rhs[i].IsTerminal() && rhs[i].Precedence() != nil {
					prod.precSym = rhs[i]
					break
				}
			}
		}
		if prod.precSym != nil {
			prod.prec = prod.precSym.Precedence()
		}

		if !prods.append(prod) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateProduction,
				Detail: prod.String(),
				Row:    rule.line,
			})
		}
	}

	return startSym, prods
}

// checkUnusedNonTerminals reports non-terminals that cannot be reached from the start symbol.
func (b *GrammarBuilder) checkUnusedNonTerminals(symTab *symbol.SymbolTable, start *symbol.Symbol, prods *productionSet) {
	reached := map[*symbol.Symbol]bool{
		start: true,
	}
	stack := []*symbol.Symbol{start}
	for len(stack) > 0 {
		sym := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ps, _ := prods.findByLHS(sym)
		for _, p := range ps {
			for _, s := range p.rhs {
				if !s.IsNonTerminal() || reached[s] {
					continue
				}
				reached[s] = true
				stack = append(stack, s)
			}
		}
	}

	for _, sym := range symTab.Reader().NonTerminalSymbols() {
		if sym.IsAccept() || reached[sym] {
			continue
		}
		var line int
		if ps, ok := prods.findByLHS(sym); ok {
			line = ps[0].line
		}
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrUnusedNonTerminal,
			Detail: sym.Name(),
			Row:    line,
		})
	}
}

func markNullableSymbols(w *symbol.SymbolTableWriter, prods *productionSet) {
	for {
		changed := false
		for _, prod := range prods.getAllProductions() {
			if prod.lhs.IsNullable() {
				continue
			}
			nullable := true
			for _, sym := range prod.rhs {
				if !sym.IsNullable() {
					nullable = false
					break
				}
			}
			if nullable {
				w.SetNullable(prod.lhs)
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// MustBuild is like Build but panics when the grammar is invalid.
func (b *GrammarBuilder) MustBuild() *Grammar {
	gram, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("invalid grammar %v: %v", b.name, err))
	}
	return gram
}
