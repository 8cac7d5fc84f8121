package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nihei9/ielr/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs *symbol.Symbol, rhs []*symbol.Symbol) productionID {
	var b strings.Builder
	b.WriteString(lhs.Name())
	for _, sym := range rhs {
		b.WriteByte(0)
		b.WriteString(sym.Name())
	}
	return productionID(sha256.Sum256([]byte(b.String())))
}

// ProductionNum is a rule id. The augmented start production always has the number 0.
type ProductionNum int

const ProductionNumStart = ProductionNum(0)

func (n ProductionNum) Int() int {
	return int(n)
}

type Production struct {
	id      productionID
	num     ProductionNum
	lhs     *symbol.Symbol
	rhs     []*symbol.Symbol
	precSym *symbol.Symbol
	prec    *symbol.Precedence
	action  string
	line    int
}

func newProduction(lhs *symbol.Symbol, rhs []*symbol.Symbol) (*Production, error) {
	if lhs == nil || !lhs.IsNonTerminal() {
		return nil, fmt.Errorf("LHS must be a non-terminal symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym == nil {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &Production{
		id:  genProductionID(lhs, rhs),
		lhs: lhs,
		rhs: rhs,
	}, nil
}

func (p *Production) Num() ProductionNum {
	return p.num
}

func (p *Production) LHS() *symbol.Symbol {
	return p.lhs
}

// RHS returns the right-hand side of the production. Callers must not modify the returned slice.
func (p *Production) RHS() []*symbol.Symbol {
	return p.rhs
}

func (p *Production) Len() int {
	return len(p.rhs)
}

func (p *Production) IsEmpty() bool {
	return len(p.rhs) == 0
}

func (p *Production) IsStart() bool {
	return p.num == ProductionNumStart
}

// Precedence returns the precedence inherited from the precedence symbol or nil.
func (p *Production) Precedence() *symbol.Precedence {
	return p.prec
}

// PrecedenceSymbol returns the symbol specified by `%prec` if any, otherwise the right-most terminal
// symbol having a precedence.
func (p *Production) PrecedenceSymbol() *symbol.Symbol {
	return p.precSym
}

func (p *Production) Action() string {
	return p.action
}

// Line returns the line of the source declaring the production, or 0 when unknown.
func (p *Production) Line() int {
	return p.line
}

func (p *Production) equals(q *Production) bool {
	return q.id == p.id
}

func (p *Production) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", p.lhs)
	if p.IsEmpty() {
		b.WriteString(" ε")
	}
	for _, sym := range p.rhs {
		fmt.Fprintf(&b, " %v", sym)
	}
	return b.String()
}

type productionSet struct {
	lhs2Prods map[*symbol.Symbol][]*Production
	id2Prod   map[productionID]*Production
	prods     []*Production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[*symbol.Symbol][]*Production{},
		id2Prod:   map[productionID]*Production{},
	}
}

// append numbers prod in insertion order and returns false when the same production already exists.
func (ps *productionSet) append(prod *Production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	prod.num = ProductionNum(len(ps.prods))
	ps.prods = append(ps.prods, prod)
	ps.lhs2Prods[prod.lhs] = append(ps.lhs2Prods[prod.lhs], prod)
	ps.id2Prod[prod.id] = prod

	return true
}

func (ps *productionSet) findByNum(num ProductionNum) (*Production, bool) {
	if num < 0 || num.Int() >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) findByLHS(lhs *symbol.Symbol) ([]*Production, bool) {
	if lhs == nil {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() []*Production {
	return ps.prods
}
