package automaton

import (
	"fmt"

	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/symbol"
)

// Action is either *Shift or *Reduce.
type Action interface {
	fmt.Stringer
	action()
}

// Shift moves over NextSymbol. For a non-terminal symbol it is a goto.
type Shift struct {
	nextSym   *symbol.Symbol
	nextItems *kernel

	// notSelected is true when precedence resolution removed the shift.
	notSelected bool
}

func (*Shift) action() {}

func (s *Shift) NextSymbol() *symbol.Symbol {
	return s.nextSym
}

// NextItems returns the kernel of the state reached by the shift.
func (s *Shift) NextItems() []Item {
	return s.nextItems.items
}

func (s *Shift) NotSelected() bool {
	return s.notSelected
}

func (s *Shift) String() string {
	return fmt.Sprintf("shift %v", s.nextSym)
}

type Reduce struct {
	item Item

	// lookAhead is nil until look-ahead sets are computed.
	lookAhead          *symbolSet
	notSelectedSymbols *symbolSet
	defaultReduction   bool
}

func (*Reduce) action() {}

func (r *Reduce) Item() Item {
	return r.item
}

func (r *Reduce) Rule() *grammar.Production {
	return r.item.prod
}

// LookAhead returns the look-ahead tokens sorted by symbol number, or nil when they are not computed.
func (r *Reduce) LookAhead() []*symbol.Symbol {
	return r.lookAhead.symbols()
}

// NotSelectedSymbols returns the look-ahead tokens on which precedence resolution chose another action.
func (r *Reduce) NotSelectedSymbols() []*symbol.Symbol {
	return r.notSelectedSymbols.symbols()
}

// SelectedLookAhead returns the look-ahead tokens on which the reduce is still performed.
func (r *Reduce) SelectedLookAhead() []*symbol.Symbol {
	return r.lookAhead.difference(r.notSelectedSymbols).symbols()
}

func (r *Reduce) IsDefaultReduction() bool {
	return r.defaultReduction
}

func (r *Reduce) addNotSelectedSymbol(sym *symbol.Symbol) {
	if r.notSelectedSymbols == nil {
		r.notSelectedSymbols = newSymbolSet()
	}
	r.notSelectedSymbols.add(sym)
}

func (r *Reduce) String() string {
	return fmt.Sprintf("reduce (%v)", r.item.prod)
}
