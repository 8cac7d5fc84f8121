package automaton

import (
	"fmt"

	"github.com/nihei9/ielr/grammar/symbol"
)

// Conflict is either *ShiftReduceConflict or *ReduceReduceConflict.
type Conflict interface {
	conflict()
}

// ShiftReduceConflict is a conflict precedences could not resolve.
type ShiftReduceConflict struct {
	Symbols []*symbol.Symbol
	Shift   *Shift
	Reduce  *Reduce
}

func (*ShiftReduceConflict) conflict() {}

type ReduceReduceConflict struct {
	Symbols []*symbol.Symbol
	Reduce1 *Reduce
	Reduce2 *Reduce
}

func (*ReduceReduceConflict) conflict() {}

// ResolvedConflict records how precedence resolved a shift/reduce conflict on Symbol.
type ResolvedConflict struct {
	Symbol         *symbol.Symbol
	Reduce         *Reduce
	Which          Resolution
	SamePrecedence bool
}

func (c *ResolvedConflict) String() string {
	return c.ReportMessage()
}

// ReportMessage describes the resolution, e.g. "Conflict between rule 1 and token + resolved as
// reduce (%left +)."
func (c *ResolvedConflict) ReportMessage() string {
	s := c.Symbol.Name()
	var r string
	if ps := c.Reduce.Rule().PrecedenceSymbol(); ps != nil {
		r = ps.Name()
	}

	var msg string
	switch {
	case c.Which == ResolutionShift && c.SamePrecedence:
		msg = fmt.Sprintf("resolved as %v (%%right %v)", c.Which, s)
	case c.Which == ResolutionShift:
		msg = fmt.Sprintf("resolved as %v (%v < %v)", c.Which, r, s)
	case c.Which == ResolutionReduce && c.SamePrecedence:
		msg = fmt.Sprintf("resolved as %v (%%left %v)", c.Which, s)
	case c.Which == ResolutionReduce:
		msg = fmt.Sprintf("resolved as %v (%v < %v)", c.Which, s, r)
	case c.Which == ResolutionError:
		msg = fmt.Sprintf("resolved as an %v (%%nonassoc %v)", c.Which, s)
	default:
		msg = fmt.Sprintf("resolved as %v", c.Which)
	}

	return fmt.Sprintf("Conflict between rule %v and token %v %v.", c.Reduce.Rule().Num(), s, msg)
}

// computeShiftReduceConflicts resolves every pair of a terminal shift and a reduce whose look-ahead
// contains the shifted token. Unresolvable pairs become conflicts of the state.
func (s *State) computeShiftReduceConflicts() {
	for _, sh := range s.shifts {
		sym := sh.nextSym
		if !sym.IsTerminal() {
			continue
		}
		for _, r := range s.reduces {
			if r.lookAhead == nil || !r.lookAhead.contains(sym) {
				continue
			}

			which, samePrec, ok := resolveShiftReduce(sym, r.Rule())
			if !ok {
				s.conflicts = append(s.conflicts, &ShiftReduceConflict{
					Symbols: []*symbol.Symbol{sym},
					Shift:   sh,
					Reduce:  r,
				})
				continue
			}

			s.resolvedConflicts = append(s.resolvedConflicts, &ResolvedConflict{
				Symbol:         sym,
				Reduce:         r,
				Which:          which,
				SamePrecedence: samePrec,
			})
			switch which {
			case ResolutionShift:
				r.addNotSelectedSymbol(sym)
			case ResolutionReduce:
				sh.notSelected = true
			case ResolutionError:
				sh.notSelected = true
				r.addNotSelectedSymbol(sym)
			}
		}
	}
}

func (s *State) computeReduceReduceConflicts() {
	for i, r1 := range s.reduces {
		if r1.lookAhead == nil {
			continue
		}
		for _, r2 := range s.reduces[i+1:] {
			if r2.lookAhead == nil {
				continue
			}
			intersection := r1.lookAhead.intersect(r2.lookAhead)
			if intersection.isEmpty() {
				continue
			}
			s.conflicts = append(s.conflicts, &ReduceReduceConflict{
				Symbols: intersection.symbols(),
				Reduce1: r1,
				Reduce2: r2,
			})
		}
	}
}

// computeDefaultReduction picks the reduce with the largest look-ahead set, preferring the lower
// rule number on ties. States with unresolved conflicts or a shift on the error token get none.
func (s *State) computeDefaultReduction() {
	if len(s.reduces) == 0 || s.HasConflicts() {
		return
	}
	for _, sh := range s.shifts {
		if sh.nextSym.IsError() {
			return
		}
	}

	var def *Reduce
	for _, r := range s.reduces {
		if def == nil {
			def = r
			continue
		}
		n, m := r.lookAhead.size(), def.lookAhead.size()
		if n > m || (n == m && r.Rule().Num() < def.Rule().Num()) {
			def = r
		}
	}
	def.defaultReduction = true
	s.defaultReduction = def
}
