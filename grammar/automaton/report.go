package automaton

import (
	"github.com/nihei9/ielr/grammar/symbol"
	spec "github.com/nihei9/ielr/spec/grammar"
)

func symbolNums(syms []*symbol.Symbol) []int {
	nums := make([]int, len(syms))
	for i, sym := range syms {
		nums[i] = sym.Num().Int()
	}
	return nums
}

// GenReport describes the automaton in the report format.
func (a *Automaton) GenReport() *spec.Report {
	syms := a.gram.Symbols()

	var terms []*spec.Terminal
	for _, sym := range syms.TerminalSymbols() {
		term := &spec.Terminal{
			Number: sym.Num().Int(),
			Name:   sym.Name(),
		}
		if prec := sym.Precedence(); prec != nil {
			term.Precedence = prec.Level
			term.Associativity = prec.Assoc.String()
		}
		terms = append(terms, term)
	}

	var nonTerms []*spec.NonTerminal
	for _, sym := range syms.NonTerminalSymbols() {
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number:   sym.Num().Int(),
			Name:     sym.Name(),
			Nullable: sym.IsNullable(),
		})
	}

	var prods []*spec.Production
	for _, p := range a.gram.Productions() {
		prod := &spec.Production{
			Number: p.Num().Int(),
			LHS:    p.LHS().Num().Int(),
			RHS:    symbolNums(p.RHS()),
		}
		if prec := p.Precedence(); prec != nil {
			prod.Precedence = prec.Level
			prod.Associativity = prec.Assoc.String()
		}
		prods = append(prods, prod)
	}

	states := make([]*spec.State, 0, len(a.states))
	for _, s := range a.states {
		kernel := make([]*spec.Item, len(s.kernel.items))
		for i, item := range s.kernel.items {
			kernel[i] = &spec.Item{
				Production: item.prod.Num().Int(),
				Dot:        item.dot,
			}
		}

		var shift []*spec.Transition
		for _, tr := range s.SelectedTermTransitions() {
			shift = append(shift, &spec.Transition{
				Symbol: tr.Shift.nextSym.Num().Int(),
				State:  tr.Next.num.Int(),
			})
		}

		var goTo []*spec.Transition
		for _, tr := range s.NontermTransitions() {
			goTo = append(goTo, &spec.Transition{
				Symbol: tr.Shift.nextSym.Num().Int(),
				State:  tr.Next.num.Int(),
			})
		}

		var reduce []*spec.Reduce
		for _, r := range s.reduces {
			reduce = append(reduce, &spec.Reduce{
				LookAhead:   symbolNums(r.SelectedLookAhead()),
				NotSelected: symbolNums(r.NotSelectedSymbols()),
				Production:  r.Rule().Num().Int(),
			})
		}

		var defReduce *int
		if r := s.defaultReduction; r != nil {
			n := r.Rule().Num().Int()
			defReduce = &n
		}

		var srConflicts []*spec.SRConflict
		var rrConflicts []*spec.RRConflict
		for _, c := range s.conflicts {
			switch c := c.(type) {
			case *ShiftReduceConflict:
				next := s.mustTransition(c.Shift.nextSym).Next
				for _, sym := range c.Symbols {
					srConflicts = append(srConflicts, &spec.SRConflict{
						Symbol:     sym.Num().Int(),
						State:      next.num.Int(),
						Production: c.Reduce.Rule().Num().Int(),
					})
				}
			case *ReduceReduceConflict:
				for _, sym := range c.Symbols {
					rrConflicts = append(rrConflicts, &spec.RRConflict{
						Symbol:      sym.Num().Int(),
						Production1: c.Reduce1.Rule().Num().Int(),
						Production2: c.Reduce2.Rule().Num().Int(),
					})
				}
			}
		}

		var resolved []*spec.ResolvedConflict
		for _, c := range s.resolvedConflicts {
			resolved = append(resolved, &spec.ResolvedConflict{
				Symbol:         c.Symbol.Num().Int(),
				Production:     c.Reduce.Rule().Num().Int(),
				Which:          c.Which.String(),
				SamePrecedence: c.SamePrecedence,
				Message:        c.ReportMessage(),
			})
		}

		states = append(states, &spec.State{
			Number:           s.num.Int(),
			Isocore:          s.lalrIsocore.Int(),
			Kernel:           kernel,
			Shift:            shift,
			Reduce:           reduce,
			GoTo:             goTo,
			DefaultReduction: defReduce,
			SRConflict:       srConflicts,
			RRConflict:       rrConflicts,
			ResolvedConflict: resolved,
		})
	}

	return &spec.Report{
		Name:         a.gram.Name(),
		Algorithm:    a.algorithm.String(),
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}
}
