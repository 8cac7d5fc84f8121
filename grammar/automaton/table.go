package automaton

import (
	"math"

	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/symbol"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

type actionEntry int

const (
	actionEntryEmpty = actionEntry(0)

	// actionEntryError is an explicit error a non-associative precedence produced. Unlike an empty
	// entry, it overrides the default reduction.
	actionEntryError = actionEntry(math.MinInt32)
)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod grammar.ProductionNum) actionEntry {
	return actionEntry(prod + 1)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, grammar.ProductionNum) {
	switch {
	case e == actionEntryEmpty || e == actionEntryError:
		return ActionTypeError, stateNumInitial, 0
	case e < 0:
		return ActionTypeShift, stateNum(e * -1), 0
	}
	prod := grammar.ProductionNum(e - 1)
	if prod == grammar.ProductionNumStart {
		return ActionTypeAccept, stateNumInitial, prod
	}
	return ActionTypeReduce, stateNumInitial, prod
}

type goToEntry uint

// The initial state is never the target of a goto, so 0 can mean no entry.
const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

// ParsingTable is the dense action and goto table of an automaton. Unresolved shift/reduce conflicts
// are settled in favour of the shift and reduce/reduce conflicts in favour of the lower rule number.
type ParsingTable struct {
	actionTable       []actionEntry
	goToTable         []goToEntry
	defaultReductions []actionEntry
	stateCount        int
	terminalCount     int
	nonTerminalCount  int

	// errorTrapperStates's index means a state number, and when `errorTrapperStates[stateNum]` is `1`,
	// the state has an item having the following form. The `α` and `β` can be empty.
	//
	// A → α・error β
	errorTrapperStates []int

	InitialState int
}

func NewParsingTable(a *Automaton) *ParsingTable {
	syms := a.gram.Symbols()
	states := a.States()
	ptab := &ParsingTable{
		actionTable:        make([]actionEntry, len(states)*syms.TerminalCount()),
		goToTable:          make([]goToEntry, len(states)*syms.NonTerminalCount()),
		defaultReductions:  make([]actionEntry, len(states)),
		stateCount:         len(states),
		terminalCount:      syms.TerminalCount(),
		nonTerminalCount:   syms.NonTerminalCount(),
		errorTrapperStates: make([]int, len(states)),
		InitialState:       stateNumInitial.Int(),
	}

	for _, state := range states {
		for _, tr := range state.SelectedTermTransitions() {
			if tr.Shift.nextSym.IsError() {
				ptab.errorTrapperStates[state.num] = 1
			}
			ptab.writeAction(state.num, tr.Shift.nextSym, newShiftActionEntry(tr.Next.num))
		}
		for _, tr := range state.NontermTransitions() {
			ptab.writeGoTo(state.num, tr.Shift.nextSym, tr.Next.num)
		}
		for _, r := range state.reduces {
			for _, sym := range r.SelectedLookAhead() {
				act := ptab.readAction(state.num, sym)
				if !act.isEmpty() {
					ty, _, prod := act.describe()
					if ty == ActionTypeShift || prod <= r.Rule().Num() {
						continue
					}
				}
				ptab.writeAction(state.num, sym, newReduceActionEntry(r.Rule().Num()))
			}
		}
		for _, c := range state.resolvedConflicts {
			if c.Which != ResolutionError {
				continue
			}
			ptab.writeAction(state.num, c.Symbol, actionEntryError)
		}
		if r := state.defaultReduction; r != nil {
			ptab.defaultReductions[state.num] = newReduceActionEntry(r.Rule().Num())
		}
	}

	return ptab
}

// Action returns the action of a state on a terminal symbol. The state number is meaningful only for
// a shift and the production number only for a reduce.
func (t *ParsingTable) Action(state int, term *symbol.Symbol) (ActionType, int, grammar.ProductionNum) {
	e := t.readAction(stateNum(state), term)
	if e.isEmpty() {
		e = t.defaultReductions[state]
	}
	ty, next, prod := e.describe()
	return ty, next.Int(), prod
}

// DefaultReduction returns the production a state reduces by on tokens without an explicit action.
func (t *ParsingTable) DefaultReduction(state int) (grammar.ProductionNum, bool) {
	e := t.defaultReductions[state]
	if e.isEmpty() {
		return 0, false
	}
	_, _, prod := e.describe()
	return prod, true
}

func (t *ParsingTable) GoTo(state int, nonTerm *symbol.Symbol) (int, bool) {
	pos := state*t.nonTerminalCount + nonTerm.Num().Int() - t.terminalCount
	e := t.goToTable[pos]
	if e == goToEntryEmpty {
		return 0, false
	}
	return int(e), true
}

func (t *ParsingTable) IsErrorTrapper(state int) bool {
	return t.errorTrapperStates[state] == 1
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

func (t *ParsingTable) readAction(state stateNum, term *symbol.Symbol) actionEntry {
	return t.actionTable[state.Int()*t.terminalCount+term.Num().Int()]
}

func (t *ParsingTable) writeAction(state stateNum, term *symbol.Symbol, act actionEntry) {
	t.actionTable[state.Int()*t.terminalCount+term.Num().Int()] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, nonTerm *symbol.Symbol, next stateNum) {
	pos := state.Int()*t.nonTerminalCount + nonTerm.Num().Int() - t.terminalCount
	t.goToTable[pos] = newGoToEntry(next)
}
