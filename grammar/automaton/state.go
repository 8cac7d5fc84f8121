package automaton

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/symbol"
)

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

func (n stateNum) next() stateNum {
	return stateNum(n + 1)
}

// Transition is a shift of a state together with the state it leads to.
type Transition struct {
	Shift *Shift
	Next  *State
}

type transitionKey struct {
	sym  symbol.SymbolNum
	next stateNum
}

// dependency names a goto transition `shift` of `state` leading to `next`.
type dependency struct {
	state *State
	shift *Shift
	next  *State
}

type dependencyKey struct {
	state stateNum
	sym   symbol.SymbolNum
}

func (d dependency) key() dependencyKey {
	return dependencyKey{
		state: d.state.num,
		sym:   d.shift.nextSym.Num(),
	}
}

// isocoreGroup holds the states sharing one LR(0) kernel. The first member is the state the LR(0)
// construction created.
type isocoreGroup struct {
	members []stateNum
}

type lhsContributionKey struct {
	lhs   symbol.SymbolNum
	token symbol.SymbolNum
}

type State struct {
	a            *Automaton
	num          stateNum
	accessingSym *symbol.Symbol
	kernel       *kernel
	closure      []Item
	items        []Item
	itemSet      map[Item]struct{}

	shifts            []*Shift
	reduces           []*Reduce
	conflicts         []Conflict
	resolvedConflicts []*ResolvedConflict
	defaultReduction  *Reduce

	predecessors []stateNum
	itemsToState map[kernelID]stateNum

	lalrIsocore          stateNum
	isocores             *isocoreGroup
	lookaheadsRecomputed bool
	annotations          []*InadequacyAnnotation

	// itemLookaheads holds the look-ahead set of each kernel item. The LALR(1) sets are computed on
	// demand; the IELR(1) splitting assigns filtered sets.
	itemLookaheads map[Item]*symbolSet

	transitionsCache   []Transition
	internalDeps       map[transitionKey][]dependency
	successorDeps      map[transitionKey][]dependency
	predecessorDeps    map[transitionKey][]dependency
	alwaysFollowsCache map[transitionKey]*symbolSet
	lhsContributions   map[lhsContributionKey]contributions
}

// ID returns the state number. The initial state is 0.
func (s *State) ID() int {
	return s.num.Int()
}

// AccessingSymbol returns the symbol every transition into the state shifts. It is nil for the
// initial state.
func (s *State) AccessingSymbol() *symbol.Symbol {
	return s.accessingSym
}

func (s *State) Kernels() []Item {
	return s.kernel.items
}

// Closure returns the items the closure added to the kernel.
func (s *State) Closure() []Item {
	return s.closure
}

func (s *State) Items() []Item {
	return s.items
}

func (s *State) hasItem(item Item) bool {
	_, ok := s.itemSet[item]
	return ok
}

// Shifts returns the shifts sorted by symbol number.
func (s *State) Shifts() []*Shift {
	return s.shifts
}

func (s *State) Reduces() []*Reduce {
	return s.reduces
}

func (s *State) Conflicts() []Conflict {
	return s.conflicts
}

func (s *State) SRConflicts() []*ShiftReduceConflict {
	var cs []*ShiftReduceConflict
	for _, c := range s.conflicts {
		if sr, ok := c.(*ShiftReduceConflict); ok {
			cs = append(cs, sr)
		}
	}
	return cs
}

func (s *State) RRConflicts() []*ReduceReduceConflict {
	var cs []*ReduceReduceConflict
	for _, c := range s.conflicts {
		if rr, ok := c.(*ReduceReduceConflict); ok {
			cs = append(cs, rr)
		}
	}
	return cs
}

// HasConflicts reports whether the state has conflicts precedences could not resolve.
func (s *State) HasConflicts() bool {
	return len(s.conflicts) > 0
}

func (s *State) ResolvedConflicts() []*ResolvedConflict {
	return s.resolvedConflicts
}

// DefaultReduction returns nil when the state has no default reduction.
func (s *State) DefaultReduction() *Reduce {
	return s.defaultReduction
}

// NonDefaultReduces returns the reduces except the default reduction.
func (s *State) NonDefaultReduces() []*Reduce {
	var rs []*Reduce
	for _, r := range s.reduces {
		if r.defaultReduction {
			continue
		}
		rs = append(rs, r)
	}
	return rs
}

func (s *State) Predecessors() []*State {
	ps := make([]*State, 0, len(s.predecessors))
	for _, n := range s.predecessors {
		ps = append(ps, s.a.states[n])
	}
	return ps
}

// LALRIsocore returns the unsplit state whose kernel the state shares. For an unsplit state it is
// the state itself.
func (s *State) LALRIsocore() *State {
	return s.a.states[s.lalrIsocore]
}

// IELRIsocores returns all states sharing the kernel of the state, the unsplit one first.
func (s *State) IELRIsocores() []*State {
	ss := make([]*State, 0, len(s.isocores.members))
	for _, n := range s.isocores.members {
		ss = append(ss, s.a.states[n])
	}
	return ss
}

// IsSplit reports whether the state was created by IELR(1) splitting.
func (s *State) IsSplit() bool {
	return s.lalrIsocore != s.num
}

func (s *State) Annotations() []*InadequacyAnnotation {
	return s.annotations
}

// ItemLookAhead returns the look-ahead tokens of a kernel item.
func (s *State) ItemLookAhead(item Item) []*symbol.Symbol {
	return s.itemLookahead(item).symbols()
}

// Transitions returns the transitions ordered like the shifts.
func (s *State) Transitions() []Transition {
	if s.transitionsCache != nil {
		return s.transitionsCache
	}
	trs := make([]Transition, 0, len(s.shifts))
	for _, sh := range s.shifts {
		n, ok := s.itemsToState[sh.nextItems.id]
		if !ok {
			invariantViolation(s, "shift on %v is not wired to any state", sh.nextSym)
		}
		trs = append(trs, Transition{
			Shift: sh,
			Next:  s.a.states[n],
		})
	}
	s.transitionsCache = trs
	return trs
}

func (s *State) TermTransitions() []Transition {
	var trs []Transition
	for _, tr := range s.Transitions() {
		if tr.Shift.nextSym.IsTerminal() {
			trs = append(trs, tr)
		}
	}
	return trs
}

func (s *State) NontermTransitions() []Transition {
	var trs []Transition
	for _, tr := range s.Transitions() {
		if tr.Shift.nextSym.IsNonTerminal() {
			trs = append(trs, tr)
		}
	}
	return trs
}

// SelectedTermTransitions returns the terminal transitions precedence resolution kept.
func (s *State) SelectedTermTransitions() []Transition {
	var trs []Transition
	for _, tr := range s.TermTransitions() {
		if tr.Shift.notSelected {
			continue
		}
		trs = append(trs, tr)
	}
	return trs
}

// Transition returns the state reached by shifting sym. A missing transition means the state graph
// is broken.
func (s *State) Transition(sym *symbol.Symbol) (next *State, retErr error) {
	defer func() {
		if v := recover(); v != nil {
			retErr = recoverBuildError(v)
		}
	}()
	return s.mustTransition(sym).Next, nil
}

func (s *State) mustTransition(sym *symbol.Symbol) Transition {
	tr, ok := s.transitionOn(sym)
	if !ok {
		invariantViolation(s, "no transition on %v", sym)
	}
	return tr
}

func (s *State) transitionOn(sym *symbol.Symbol) (Transition, bool) {
	for _, tr := range s.Transitions() {
		if tr.Shift.nextSym == sym {
			return tr, true
		}
	}
	return Transition{}, false
}

func (s *State) findReduceByItem(item Item) *Reduce {
	for _, r := range s.reduces {
		if r.item == item {
			return r
		}
	}
	invariantViolation(s, "no reduce of item %v", item)
	return nil
}

func (s *State) shiftOn(sym *symbol.Symbol) *Shift {
	for _, sh := range s.shifts {
		if sh.nextSym == sym {
			return sh
		}
	}
	invariantViolation(s, "no shift on %v", sym)
	return nil
}

// updateTransition wires shift to next. Rewiring also drops s from the predecessors of the state the
// shift led to before.
func (s *State) updateTransition(shift *Shift, next *State) {
	prev, wired := s.itemsToState[shift.nextItems.id]
	s.itemsToState[shift.nextItems.id] = next.num
	next.appendPredecessor(s.num)
	if wired && prev != next.num {
		old := s.a.states[prev]
		old.removePredecessor(s.num)
		old.clearTransitionCaches()
	}
	s.clearTransitionCaches()
	next.clearTransitionCaches()
}

func (s *State) appendPredecessor(n stateNum) {
	for _, p := range s.predecessors {
		if p == n {
			return
		}
	}
	s.predecessors = append(s.predecessors, n)
}

func (s *State) removePredecessor(n stateNum) {
	for i, p := range s.predecessors {
		if p == n {
			s.predecessors = append(s.predecessors[:i], s.predecessors[i+1:]...)
			return
		}
	}
}

func (s *State) clearTransitionCaches() {
	s.transitionsCache = nil
	s.internalDeps = nil
	s.successorDeps = nil
	s.predecessorDeps = nil
	s.alwaysFollowsCache = nil
	s.lhsContributions = nil
}

// clearConflicts forgets everything the conflict resolution decided for the state.
func (s *State) clearConflicts() {
	s.conflicts = nil
	s.resolvedConflicts = nil
	s.defaultReduction = nil
	for _, sh := range s.shifts {
		sh.notSelected = false
	}
	for _, r := range s.reduces {
		r.notSelectedSymbols = nil
		r.defaultReduction = false
	}
}

func (s *State) String() string {
	return fmt.Sprintf("state %v", s.num)
}

func genClosure(gram *grammar.Grammar, k *kernel) ([]Item, error) {
	known := map[Item]struct{}{}
	for _, item := range k.items {
		known[item] = struct{}{}
	}
	closure := []Item{}
	unchecked := k.items
	for len(unchecked) > 0 {
		nextUnchecked := []Item{}
		for _, item := range unchecked {
			sym := item.NextSymbol()
			if sym == nil || sym.IsTerminal() {
				continue
			}
			for _, prod := range gram.ProductionsByLHS(sym) {
				item, err := newItem(prod, 0)
				if err != nil {
					return nil, err
				}
				if _, ok := known[item]; ok {
					continue
				}
				known[item] = struct{}{}
				closure = append(closure, item)
				nextUnchecked = append(nextUnchecked, item)
			}
		}
		unchecked = nextUnchecked
	}
	sort.Slice(closure, func(i, j int) bool {
		return closure[i].less(closure[j])
	})
	return closure, nil
}

// genActions derives the shifts and reduces of an item set. Shifts are sorted by symbol number and
// reduces follow the order of the items.
func genActions(items []Item) ([]*Shift, []*Reduce, error) {
	nextItems := map[*symbol.Symbol][]Item{}
	var reduces []*Reduce
	for _, item := range items {
		sym := item.NextSymbol()
		if sym == nil {
			reduces = append(reduces, &Reduce{
				item: item,
			})
			continue
		}
		nextItems[sym] = append(nextItems[sym], item.Advance())
	}

	nextSyms := make([]*symbol.Symbol, 0, len(nextItems))
	for sym := range nextItems {
		nextSyms = append(nextSyms, sym)
	}
	sort.Slice(nextSyms, func(i, j int) bool {
		return nextSyms[i].Num() < nextSyms[j].Num()
	})

	shifts := make([]*Shift, 0, len(nextSyms))
	for _, sym := range nextSyms {
		k, err := newKernel(nextItems[sym])
		if err != nil {
			return nil, nil, err
		}
		shifts = append(shifts, &Shift{
			nextSym:   sym,
			nextItems: k,
		})
	}
	return shifts, reduces, nil
}

func newState(a *Automaton, num stateNum, accessingSym *symbol.Symbol, k *kernel, closure []Item) (*State, error) {
	items := make([]Item, 0, len(k.items)+len(closure))
	items = append(items, k.items...)
	items = append(items, closure...)
	itemSet := make(map[Item]struct{}, len(items))
	for _, item := range items {
		itemSet[item] = struct{}{}
	}
	shifts, reduces, err := genActions(items)
	if err != nil {
		return nil, err
	}
	return &State{
		a:            a,
		num:          num,
		accessingSym: accessingSym,
		kernel:       k,
		closure:      closure,
		items:        items,
		itemSet:      itemSet,
		shifts:       shifts,
		reduces:      reduces,
		itemsToState: map[kernelID]stateNum{},
		lalrIsocore:  num,
	}, nil
}
