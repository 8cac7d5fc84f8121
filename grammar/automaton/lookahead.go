package automaton

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/nihei9/ielr/grammar/symbol"
)

// The LALR(1) look-ahead sets are derived from relations between goto transitions, after
// "The IELR(1) algorithm for generating minimal LR(1) parser tables for non-LR(1) grammars with
// conflict resolution" (Denny and Malloy). All relations are evaluated lazily and memoized per
// state; rewiring a transition drops the memoized results of its state.

// dependencyWalker is a worklist over goto transitions that visits each transition once.
type dependencyWalker struct {
	stack   *arraystack.Stack
	visited map[dependencyKey]struct{}
}

func newDependencyWalker(deps ...dependency) *dependencyWalker {
	w := &dependencyWalker{
		stack:   arraystack.New(),
		visited: map[dependencyKey]struct{}{},
	}
	w.push(deps...)
	return w
}

func (w *dependencyWalker) push(deps ...dependency) {
	for _, d := range deps {
		k := d.key()
		if _, ok := w.visited[k]; ok {
			continue
		}
		w.visited[k] = struct{}{}
		w.stack.Push(d)
	}
}

func (w *dependencyWalker) pop() (dependency, bool) {
	v, ok := w.stack.Pop()
	if !ok {
		return dependency{}, false
	}
	return v.(dependency), true
}

// itemLookahead returns the look-ahead set of a kernel item.
//
// The item of the augmented start production has no look-ahead. An item whose dot is behind the
// second symbol inherits the sets of its predecessor item in all predecessor states. An item whose
// dot is behind the first symbol takes the goto follows of its LHS in the predecessor states.
func (s *State) itemLookahead(item Item) *symbolSet {
	if la, ok := s.itemLookaheads[item]; ok {
		return la
	}

	la := newSymbolSet()
	switch {
	case item.LHS().IsAccept():
	case item.dot > 1:
		prev := Item{
			prod: item.prod,
			dot:  item.dot - 1,
		}
		for _, p := range s.Predecessors() {
			if !p.hasItem(prev) {
				continue
			}
			la.merge(p.itemLookahead(prev))
		}
	case item.dot == 1:
		for _, p := range s.Predecessors() {
			tr, ok := p.transitionOn(item.LHS())
			if !ok {
				continue
			}
			la.merge(p.gotoFollows(tr.Shift, tr.Next))
		}
	default:
		invariantViolation(s, "%v is not a kernel item", item)
	}

	if s.itemLookaheads == nil {
		s.itemLookaheads = map[Item]*symbolSet{}
	}
	s.itemLookaheads[item] = la
	return la
}

// itemLookaheadSet returns the look-ahead sets of all kernel items.
func (s *State) itemLookaheadSet() map[Item]*symbolSet {
	m := make(map[Item]*symbolSet, len(s.kernel.items))
	for _, k := range s.kernel.items {
		m[k] = s.itemLookahead(k)
	}
	return m
}

// gotoFollows returns the tokens that may follow the goto shift in any context reaching s.
func (s *State) gotoFollows(shift *Shift, next *State) *symbolSet {
	terms := newSymbolSet()
	w := newDependencyWalker(dependency{
		state: s,
		shift: shift,
		next:  next,
	})
	for {
		d, ok := w.pop()
		if !ok {
			break
		}
		terms.merge(d.state.alwaysFollows(d.shift, d.next))
		w.push(d.state.internalDependencies(d.shift, d.next)...)
		w.push(d.state.predecessorDependencies(d.shift, d.next)...)
	}
	return terms
}

// alwaysFollows returns the tokens following the goto shift regardless of the context s was reached
// in: the terminals shiftable after the goto and after every goto it depends on through nullable
// suffixes in s or nullable gotos of its successors.
func (s *State) alwaysFollows(shift *Shift, next *State) *symbolSet {
	key := transitionKey{
		sym:  shift.nextSym.Num(),
		next: next.num,
	}
	if terms, ok := s.alwaysFollowsCache[key]; ok {
		return terms
	}

	terms := newSymbolSet()
	w := newDependencyWalker(dependency{
		state: s,
		shift: shift,
		next:  next,
	})
	for {
		d, ok := w.pop()
		if !ok {
			break
		}
		for _, tr := range d.next.TermTransitions() {
			terms.add(tr.Shift.nextSym)
		}
		w.push(d.state.internalDependencies(d.shift, d.next)...)
		w.push(d.state.successorDependencies(d.shift, d.next)...)
	}

	if s.alwaysFollowsCache == nil {
		s.alwaysFollowsCache = map[transitionKey]*symbolSet{}
	}
	s.alwaysFollowsCache[key] = terms
	return terms
}

// internalDependencies returns the gotos of s on the LHS of every closure item whose next symbol is
// the one shift moves over and whose remaining symbols are nullable.
func (s *State) internalDependencies(shift *Shift, next *State) []dependency {
	key := transitionKey{
		sym:  shift.nextSym.Num(),
		next: next.num,
	}
	if deps, ok := s.internalDeps[key]; ok {
		return deps
	}

	lhs := map[*symbol.Symbol]struct{}{}
	for _, item := range s.items {
		if item.dot != 0 || item.NextSymbol() != shift.nextSym || !item.restIsNullable() {
			continue
		}
		lhs[item.LHS()] = struct{}{}
	}
	deps := []dependency{}
	for _, tr := range s.NontermTransitions() {
		if _, ok := lhs[tr.Shift.nextSym]; !ok {
			continue
		}
		deps = append(deps, dependency{
			state: s,
			shift: tr.Shift,
			next:  tr.Next,
		})
	}

	if s.internalDeps == nil {
		s.internalDeps = map[transitionKey][]dependency{}
	}
	s.internalDeps[key] = deps
	return deps
}

// successorDependencies returns the gotos of next on nullable non-terminals.
func (s *State) successorDependencies(shift *Shift, next *State) []dependency {
	key := transitionKey{
		sym:  shift.nextSym.Num(),
		next: next.num,
	}
	if deps, ok := s.successorDeps[key]; ok {
		return deps
	}

	deps := []dependency{}
	for _, tr := range next.NontermTransitions() {
		if !tr.Shift.nextSym.IsNullable() {
			continue
		}
		deps = append(deps, dependency{
			state: next,
			shift: tr.Shift,
			next:  tr.Next,
		})
	}

	if s.successorDeps == nil {
		s.successorDeps = map[transitionKey][]dependency{}
	}
	s.successorDeps[key] = deps
	return deps
}

// predecessorDependencies returns, for every kernel item of s followed by the symbol of shift and a
// nullable remainder, the gotos on the item's LHS in the states where the item's rule started.
func (s *State) predecessorDependencies(shift *Shift, next *State) []dependency {
	key := transitionKey{
		sym:  shift.nextSym.Num(),
		next: next.num,
	}
	if deps, ok := s.predecessorDeps[key]; ok {
		return deps
	}

	deps := []dependency{}
	for _, k := range s.kernel.items {
		if k.NextSymbol() != shift.nextSym || !k.restIsNullable() {
			continue
		}
		for _, origin := range s.traceItemOrigins(k) {
			tr, ok := origin.state.transitionOn(origin.item.LHS())
			if !ok {
				continue
			}
			deps = append(deps, dependency{
				state: origin.state,
				shift: tr.Shift,
				next:  tr.Next,
			})
		}
	}

	if s.predecessorDeps == nil {
		s.predecessorDeps = map[transitionKey][]dependency{}
	}
	s.predecessorDeps[key] = deps
	return deps
}

type stateItem struct {
	state *State
	item  Item
}

// predecessorsWithItem returns the predecessors of s holding the item one position before item.
func (s *State) predecessorsWithItem(item Item) []stateItem {
	if item.dot == 0 {
		return nil
	}
	prev := Item{
		prod: item.prod,
		dot:  item.dot - 1,
	}
	var sis []stateItem
	for _, p := range s.Predecessors() {
		if !p.hasItem(prev) {
			continue
		}
		sis = append(sis, stateItem{
			state: p,
			item:  prev,
		})
	}
	return sis
}

// traceItemOrigins walks back from item to the states holding the item's rule with the dot at the
// start.
func (s *State) traceItemOrigins(item Item) []stateItem {
	type visitKey struct {
		state stateNum
		dot   int
	}

	var origins []stateItem
	visited := map[visitKey]struct{}{}
	stack := arraystack.New()
	stack.Push(stateItem{
		state: s,
		item:  item,
	})
	for !stack.Empty() {
		v, _ := stack.Pop()
		si := v.(stateItem)
		if si.item.dot == 0 {
			origins = append(origins, si)
			continue
		}
		for _, pre := range si.state.predecessorsWithItem(si.item) {
			k := visitKey{
				state: pre.state.num,
				dot:   pre.item.dot,
			}
			if _, ok := visited[k]; ok {
				continue
			}
			visited[k] = struct{}{}
			stack.Push(pre)
		}
	}
	return origins
}

// followKernelItems reports whether the look-ahead of kernel flows into the goto shift through the
// internal dependencies of s.
func (s *State) followKernelItems(shift *Shift, next *State, kernel Item) bool {
	w := newDependencyWalker(dependency{
		state: s,
		shift: shift,
		next:  next,
	})
	for {
		d, ok := w.pop()
		if !ok {
			return false
		}
		if kernel.NextSymbol() == d.shift.nextSym && kernel.restIsNullable() {
			return true
		}
		w.push(d.state.internalDependencies(d.shift, d.next)...)
	}
}

// gotoFollowSet returns the tokens that may follow lhs in s, using the current look-ahead sets of the
// kernel items of s.
func (s *State) gotoFollowSet(lhs *symbol.Symbol) *symbolSet {
	tr, ok := s.transitionOn(lhs)
	if !ok {
		return newSymbolSet()
	}
	terms := s.alwaysFollows(tr.Shift, tr.Next).clone()
	for _, k := range s.kernel.items {
		if !s.followKernelItems(tr.Shift, tr.Next, k) {
			continue
		}
		terms.merge(s.itemLookahead(k))
	}
	return terms
}
