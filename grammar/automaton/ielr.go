package automaton

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/schuko/tracing"

	"github.com/nihei9/ielr/grammar/symbol"
)

type inadequacy struct {
	token   *symbol.Symbol
	actions []Action
}

// inadequacyList returns the tokens on which the state has two or more actions under the LALR(1)
// look-ahead sets, ordered by symbol number. Shifts precede reduces in each action list.
func (s *State) inadequacyList() []*inadequacy {
	acts := map[*symbol.Symbol][]Action{}
	for _, sh := range s.shifts {
		if !sh.nextSym.IsTerminal() {
			continue
		}
		acts[sh.nextSym] = append(acts[sh.nextSym], sh)
	}
	for _, r := range s.reduces {
		for _, sym := range r.lookAhead.symbols() {
			acts[sym] = append(acts[sym], r)
		}
	}

	var list []*inadequacy
	for sym, as := range acts {
		if len(as) < 2 {
			continue
		}
		list = append(list, &inadequacy{
			token:   sym,
			actions: as,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].token.Num() < list[j].token.Num()
	})
	return list
}

// lhsContributionsOf returns which kernel items let token follow the goto on lhs. It returns nil when
// the token follows the goto in every context.
func (s *State) lhsContributionsOf(lhs *symbol.Symbol, token *symbol.Symbol) contributions {
	key := lhsContributionKey{
		lhs:   lhs.Num(),
		token: token.Num(),
	}
	if c, ok := s.lhsContributions[key]; ok {
		return c
	}

	tr := s.mustTransition(lhs)
	var c contributions
	if !s.alwaysFollows(tr.Shift, tr.Next).contains(token) {
		c = make(contributions, len(s.kernel.items))
		for _, k := range s.kernel.items {
			c[k] = s.followKernelItems(tr.Shift, tr.Next, k) && s.itemLookahead(k).contains(token)
		}
	}

	if s.lhsContributions == nil {
		s.lhsContributions = map[lhsContributionKey]contributions{}
	}
	s.lhsContributions[key] = c
	return c
}

// annotateManifestation annotates the state with its own inadequacies.
func (s *State) annotateManifestation() {
	for _, in := range s.inadequacyList() {
		matrix := make([]contributions, len(in.actions))
		for i, act := range in.actions {
			r, ok := act.(*Reduce)
			if !ok {
				continue
			}
			if r.Rule().IsEmpty() {
				matrix[i] = s.lhsContributionsOf(r.item.LHS(), in.token).clone()
				continue
			}
			cs := make(contributions, len(s.kernel.items))
			for _, k := range s.kernel.items {
				cs[k] = k == r.item
			}
			matrix[i] = cs
		}
		s.annotations = append(s.annotations, &InadequacyAnnotation{
			state:   s,
			token:   in.token,
			actions: in.actions,
			matrix:  matrix,
		})
	}
}

// annotatePredecessor carries the annotations of next, a successor of s, over to s. It reports
// whether the annotations of s changed.
func (s *State) annotatePredecessor(next *State) bool {
	changed := false
	for _, an := range next.annotations {
		matrix := make([]contributions, len(an.actions))
		for i, cs := range an.matrix {
			matrix[i] = s.predecessorContributions(next, an.token, cs)
		}

		var existing *InadequacyAnnotation
		for _, a := range s.annotations {
			if a.matches(an.state, an.token, an.actions) {
				existing = a
				break
			}
		}
		if existing != nil {
			if existing.mergeMatrix(matrix) {
				changed = true
			}
			continue
		}
		s.annotations = append(s.annotations, &InadequacyAnnotation{
			state:   an.state,
			token:   an.token,
			actions: an.actions,
			matrix:  matrix,
		})
		changed = true
	}
	return changed
}

// predecessorContributions translates the contributions of the kernel items of next into those of
// the kernel items of s.
func (s *State) predecessorContributions(next *State, token *symbol.Symbol, cs contributions) contributions {
	if cs == nil {
		return nil
	}
	for _, k := range next.kernel.items {
		if !cs[k] || k.dot != 1 || k.LHS().IsAccept() {
			continue
		}
		if s.lhsContributionsOf(k.LHS(), token) == nil {
			return nil
		}
	}

	pcs := make(contributions, len(s.kernel.items))
	for _, kp := range s.kernel.items {
		contributed := false
		for _, k := range next.kernel.items {
			if !cs[k] {
				continue
			}
			if kp.PredecessorItemOf(k) {
				contributed = true
				break
			}
			if k.dot == 1 && !k.LHS().IsAccept() {
				if lc := s.lhsContributionsOf(k.LHS(), token); lc[kp] {
					contributed = true
					break
				}
			}
		}
		pcs[kp] = contributed
	}
	return pcs
}

// isCompatible reports whether merging the look-ahead sets into s keeps every inadequacy of the
// isocore group resolved the same way.
func (s *State) isCompatible(lookaheads map[Item]*symbolSet) bool {
	if !s.lookaheadsRecomputed {
		return true
	}
	cur := s.itemLookaheadSet()
	for _, an := range s.LALRIsocore().annotations {
		a, aok := an.dominantContribution(cur)
		b, bok := an.dominantContribution(lookaheads)
		if !aok || !bok {
			continue
		}
		if !sameActions(a, b) {
			return false
		}
	}
	return true
}

// lookaheadSetFilters returns, for each kernel item, the tokens that matter to some annotation of the
// isocore group.
func (s *State) lookaheadSetFilters() map[Item]*symbolSet {
	annotations := s.LALRIsocore().annotations
	filters := make(map[Item]*symbolSet, len(s.kernel.items))
	for _, k := range s.kernel.items {
		f := newSymbolSet()
		for _, an := range annotations {
			if an.contributed(k) {
				f.add(an.token)
			}
		}
		filters[k] = f
	}
	return filters
}

// propagateLookaheads computes the look-ahead sets s passes to the kernel items of next, restricted
// to the tokens the annotations of next care about.
func (s *State) propagateLookaheads(next *State) map[Item]*symbolSet {
	filters := next.lookaheadSetFilters()
	las := make(map[Item]*symbolSet, len(next.kernel.items))
	for _, nk := range next.kernel.items {
		var la *symbolSet
		if nk.dot > 1 {
			la = s.itemLookahead(Item{
				prod: nk.prod,
				dot:  nk.dot - 1,
			})
		} else {
			la = s.gotoFollowSet(nk.LHS())
		}
		las[nk] = la.intersect(filters[nk])
	}
	return las
}

// mergeLookaheads adds the look-ahead sets to the kernel items of s and reports whether any grew.
func (s *State) mergeLookaheads(lookaheads map[Item]*symbolSet) bool {
	if s.itemLookaheads == nil {
		s.itemLookaheads = map[Item]*symbolSet{}
	}
	grew := false
	for _, k := range s.kernel.items {
		cur, ok := s.itemLookaheads[k]
		if !ok {
			cur = newSymbolSet()
			s.itemLookaheads[k] = cur
		}
		if cur.merge(lookaheads[k]) {
			grew = true
		}
	}
	return grew
}

func (s *State) setLookaheads(lookaheads map[Item]*symbolSet) {
	s.itemLookaheads = make(map[Item]*symbolSet, len(s.kernel.items))
	for _, k := range s.kernel.items {
		la, ok := lookaheads[k]
		if !ok {
			la = newSymbolSet()
		}
		s.itemLookaheads[k] = la
	}
	s.lookaheadsRecomputed = true
}

// computeInadequacyAnnotations annotates every inadequate state and propagates the annotations to
// the predecessors until no annotation changes.
func (a *Automaton) computeInadequacyAnnotations() {
	stack := arraystack.New()
	queued := map[stateNum]struct{}{}
	for _, s := range a.states {
		s.annotateManifestation()
		if len(s.annotations) > 0 {
			stack.Push(s)
			queued[s.num] = struct{}{}
		}
	}

	for !stack.Empty() {
		v, _ := stack.Pop()
		s := v.(*State)
		delete(queued, s.num)
		for _, p := range s.Predecessors() {
			if !p.annotatePredecessor(s) {
				continue
			}
			if _, ok := queued[p.num]; ok {
				continue
			}
			queued[p.num] = struct{}{}
			stack.Push(p)
		}
	}

	if tracer().GetTraceLevel() == tracing.LevelDebug {
		for _, s := range a.states {
			for _, an := range s.annotations {
				tracer().Debugf("annotation of state %v: %v", s.num, an)
			}
		}
	}
}

type splitTask struct {
	state *State
	shift *Shift
	next  *State
}

// splitStates visits every transition, including those of states created on the way, and moves it to
// an isocore of its target that is compatible with the look-ahead sets the transition carries,
// creating a new isocore when none is.
func (a *Automaton) splitStates() error {
	for i := 0; i < len(a.states); i++ {
		s := a.states[i]
		trs := make([]Transition, len(s.Transitions()))
		copy(trs, s.Transitions())
		for _, tr := range trs {
			err := a.computeState(&splitTask{
				state: s,
				shift: tr.Shift,
				next:  tr.Next,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Automaton) computeState(task *splitTask) error {
	stack := arraystack.New()
	stack.Push(task)
	for !stack.Empty() {
		v, _ := stack.Pop()
		t := v.(*splitTask)

		lookaheads := t.state.propagateLookaheads(t.next)
		var compatible *State
		for _, iso := range t.next.IELRIsocores() {
			if iso.isCompatible(lookaheads) {
				compatible = iso
				break
			}
		}

		switch {
		case compatible == nil:
			if a.splitCount >= a.splitLimit {
				return fmt.Errorf("%w: %v states were added to %v LALR(1) states", ErrSplitLimitExceeded, a.splitCount, a.lalrStateCount)
			}
			ns, err := a.splitState(t.next)
			if err != nil {
				return err
			}
			ns.setLookaheads(lookaheads)
			t.state.updateTransition(t.shift, ns)
			tracer().Debugf("split state %v from state %v on the transition %v -> %v", ns.num, ns.lalrIsocore, t.state.num, t.shift.nextSym)
		case !compatible.lookaheadsRecomputed:
			compatible.setLookaheads(lookaheads)
			if compatible != t.next {
				t.state.updateTransition(t.shift, compatible)
			}
		default:
			if compatible != t.next {
				t.state.updateTransition(t.shift, compatible)
			}
			if !compatible.mergeLookaheads(lookaheads) {
				continue
			}
			trs := compatible.Transitions()
			for i := len(trs) - 1; i >= 0; i-- {
				stack.Push(&splitTask{
					state: compatible,
					shift: trs[i].Shift,
					next:  trs[i].Next,
				})
			}
		}
	}
	return nil
}

// splitState appends a new isocore of src. It starts with the transitions of the latest isocore of the
// group.
func (a *Automaton) splitState(src *State) (*State, error) {
	group := src.isocores
	last := a.states[group.members[len(group.members)-1]]
	ns, err := newState(a, stateNum(len(a.states)), src.accessingSym, src.kernel, src.closure)
	if err != nil {
		return nil, err
	}
	ns.lalrIsocore = src.lalrIsocore
	ns.isocores = group
	group.members = append(group.members, ns.num)
	a.states = append(a.states, ns)
	a.splitCount++

	for _, tr := range last.Transitions() {
		ns.updateTransition(ns.shiftOn(tr.Shift.nextSym), tr.Next)
	}
	return ns, nil
}

// rebindAnnotations points annotations whose manifestation state was removed at the isocore that
// took its place.
func rebindAnnotations(states []*State, promoted map[*State]*State) {
	if len(promoted) == 0 {
		return
	}
	for _, s := range states {
		for _, an := range s.annotations {
			if p, ok := promoted[an.state]; ok {
				an.state = p
			}
		}
	}
}

// removeUnreachableStates drops the states no transition path from the initial state reaches and
// renumbers the rest in their current order.
func (a *Automaton) removeUnreachableStates() {
	reached := make([]bool, len(a.states))
	reached[stateNumInitial] = true
	stack := arraystack.New()
	stack.Push(a.states[stateNumInitial])
	for !stack.Empty() {
		v, _ := stack.Pop()
		for _, tr := range v.(*State).Transitions() {
			if reached[tr.Next.num] {
				continue
			}
			reached[tr.Next.num] = true
			stack.Push(tr.Next)
		}
	}

	remap := map[stateNum]stateNum{}
	kept := make([]*State, 0, len(a.states))
	for _, s := range a.states {
		if !reached[s.num] {
			continue
		}
		remap[s.num] = stateNum(len(kept))
		kept = append(kept, s)
	}
	if len(kept) == len(a.states) {
		return
	}
	tracer().Infof("%v unreachable states were removed", len(a.states)-len(kept))

	groups := map[*isocoreGroup]struct{}{}
	for _, s := range kept {
		groups[s.isocores] = struct{}{}
	}
	promoted := map[*State]*State{}
	for g := range groups {
		var members []stateNum
		for _, n := range g.members {
			if reached[n] {
				members = append(members, n)
			}
		}
		// When the unsplit state is gone, the first remaining isocore takes over its role.
		if rep := g.members[0]; !reached[rep] {
			newRep := a.states[members[0]]
			newRep.annotations = a.states[rep].annotations
			for _, n := range members {
				a.states[n].lalrIsocore = newRep.num
			}
			promoted[a.states[rep]] = newRep
		}
		g.members = members
	}
	rebindAnnotations(kept, promoted)

	for _, s := range kept {
		var preds []stateNum
		for _, p := range s.predecessors {
			if n, ok := remap[p]; ok {
				preds = append(preds, n)
			}
		}
		s.predecessors = preds
		for id, n := range s.itemsToState {
			s.itemsToState[id] = remap[n]
		}
		s.lalrIsocore = remap[s.lalrIsocore]
	}
	for g := range groups {
		for i, n := range g.members {
			g.members[i] = remap[n]
		}
	}
	for _, s := range kept {
		s.num = remap[s.num]
	}
	a.states = kept
}
