package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/ielr/grammar/symbol"
)

// contributions tells which kernel items of a state may let a look-ahead token reach an action. A nil
// value means the action is performed on the token regardless of the kernel look-ahead sets.
type contributions map[Item]bool

func (c contributions) clone() contributions {
	if c == nil {
		return nil
	}
	d := make(contributions, len(c))
	for k, v := range c {
		d[k] = v
	}
	return d
}

// InadequacyAnnotation records that the state it is attached to can influence which action the
// origin state takes on a token. The contribution matrix holds one entry per action, keyed by the
// kernel items of the annotated state.
type InadequacyAnnotation struct {
	state   *State
	token   *symbol.Symbol
	actions []Action
	matrix  []contributions
}

// State returns the state where the conflict manifests.
func (a *InadequacyAnnotation) State() *State {
	return a.state
}

func (a *InadequacyAnnotation) Token() *symbol.Symbol {
	return a.token
}

func (a *InadequacyAnnotation) Actions() []Action {
	return a.actions
}

func (a *InadequacyAnnotation) matches(state *State, token *symbol.Symbol, actions []Action) bool {
	return a.state == state && a.token == token && sameActions(a.actions, actions)
}

// contributed reports whether the kernel item contributes to any action conditionally.
func (a *InadequacyAnnotation) contributed(item Item) bool {
	for _, cs := range a.matrix {
		if cs != nil && cs[item] {
			return true
		}
	}
	return false
}

// mergeMatrix ORs other into the matrix. An unconditional entry absorbs the other side. It reports
// whether the matrix changed.
func (a *InadequacyAnnotation) mergeMatrix(other []contributions) bool {
	changed := false
	for i, cs := range a.matrix {
		if cs == nil {
			continue
		}
		o := other[i]
		if o == nil {
			a.matrix[i] = nil
			changed = true
			continue
		}
		var merged contributions
		for k, v := range o {
			if !v || cs[k] {
				continue
			}
			if merged == nil {
				merged = cs.clone()
			}
			merged[k] = true
		}
		if merged != nil {
			a.matrix[i] = merged
			changed = true
		}
	}
	return changed
}

// dominantContribution returns the actions the origin state would keep on the token if the kernel
// items of the annotated state had the given look-ahead sets. ok is false when no action is
// reachable with these sets, so the annotation cannot tell such sets apart.
func (a *InadequacyAnnotation) dominantContribution(lookaheads map[Item]*symbolSet) (actions []Action, ok bool) {
	for i, act := range a.actions {
		cs := a.matrix[i]
		if cs == nil {
			actions = append(actions, act)
			continue
		}
		for k, contributed := range cs {
			if contributed && lookaheads[k].contains(a.token) {
				actions = append(actions, act)
				break
			}
		}
	}
	if len(actions) == 0 {
		return nil, false
	}
	return resolveActions(a.token, actions), true
}

func sameActions(as, bs []Action) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func (a *InadequacyAnnotation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "state %v, token %v, actions [", a.state.num, a.token)
	for i, act := range a.actions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(act.String())
	}
	b.WriteString("], contributions [")
	for i, cs := range a.matrix {
		if i > 0 {
			b.WriteString(", ")
		}
		if cs == nil {
			b.WriteString("always")
			continue
		}
		var items []string
		for k, v := range cs {
			if v {
				items = append(items, k.String())
			}
		}
		sort.Strings(items)
		fmt.Fprintf(&b, "{%v}", strings.Join(items, "; "))
	}
	b.WriteString("]")
	return b.String()
}
