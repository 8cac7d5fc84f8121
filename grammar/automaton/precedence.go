package automaton

import (
	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/symbol"
)

// Resolution tells which action survives a shift/reduce conflict resolved by precedence.
type Resolution string

const (
	ResolutionShift  = Resolution("shift")
	ResolutionReduce = Resolution("reduce")

	// ResolutionError removes both actions so that the token is a syntax error. It comes from a
	// non-associative precedence.
	ResolutionError = Resolution("error")
)

func (r Resolution) String() string {
	return string(r)
}

// resolveShiftReduce resolves a conflict between shifting sym and reducing by rule. ok is false when
// the conflict cannot be resolved: either side has no precedence, or both have the same level
// declared without associativity.
func resolveShiftReduce(sym *symbol.Symbol, rule *grammar.Production) (which Resolution, samePrec bool, ok bool) {
	shiftPrec := sym.Precedence()
	reducePrec := rule.Precedence()
	if shiftPrec == nil || reducePrec == nil {
		return "", false, false
	}

	switch {
	case shiftPrec.Level < reducePrec.Level:
		return ResolutionReduce, false, true
	case shiftPrec.Level > reducePrec.Level:
		return ResolutionShift, false, true
	}

	switch reducePrec.Assoc {
	case symbol.AssocTypePrecedence:
		return "", true, false
	case symbol.AssocTypeRight:
		return ResolutionShift, true, true
	case symbol.AssocTypeLeft:
		return ResolutionReduce, true, true
	case symbol.AssocTypeNonAssoc:
		return ResolutionError, true, true
	}
	panic(&PrecedenceTypeError{
		Symbol: sym.Name(),
		Assoc:  reducePrec.Assoc,
	})
}

// resolveActions applies precedence resolution to every shift/reduce pair among the actions on
// token and returns the surviving actions in their original order. The result is empty when a
// non-associative precedence removes all of them.
func resolveActions(token *symbol.Symbol, actions []Action) []Action {
	var shifts []*Shift
	var reduces []*Reduce
	for _, act := range actions {
		switch act := act.(type) {
		case *Shift:
			shifts = append(shifts, act)
		case *Reduce:
			reduces = append(reduces, act)
		}
	}

	removed := map[Action]struct{}{}
	for _, sh := range shifts {
		for _, r := range reduces {
			which, _, ok := resolveShiftReduce(token, r.Rule())
			if !ok {
				continue
			}
			switch which {
			case ResolutionShift:
				removed[r] = struct{}{}
			case ResolutionReduce:
				removed[sh] = struct{}{}
			case ResolutionError:
				removed[sh] = struct{}{}
				removed[r] = struct{}{}
			}
		}
	}

	survivors := []Action{}
	for _, act := range actions {
		if _, ok := removed[act]; ok {
			continue
		}
		survivors = append(survivors, act)
	}
	return survivors
}
