package automaton

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nihei9/ielr/grammar/symbol"
)

// InvariantError reports a state graph that violates the rules the builder relies on. It always
// indicates a defect of the builder, never of the grammar.
type InvariantError struct {
	// StateID is -1 when the violation is not tied to a state.
	StateID int
	Item    string
	Detail  string
}

func (e *InvariantError) Error() string {
	var b strings.Builder
	b.WriteString("internal consistency error")
	if e.StateID >= 0 {
		fmt.Fprintf(&b, ": state %v", e.StateID)
	}
	if e.Item != "" {
		fmt.Fprintf(&b, ": item %v", e.Item)
	}
	fmt.Fprintf(&b, ": %v", e.Detail)
	return b.String()
}

func invariantViolation(s *State, format string, a ...interface{}) {
	id := -1
	if s != nil {
		id = s.num.Int()
	}
	panic(&InvariantError{
		StateID: id,
		Detail:  fmt.Sprintf(format, a...),
	})
}

// PrecedenceTypeError reports a precedence whose associativity is none of the known kinds.
type PrecedenceTypeError struct {
	Symbol string
	Assoc  symbol.AssocType
}

func (e *PrecedenceTypeError) Error() string {
	return fmt.Sprintf("unknown precedence type %q of %v", e.Assoc, e.Symbol)
}

var ErrSplitLimitExceeded = errors.New("IELR(1) state splitting exceeded the limit")

// recoverBuildError converts a panic raised by the lazily evaluated relations into an error. Panics
// of other types are not ours and are re-raised.
func recoverBuildError(v interface{}) error {
	switch e := v.(type) {
	case *InvariantError:
		return e
	case *PrecedenceTypeError:
		return e
	}
	panic(v)
}
