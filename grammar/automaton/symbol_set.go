package automaton

import (
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/nihei9/ielr/grammar/symbol"
)

func symbolComparator(a, b interface{}) int {
	return utils.IntComparator(a.(*symbol.Symbol).Num().Int(), b.(*symbol.Symbol).Num().Int())
}

// symbolSet is a set of terminal symbols ordered by symbol number. A nil set behaves as an empty one
// for all read operations.
type symbolSet struct {
	set *treeset.Set
}

func newSymbolSet(syms ...*symbol.Symbol) *symbolSet {
	s := &symbolSet{
		set: treeset.NewWith(symbolComparator),
	}
	for _, sym := range syms {
		s.set.Add(sym)
	}
	return s
}

func (s *symbolSet) add(syms ...*symbol.Symbol) {
	for _, sym := range syms {
		s.set.Add(sym)
	}
}

func (s *symbolSet) contains(sym *symbol.Symbol) bool {
	if s == nil {
		return false
	}
	return s.set.Contains(sym)
}

func (s *symbolSet) size() int {
	if s == nil {
		return 0
	}
	return s.set.Size()
}

func (s *symbolSet) isEmpty() bool {
	return s.size() == 0
}

// merge adds all symbols of t to s and reports whether s grew.
func (s *symbolSet) merge(t *symbolSet) bool {
	if t == nil {
		return false
	}
	before := s.set.Size()
	t.set.Each(func(_ int, v interface{}) {
		s.set.Add(v)
	})
	return s.set.Size() > before
}

func (s *symbolSet) clone() *symbolSet {
	c := newSymbolSet()
	c.merge(s)
	return c
}

func (s *symbolSet) intersect(t *symbolSet) *symbolSet {
	r := newSymbolSet()
	if s == nil || t == nil {
		return r
	}
	s.set.Each(func(_ int, v interface{}) {
		if t.set.Contains(v) {
			r.set.Add(v)
		}
	})
	return r
}

func (s *symbolSet) difference(t *symbolSet) *symbolSet {
	r := newSymbolSet()
	if s == nil {
		return r
	}
	s.set.Each(func(_ int, v interface{}) {
		if !t.contains(v.(*symbol.Symbol)) {
			r.set.Add(v)
		}
	})
	return r
}

func (s *symbolSet) equals(t *symbolSet) bool {
	if s.size() != t.size() {
		return false
	}
	if s == nil {
		return true
	}
	equal := true
	s.set.Each(func(_ int, v interface{}) {
		if !t.set.Contains(v) {
			equal = false
		}
	})
	return equal
}

// symbols returns the members sorted by symbol number.
func (s *symbolSet) symbols() []*symbol.Symbol {
	if s == nil {
		return nil
	}
	syms := make([]*symbol.Symbol, 0, s.set.Size())
	for _, v := range s.set.Values() {
		syms = append(syms, v.(*symbol.Symbol))
	}
	return syms
}

func (s *symbolSet) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, sym := range s.symbols() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sym.Name())
	}
	b.WriteString("]")
	return b.String()
}
