package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolSet(t *testing.T) {
	gram := exprGrammar()
	g := newTestGenerators(t, gram)
	eof := g.sym("$end")
	plus := g.sym("+")
	mul := g.sym("*")
	num := g.sym("NUM")

	s := newSymbolSet(num, plus)
	assert.Equal(t, []string{"+", "NUM"}, symbolNames(s.symbols()))
	assert.Equal(t, "[+, NUM]", s.String())
	assert.True(t, s.contains(plus))
	assert.False(t, s.contains(mul))

	assert.True(t, s.merge(newSymbolSet(eof, plus)))
	assert.False(t, s.merge(newSymbolSet(eof)))
	assert.False(t, s.merge(nil))
	assert.Equal(t, 3, s.size())

	c := s.clone()
	c.add(mul)
	assert.False(t, s.contains(mul))
	assert.Equal(t, []string{"$end", "+", "NUM"}, symbolNames(s.intersect(c).symbols()))
	assert.Equal(t, []string{"*"}, symbolNames(c.difference(s).symbols()))
	assert.True(t, s.equals(newSymbolSet(plus, eof, num)))
	assert.False(t, s.equals(c))

	var empty *symbolSet
	assert.True(t, empty.isEmpty())
	assert.False(t, empty.contains(plus))
	assert.Nil(t, empty.symbols())
	assert.True(t, empty.equals(newSymbolSet()))
	assert.True(t, empty.clone().isEmpty())
	assert.True(t, s.intersect(empty).isEmpty())
	assert.Equal(t, 3, s.difference(empty).size())
}
