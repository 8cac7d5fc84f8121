package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	gram := exprGrammar()
	g := newTestGenerators(t, gram)
	prod := g.prod("E", "E", "+", "E")

	_, err := newItem(nil, 0)
	assert.Error(t, err)
	_, err = newItem(prod, -1)
	assert.Error(t, err)
	_, err = newItem(prod, 4)
	assert.Error(t, err)

	for dot := 0; dot <= prod.Len(); dot++ {
		item, err := newItem(prod, dot)
		require.NoError(t, err)
		assert.Equal(t, dot, item.Dot())
		assert.Equal(t, prod, item.Production())
	}
}

func TestItem(t *testing.T) {
	gram := exprGrammar()
	g := newTestGenerators(t, gram)

	tests := []struct {
		item       Item
		nextSym    string
		endOfRule  bool
		kernel     bool
		text       string
		afterTrans []string
	}{
		{
			item:       g.item("E", 0, "E", "+", "E"),
			nextSym:    "E",
			kernel:     false,
			text:       "E → ・E + E",
			afterTrans: []string{"+", "E"},
		},
		{
			item:       g.item("E", 1, "E", "+", "E"),
			nextSym:    "+",
			kernel:     true,
			text:       "E → E ・+ E",
			afterTrans: []string{"E"},
		},
		{
			item:      g.item("E", 3, "E", "+", "E"),
			endOfRule: true,
			kernel:    true,
			text:      "E → E + E ・",
		},
		{
			item:       g.item("$accept", 0, "E", "$end"),
			nextSym:    "E",
			kernel:     true,
			text:       "$accept → ・E $end",
			afterTrans: []string{"$end"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if tt.nextSym == "" {
				assert.Nil(t, tt.item.NextSymbol())
			} else {
				assert.Equal(t, g.sym(tt.nextSym), tt.item.NextSymbol())
			}
			assert.Equal(t, tt.endOfRule, tt.item.EndOfRule())
			assert.Equal(t, tt.kernel, tt.item.isKernel())
			assert.Equal(t, tt.text, tt.item.String())
			assert.Equal(t, len(tt.afterTrans), len(tt.item.SymbolsAfterTransition()))
			for i, sym := range tt.item.SymbolsAfterTransition() {
				assert.Equal(t, tt.afterTrans[i], sym.Name())
			}
		})
	}
}

func TestItem_Advance(t *testing.T) {
	gram := exprGrammar()
	g := newTestGenerators(t, gram)

	item := g.item("E", 0, "E", "*", "E")
	next := item.Advance()
	assert.Equal(t, g.item("E", 1, "E", "*", "E"), next)
	assert.True(t, item.PredecessorItemOf(next))
	assert.False(t, next.PredecessorItemOf(item))
	assert.False(t, g.item("E", 0, "E", "+", "E").PredecessorItemOf(next))

	assert.Panics(t, func() {
		g.item("E", 1, "NUM").Advance()
	})
}

func TestNewKernel(t *testing.T) {
	gram := exprGrammar()
	g := newTestGenerators(t, gram)

	_, err := newKernel(nil)
	assert.Error(t, err)
	_, err = newKernel([]Item{g.item("E", 0, "NUM")})
	assert.Error(t, err, "a non-kernel item must be rejected")

	k1, err := newKernel([]Item{
		g.item("E", 1, "E", "*", "E"),
		g.item("E", 3, "E", "+", "E"),
		g.item("E", 1, "E", "+", "E"),
		g.item("E", 1, "E", "*", "E"),
	})
	require.NoError(t, err)
	assert.Equal(t, []Item{
		g.item("E", 1, "E", "+", "E"),
		g.item("E", 3, "E", "+", "E"),
		g.item("E", 1, "E", "*", "E"),
	}, k1.items)

	k2, err := newKernel([]Item{
		g.item("E", 1, "E", "+", "E"),
		g.item("E", 1, "E", "*", "E"),
		g.item("E", 3, "E", "+", "E"),
	})
	require.NoError(t, err)
	assert.Equal(t, k1.id, k2.id)

	k3, err := newKernel([]Item{
		g.item("E", 1, "E", "+", "E"),
		g.item("E", 1, "E", "*", "E"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, k1.id, k3.id)
}
