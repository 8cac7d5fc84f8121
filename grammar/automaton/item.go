package automaton

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/symbol"
)

// Item is a production with a dot position. Items are values; two items are equal when they have
// the same production and the same dot, so they can be used as map keys.
//
// E → E + T
//
// Dot | Next Symbol | Item
// ----+-------------+------------
// 0   | E           | E →・E + T
// 1   | +           | E → E・+ T
// 2   | T           | E → E +・T
// 3   | nil         | E → E + T・
type Item struct {
	prod *grammar.Production
	dot  int
}

func newItem(prod *grammar.Production, dot int) (Item, error) {
	if prod == nil {
		return Item{}, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.Len() {
		return Item{}, fmt.Errorf("dot must be between 0 and %v", prod.Len())
	}
	return Item{
		prod: prod,
		dot:  dot,
	}, nil
}

func (i Item) Production() *grammar.Production {
	return i.prod
}

func (i Item) Dot() int {
	return i.dot
}

func (i Item) LHS() *symbol.Symbol {
	return i.prod.LHS()
}

func (i Item) EndOfRule() bool {
	return i.dot == i.prod.Len()
}

// NextSymbol returns the symbol right after the dot, or nil when the item is at the end of the rule.
func (i Item) NextSymbol() *symbol.Symbol {
	if i.EndOfRule() {
		return nil
	}
	return i.prod.RHS()[i.dot]
}

// SymbolsAfterTransition returns the symbols following the next symbol.
func (i Item) SymbolsAfterTransition() []*symbol.Symbol {
	if i.dot+1 >= i.prod.Len() {
		return nil
	}
	return i.prod.RHS()[i.dot+1:]
}

func (i Item) restIsNullable() bool {
	for _, sym := range i.SymbolsAfterTransition() {
		if !sym.IsNullable() {
			return false
		}
	}
	return true
}

// PredecessorItemOf reports whether advancing the dot of i by one yields other.
func (i Item) PredecessorItemOf(other Item) bool {
	return i.prod == other.prod && i.dot == other.dot-1
}

// Advance returns the item whose dot is moved over the next symbol.
func (i Item) Advance() Item {
	if i.EndOfRule() {
		panic(&InvariantError{
			StateID: -1,
			Item:    i.String(),
			Detail:  "cannot advance an item at the end of its rule",
		})
	}
	return Item{
		prod: i.prod,
		dot:  i.dot + 1,
	}
}

func (i Item) isStart() bool {
	return i.prod.IsStart()
}

func (i Item) isKernel() bool {
	return i.dot > 0 || i.isStart()
}

func (i Item) less(j Item) bool {
	if i.prod.Num() != j.prod.Num() {
		return i.prod.Num() < j.prod.Num()
	}
	return i.dot < j.dot
}

func (i Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", i.prod.LHS())
	for n, sym := range i.prod.RHS() {
		if n == i.dot {
			b.WriteString(" ・")
			fmt.Fprintf(&b, "%v", sym)
			continue
		}
		fmt.Fprintf(&b, " %v", sym)
	}
	if i.EndOfRule() {
		b.WriteString(" ・")
	}
	return b.String()
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

type kernel struct {
	id    kernelID
	items []Item
}

func newKernel(items []Item) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}

	// Remove duplicates from items.
	var sortedItems []Item
	{
		m := map[Item]struct{}{}
		for _, item := range items {
			if !item.isKernel() {
				return nil, fmt.Errorf("not a kernel item: %v", item)
			}
			if _, ok := m[item]; ok {
				continue
			}
			m[item] = struct{}{}
			sortedItems = append(sortedItems, item)
		}
		sort.Slice(sortedItems, func(i, j int) bool {
			return sortedItems[i].less(sortedItems[j])
		})
	}

	var id kernelID
	{
		b := make([]byte, 0, len(sortedItems)*16)
		for _, item := range sortedItems {
			b = binary.LittleEndian.AppendUint64(b, uint64(item.prod.Num()))
			b = binary.LittleEndian.AppendUint64(b, uint64(item.dot))
		}
		id = sha256.Sum256(b)
	}

	return &kernel{
		id:    id,
		items: sortedItems,
	}, nil
}
