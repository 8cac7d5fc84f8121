package automaton

import (
	"github.com/nihei9/ielr/compressor"
	"github.com/nihei9/ielr/grammar"
	"github.com/nihei9/ielr/grammar/symbol"
)

// CompressedParsingTable answers the same queries as a ParsingTable from packed tables. Identical rows
// are shared first, then the distinct rows are overlaid by row displacement.
type CompressedParsingTable struct {
	actionRows    *compressor.UniqueRowsTable
	actionTable   *compressor.RowDisplacementTable
	goToRows      *compressor.UniqueRowsTable
	goToTable     *compressor.RowDisplacementTable
	terminalCount int
	orig          *ParsingTable
}

func compressTable(entries []int, cols int, empty int) (*compressor.UniqueRowsTable, *compressor.RowDisplacementTable, error) {
	orig, err := compressor.NewTable(entries, cols)
	if err != nil {
		return nil, nil, err
	}
	rows := compressor.NewUniqueRowsTable()
	err = rows.Compress(orig)
	if err != nil {
		return nil, nil, err
	}
	unique, err := compressor.NewTable(rows.UniqueRows, cols)
	if err != nil {
		return nil, nil, err
	}
	tab := compressor.NewRowDisplacementTable(empty)
	err = tab.Compress(unique)
	if err != nil {
		return nil, nil, err
	}
	return rows, tab, nil
}

// Compress packs the action and goto tables.
func (t *ParsingTable) Compress() (*CompressedParsingTable, error) {
	action := make([]int, len(t.actionTable))
	for i, e := range t.actionTable {
		action[i] = int(e)
	}
	actionRows, actionTab, err := compressTable(action, t.terminalCount, int(actionEntryEmpty))
	if err != nil {
		return nil, err
	}

	goTo := make([]int, len(t.goToTable))
	for i, e := range t.goToTable {
		goTo[i] = int(e)
	}
	goToRows, goToTab, err := compressTable(goTo, t.nonTerminalCount, int(goToEntryEmpty))
	if err != nil {
		return nil, err
	}

	return &CompressedParsingTable{
		actionRows:    actionRows,
		actionTable:   actionTab,
		goToRows:      goToRows,
		goToTable:     goToTab,
		terminalCount: t.terminalCount,
		orig:          t,
	}, nil
}

func lookup(rows *compressor.UniqueRowsTable, tab *compressor.RowDisplacementTable, row, col int) int {
	v, err := tab.Lookup(rows.RowIndex[row], col)
	if err != nil {
		panic(err)
	}
	return v
}

func (t *CompressedParsingTable) Action(state int, term *symbol.Symbol) (ActionType, int, grammar.ProductionNum) {
	e := actionEntry(lookup(t.actionRows, t.actionTable, state, term.Num().Int()))
	if e.isEmpty() {
		e = t.orig.defaultReductions[state]
	}
	ty, next, prod := e.describe()
	return ty, next.Int(), prod
}

func (t *CompressedParsingTable) GoTo(state int, nonTerm *symbol.Symbol) (int, bool) {
	e := goToEntry(lookup(t.goToRows, t.goToTable, state, nonTerm.Num().Int()-t.terminalCount))
	if e == goToEntryEmpty {
		return 0, false
	}
	return int(e), true
}

func (t *CompressedParsingTable) DefaultReduction(state int) (grammar.ProductionNum, bool) {
	return t.orig.DefaultReduction(state)
}

func (t *CompressedParsingTable) IsErrorTrapper(state int) bool {
	return t.orig.IsErrorTrapper(state)
}

func (t *CompressedParsingTable) StateCount() int {
	return t.orig.StateCount()
}

// EntryCount returns the number of integers the packed action and goto tables hold.
func (t *CompressedParsingTable) EntryCount() int {
	return len(t.actionRows.RowIndex) + t.actionTable.EntryCount() +
		len(t.goToRows.RowIndex) + t.goToTable.EntryCount()
}

// EntryCount returns the number of entries of the dense action and goto tables.
func (t *ParsingTable) EntryCount() int {
	return len(t.actionTable) + len(t.goToTable)
}
