// Package compressor packs sparse row-major tables such as parsing tables.
package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// Table is a dense row-major table.
type Table struct {
	entries []int
	rows    int
	cols    int
}

func NewTable(entries []int, cols int) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("a table needs at least one entry")
	}
	if cols <= 0 {
		return nil, fmt.Errorf("a table needs at least one column; got %v", cols)
	}
	if len(entries)%cols != 0 {
		return nil, fmt.Errorf("%v entries cannot be split into rows of %v columns", len(entries), cols)
	}
	return &Table{
		entries: entries,
		rows:    len(entries) / cols,
		cols:    cols,
	}, nil
}

func (t *Table) row(r int) []int {
	return t.entries[r*t.cols : (r+1)*t.cols]
}

type Compressor interface {
	Compress(orig *Table) error
	Lookup(row, col int) (int, error)
	Size() (rows int, cols int)
	EntryCount() int
}

var (
	_ Compressor = &UniqueRowsTable{}
	_ Compressor = &RowDisplacementTable{}
)

func checkRange(row, col, rows, cols int) error {
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return fmt.Errorf("[%v, %v] is out of a %vx%v table", row, col, rows, cols)
	}
	return nil
}

// UniqueRowsTable stores each distinct row once. Parsing tables have many identical rows, such as
// the rows of states that only reduce.
type UniqueRowsTable struct {
	UniqueRows []int
	RowIndex   []int
	Rows       int
	Cols       int
}

func NewUniqueRowsTable() *UniqueRowsTable {
	return &UniqueRowsTable{}
}

func (t *UniqueRowsTable) Compress(orig *Table) error {
	var unique []int
	index := make([]int, orig.rows)
	seen := map[string]int{}
	buf := make([]byte, binary.MaxVarintLen64)
	for r := 0; r < orig.rows; r++ {
		row := orig.row(r)
		key := make([]byte, 0, len(row)*2)
		for _, v := range row {
			n := binary.PutVarint(buf, int64(v))
			key = append(key, buf[:n]...)
		}
		i, ok := seen[string(key)]
		if !ok {
			i = len(seen)
			seen[string(key)] = i
			unique = append(unique, row...)
		}
		index[r] = i
	}

	t.UniqueRows = unique
	t.RowIndex = index
	t.Rows = orig.rows
	t.Cols = orig.cols
	return nil
}

func (t *UniqueRowsTable) Lookup(row, col int) (int, error) {
	if err := checkRange(row, col, t.Rows, t.Cols); err != nil {
		return 0, err
	}
	return t.UniqueRows[t.RowIndex[row]*t.Cols+col], nil
}

func (t *UniqueRowsTable) Size() (int, int) {
	return t.Rows, t.Cols
}

func (t *UniqueRowsTable) EntryCount() int {
	return len(t.UniqueRows) + len(t.RowIndex)
}

// UniqueRowCount returns the number of distinct rows.
func (t *UniqueRowsTable) UniqueRowCount() int {
	if t.Cols == 0 {
		return 0
	}
	return len(t.UniqueRows) / t.Cols
}

// noRow marks a slot of a RowDisplacementTable no row owns.
const noRow = -1

// RowDisplacementTable overlays the rows of a sparse table in one array. Each row is shifted by its
// displacement so that its non-empty entries land on free slots; Owner records the row a slot belongs to.
type RowDisplacementTable struct {
	Rows         int
	Cols         int
	EmptyValue   int
	Entries      []int
	Owner        []int
	Displacement []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (t *RowDisplacementTable) Compress(orig *Table) error {
	type sparseRow struct {
		num  int
		cols []int
	}
	rows := make([]sparseRow, orig.rows)
	for r := 0; r < orig.rows; r++ {
		rows[r].num = r
		for c, v := range orig.row(r) {
			if v != t.EmptyValue {
				rows[r].cols = append(rows[r].cols, c)
			}
		}
	}
	// Placing the densest rows first leaves the sparse ones to fill the gaps.
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].cols) > len(rows[j].cols)
	})

	entries := make([]int, len(orig.entries))
	owner := make([]int, len(orig.entries))
	for i := range entries {
		entries[i] = t.EmptyValue
		owner[i] = noRow
	}
	disp := make([]int, orig.rows)
	end := orig.cols
	for _, row := range rows {
		if len(row.cols) == 0 {
			continue
		}
		d := 0
		for !fits(owner, d, row.cols) {
			d++
		}
		disp[row.num] = d
		for _, c := range row.cols {
			entries[d+c] = orig.entries[row.num*orig.cols+c]
			owner[d+c] = row.num
		}
		if d+orig.cols > end {
			end = d + orig.cols
		}
	}

	t.Rows = orig.rows
	t.Cols = orig.cols
	t.Entries = entries[:end]
	t.Owner = owner[:end]
	t.Displacement = disp
	return nil
}

func fits(owner []int, d int, cols []int) bool {
	for _, c := range cols {
		if owner[d+c] != noRow {
			return false
		}
	}
	return true
}

func (t *RowDisplacementTable) Lookup(row, col int) (int, error) {
	if err := checkRange(row, col, t.Rows, t.Cols); err != nil {
		return t.EmptyValue, err
	}
	i := t.Displacement[row] + col
	if t.Owner[i] != row {
		return t.EmptyValue, nil
	}
	return t.Entries[i], nil
}

func (t *RowDisplacementTable) Size() (int, int) {
	return t.Rows, t.Cols
}

func (t *RowDisplacementTable) EntryCount() int {
	return len(t.Entries) + len(t.Owner) + len(t.Displacement)
}
