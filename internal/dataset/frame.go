package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the value type of a column.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindFloat
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Column is a named, typed vector of nullable cells. Exactly one backing
// slice is populated, selected by kind.
type Column struct {
	name   string
	kind   Kind
	strs   []NullString
	bools  []Bool
	floats []NullFloat64
}

// NewStringColumn creates a string column over values.
func NewStringColumn(name string, values []NullString) *Column {
	return &Column{name: name, kind: KindString, strs: values}
}

// NewBoolColumn creates a three-valued bool column over values.
func NewBoolColumn(name string, values []Bool) *Column {
	return &Column{name: name, kind: KindBool, bools: values}
}

// NewFloatColumn creates a float column over values.
func NewFloatColumn(name string, values []NullFloat64) *Column {
	return &Column{name: name, kind: KindFloat, floats: values}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column value type.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int {
	switch c.kind {
	case KindString:
		return len(c.strs)
	case KindBool:
		return len(c.bools)
	default:
		return len(c.floats)
	}
}

// StringAt returns the cell at row i; the column must be a string column.
func (c *Column) StringAt(i int) NullString {
	c.mustKind(KindString)
	return c.strs[i]
}

// BoolAt returns the cell at row i; the column must be a bool column.
func (c *Column) BoolAt(i int) Bool {
	c.mustKind(KindBool)
	return c.bools[i]
}

// FloatAt returns the cell at row i; the column must be a float column.
func (c *Column) FloatAt(i int) NullFloat64 {
	c.mustKind(KindFloat)
	return c.floats[i]
}

func (c *Column) mustKind(k Kind) {
	if c.kind != k {
		panic(fmt.Sprintf("dataset: column %q is %s, not %s", c.name, c.kind, k))
	}
}

// take returns a new column holding the cells at the given row indices,
// in order.
func (c *Column) take(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind}
	switch c.kind {
	case KindString:
		out.strs = make([]NullString, len(rows))
		for j, i := range rows {
			out.strs[j] = c.strs[i]
		}
	case KindBool:
		out.bools = make([]Bool, len(rows))
		for j, i := range rows {
			out.bools[j] = c.bools[i]
		}
	case KindFloat:
		out.floats = make([]NullFloat64, len(rows))
		for j, i := range rows {
			out.floats[j] = c.floats[i]
		}
	}
	return out
}

// appendCellKey writes a collision-free encoding of the cell at row i to b.
// Strings are length-prefixed, floats use their exact binary representation,
// and nulls of every kind share one marker so that row identity matches
// cell-by-cell equality.
func (c *Column) appendCellKey(b *strings.Builder, i int) {
	switch c.kind {
	case KindString:
		v := c.strs[i]
		if !v.Valid {
			b.WriteString("-;")
			return
		}
		b.WriteByte('s')
		b.WriteString(strconv.Itoa(len(v.String)))
		b.WriteByte(';')
		b.WriteString(v.String)
	case KindBool:
		b.WriteByte('b')
		b.WriteByte('0' + byte(c.bools[i]))
		b.WriteByte(';')
	case KindFloat:
		v := c.floats[i]
		if !v.Valid {
			b.WriteString("-;")
			return
		}
		b.WriteByte('f')
		b.WriteString(strconv.FormatFloat(v.Float64, 'b', -1, 64))
		b.WriteByte(';')
	}
}

// Frame is an ordered set of equal-length named columns. Column names are
// unique; all addressing is by name.
type Frame struct {
	cols   []*Column
	byName map[string]int
}

// NewFrame builds a frame from columns, which must have unique names and
// equal lengths.
func NewFrame(cols ...*Column) (*Frame, error) {
	f := &Frame{byName: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.AppendColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// FromRecords builds an all-string frame from a header row and data rows.
// Empty cells become null. Rows shorter than the header are padded with
// nulls (trailing cells missing from spreadsheet rows); rows longer than
// the header are an error, as are duplicate or empty header names.
func FromRecords(headers []string, rows [][]string) (*Frame, error) {
	cols := make([][]NullString, len(headers))
	for i := range cols {
		cols[i] = make([]NullString, len(rows))
	}
	for r, row := range rows {
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", r+1, len(row), len(headers))
		}
		for c, cell := range row {
			if cell != "" {
				cols[c][r] = StringOf(cell)
			}
		}
	}

	f := &Frame{byName: make(map[string]int, len(headers))}
	for i, name := range headers {
		if name == "" {
			return nil, fmt.Errorf("header %d is empty", i+1)
		}
		if err := f.AppendColumn(NewStringColumn(name, cols[i])); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int { return len(f.cols) }

// ColumnNames returns the column names in frame order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.name
	}
	return names
}

// Column returns the named column, if present.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// HasColumn reports whether the named column is present.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// AppendColumn adds c as the last column. The name must be new and the
// length must match the existing rows (any length is accepted into an
// empty frame).
func (f *Frame) AppendColumn(c *Column) error {
	if _, ok := f.byName[c.name]; ok {
		return fmt.Errorf("duplicate column %q", c.name)
	}
	if len(f.cols) > 0 && c.Len() != f.NumRows() {
		return fmt.Errorf("column %q has %d rows, frame has %d", c.name, c.Len(), f.NumRows())
	}
	f.byName[c.name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// DropColumns removes the named columns in place. Names not present are
// ignored.
func (f *Frame) DropColumns(names ...string) {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := f.cols[:0]
	for _, c := range f.cols {
		if _, ok := drop[c.name]; !ok {
			kept = append(kept, c)
		}
	}
	f.cols = kept
	f.reindex()
}

// RenameColumn renames old to new if old is present; a missing old column
// is a no-op. Renaming onto an existing column is an error.
func (f *Frame) RenameColumn(old, new string) error {
	i, ok := f.byName[old]
	if !ok || old == new {
		return nil
	}
	if _, taken := f.byName[new]; taken {
		return fmt.Errorf("cannot rename %q to %q: column exists", old, new)
	}
	f.cols[i].name = new
	f.reindex()
	return nil
}

// TransformHeaders rewrites every column name through fn. Two names mapping
// to the same result is an error.
func (f *Frame) TransformHeaders(fn func(string) string) error {
	seen := make(map[string]string, len(f.cols))
	for _, c := range f.cols {
		next := fn(c.name)
		if prev, ok := seen[next]; ok {
			return fmt.Errorf("headers %q and %q both normalize to %q", prev, c.name, next)
		}
		seen[next] = c.name
	}
	for _, c := range f.cols {
		c.name = fn(c.name)
	}
	f.reindex()
	return nil
}

// CoerceBool replaces the named string column with a bool column computed
// cell-by-cell by parse. Reports whether the column was present.
func (f *Frame) CoerceBool(name string, parse func(NullString) Bool) bool {
	i, ok := f.byName[name]
	if !ok {
		return false
	}
	c := f.cols[i]
	c.mustKind(KindString)
	vals := make([]Bool, len(c.strs))
	for r, v := range c.strs {
		vals[r] = parse(v)
	}
	f.cols[i] = NewBoolColumn(name, vals)
	return true
}

// CoerceFloat replaces the named string column with a float column computed
// cell-by-cell by parse. The first parse failure aborts the coercion with
// the offending row in the error. Reports whether the column was present.
func (f *Frame) CoerceFloat(name string, parse func(NullString) (NullFloat64, error)) (bool, error) {
	i, ok := f.byName[name]
	if !ok {
		return false, nil
	}
	c := f.cols[i]
	c.mustKind(KindString)
	vals := make([]NullFloat64, len(c.strs))
	for r, v := range c.strs {
		parsed, err := parse(v)
		if err != nil {
			return true, fmt.Errorf("column %q row %d: %w", name, r+1, err)
		}
		vals[r] = parsed
	}
	f.cols[i] = NewFloatColumn(name, vals)
	return true, nil
}

// DropDuplicates removes rows that are cell-for-cell identical to an
// earlier row, keeping the first occurrence and preserving order.
func (f *Frame) DropDuplicates() {
	n := f.NumRows()
	if n == 0 {
		return
	}
	seen := make(map[string]struct{}, n)
	keep := make([]int, 0, n)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.Reset()
		for _, c := range f.cols {
			c.appendCellKey(&b, i)
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == n {
		return
	}
	for i, c := range f.cols {
		f.cols[i] = c.take(keep)
	}
}

func (f *Frame) reindex() {
	f.byName = make(map[string]int, len(f.cols))
	for i, c := range f.cols {
		f.byName[c.name] = i
	}
}
