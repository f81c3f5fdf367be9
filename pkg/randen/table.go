package randen

import (
	"fmt"
	"strconv"
	"time"
)

// TimeLayout is used when timestamps are rendered as text.
const TimeLayout = "2006-01-02 15:04:05.999999999"

// Column is one named, typed column of a Table.
// Only the slice matching Type is populated; the others stay nil.
type Column struct {
	Name string
	Type ColumnType

	Ints    []int64     // Integer
	Floats  []float64   // Float
	Bools   []bool      // Boolean
	Chars   []byte      // Character
	Strings []string    // String
	Times   []time.Time // Timestamp
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Type {
	case Integer:
		return len(c.Ints)
	case Float:
		return len(c.Floats)
	case Boolean:
		return len(c.Bools)
	case Character:
		return len(c.Chars)
	case String:
		return len(c.Strings)
	case Timestamp:
		return len(c.Times)
	default:
		return 0
	}
}

// Value returns the i-th value as int64, float64, bool, string or time.Time.
// Characters are returned as one-letter strings.
func (c *Column) Value(i int) any {
	switch c.Type {
	case Integer:
		return c.Ints[i]
	case Float:
		return c.Floats[i]
	case Boolean:
		return c.Bools[i]
	case Character:
		return string(c.Chars[i])
	case String:
		return c.Strings[i]
	case Timestamp:
		return c.Times[i]
	default:
		return nil
	}
}

// Format renders the i-th value as text.
func (c *Column) Format(i int) string {
	switch c.Type {
	case Integer:
		return strconv.FormatInt(c.Ints[i], 10)
	case Float:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	case Boolean:
		return strconv.FormatBool(c.Bools[i])
	case Character:
		return string(c.Chars[i])
	case String:
		return c.Strings[i]
	case Timestamp:
		return c.Times[i].Format(TimeLayout)
	default:
		return ""
	}
}

// Table is an ordered set of named columns that all hold the same number of rows.
type Table struct {
	nrows   int
	columns []Column
}

// NewTable assembles columns into a table. Every column must hold exactly nrows values.
func NewTable(nrows int, columns []Column) (*Table, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}
	for i := range columns {
		if !columns[i].Type.Valid() {
			return nil, &UnsupportedTypeError{Tag: columns[i].Type.String()}
		}
		if n := columns[i].Len(); n != nrows {
			return nil, fmt.Errorf("column %q has %d rows, table has %d", columns[i].Name, n, nrows)
		}
	}
	return &Table{nrows: nrows, columns: columns}, nil
}

func (t *Table) NumRows() int { return t.nrows }

func (t *Table) NumCols() int { return len(t.columns) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.nrows, len(t.columns) }

// Columns returns the columns in order. The slice is shared with the table.
func (t *Table) Columns() []Column { return t.columns }

// Column returns the i-th column.
func (t *Table) Column(i int) *Column { return &t.columns[i] }

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i := range t.columns {
		names[i] = t.columns[i].Name
	}
	return names
}

// ColumnTypes returns the column types in order.
func (t *Table) ColumnTypes() []ColumnType {
	types := make([]ColumnType, len(t.columns))
	for i := range t.columns {
		types[i] = t.columns[i].Type
	}
	return types
}

// Lookup returns the first column called name.
func (t *Table) Lookup(name string) (*Column, bool) {
	for i := range t.columns {
		if t.columns[i].Name == name {
			return &t.columns[i], true
		}
	}
	return nil, false
}

// Row returns the values of row i, one per column.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for j := range t.columns {
		row[j] = t.columns[j].Value(i)
	}
	return row
}
