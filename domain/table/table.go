package table

import (
	"fmt"
	"strings"
)

// Column is a named, ordered sequence of cell values
type Column struct {
	Name   string
	Values []Value
}

// Table is an in-memory tabular dataset: ordered columns of equal length.
// A Table is read-only once constructed; profiling runs never mutate it.
type Table struct {
	columns []Column
	rows    int
}

// New validates column shape and constructs a Table. Columns of mismatched
// length are a structural precondition violation, not recoverable dirt.
func New(columns []Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0].Values)
	}

	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name: %s", col.Name)
		}
		seen[col.Name] = true
		if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
	}

	return &Table{columns: columns, rows: rows}, nil
}

// Rows returns the row count
func (t *Table) Rows() int {
	return t.rows
}

// NumColumns returns the column count
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Columns returns the columns in table order
func (t *Table) Columns() []Column {
	return t.columns
}

// ColumnNames returns the names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column, if present
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// Row returns one row as a name -> value map, for previews
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.columns))
	for _, col := range t.columns {
		row[col.Name] = exportValue(col.Values[i])
	}
	return row
}

// DuplicateRows counts rows that are exact duplicates of an earlier row
func (t *Table) DuplicateRows() int {
	if t.rows == 0 || len(t.columns) == 0 {
		return 0
	}
	seen := make(map[string]bool, t.rows)
	dups := 0
	var sb strings.Builder
	for i := 0; i < t.rows; i++ {
		sb.Reset()
		for _, col := range t.columns {
			sb.WriteString(col.Values[i].Key())
			sb.WriteByte('\x1f')
		}
		key := sb.String()
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	return dups
}

// CompleteRows counts rows with no missing values
func (t *Table) CompleteRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	complete := 0
	for i := 0; i < t.rows; i++ {
		ok := true
		for _, col := range t.columns {
			if col.Values[i].IsMissing {
				ok = false
				break
			}
		}
		if ok {
			complete++
		}
	}
	return complete
}

// EstimatedBytes approximates the in-memory size of the table data
func (t *Table) EstimatedBytes() int64 {
	var total int64
	for _, col := range t.columns {
		total += int64(len(col.Name))
		for _, v := range col.Values {
			switch v.Kind {
			case KindString:
				total += int64(len(*v.StringVal))
			case KindNumeric, KindTemporal:
				total += 8
			case KindBoolean:
				total++
			}
		}
	}
	return total
}

// NonNull returns the column's non-missing values in order
func (c Column) NonNull() []Value {
	out := make([]Value, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsMissing {
			out = append(out, v)
		}
	}
	return out
}

// NullCount counts missing values
func (c Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing {
			n++
		}
	}
	return n
}

// DistinctCount counts distinct non-missing values
func (c Column) DistinctCount() int {
	seen := make(map[string]bool, len(c.Values))
	for _, v := range c.Values {
		if !v.IsMissing {
			seen[v.Key()] = true
		}
	}
	return len(seen)
}

// StorageKind reports the column's raw storage type: the uniform kind of its
// non-missing values, or KindString when kinds are mixed (mirrors how an
// untyped parse leaves heterogeneous columns as text).
func (c Column) StorageKind() ValueKind {
	kind := KindMissing
	for _, v := range c.Values {
		if v.IsMissing {
			continue
		}
		if kind == KindMissing {
			kind = v.Kind
			continue
		}
		if v.Kind != kind {
			return KindString
		}
	}
	return kind
}

// Numbers returns the non-missing values of a numeric-storage column
func (c Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.IsMissing {
			continue
		}
		if n, ok := v.Number(); ok {
			out = append(out, n)
		}
	}
	return out
}

// exportValue converts a Value to a JSON-native representation
func exportValue(v Value) any {
	switch v.Kind {
	case KindString:
		return *v.StringVal
	case KindNumeric:
		return *v.NumericVal
	case KindBoolean:
		return *v.BooleanVal
	case KindTemporal:
		return v.TemporalVal.Format("2006-01-02 15:04:05")
	default:
		return nil
	}
}
