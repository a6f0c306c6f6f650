package profile

import (
	"testing"
	"time"

	"lemur/domain/table"
)

// strCol builds a string column; empty strings become missing values
func strCol(name string, values ...string) table.Column {
	vs := make([]table.Value, len(values))
	for i, s := range values {
		vs[i] = table.NewStringValue(s)
	}
	return table.Column{Name: name, Values: vs}
}

// numCol builds a numeric column
func numCol(name string, values ...float64) table.Column {
	vs := make([]table.Value, len(values))
	for i, f := range values {
		vs[i] = table.NewNumericValue(f)
	}
	return table.Column{Name: name, Values: vs}
}

// boolCol builds a native boolean column
func boolCol(name string, values ...bool) table.Column {
	vs := make([]table.Value, len(values))
	for i, b := range values {
		vs[i] = table.NewBooleanValue(b)
	}
	return table.Column{Name: name, Values: vs}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad time literal %q: %v", s, err)
	}
	return ts
}

func mustTable(t *testing.T, cols ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.New(cols)
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	return tbl
}
