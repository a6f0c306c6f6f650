package table

import (
	"testing"
	"time"
)

func strCol(name string, values ...string) Column {
	vals := make([]Value, len(values))
	for i, s := range values {
		if s == "" {
			vals[i] = NewMissingValue()
			continue
		}
		vals[i] = NewStringValue(s)
	}
	return Column{Name: name, Values: vals}
}

func numCol(name string, values ...float64) Column {
	vals := make([]Value, len(values))
	for i, n := range values {
		vals[i] = NewNumericValue(n)
	}
	return Column{Name: name, Values: vals}
}

func TestNew_ValidatesShape(t *testing.T) {
	tests := []struct {
		name    string
		columns []Column
		wantErr bool
	}{
		{"valid", []Column{strCol("a", "x", "y"), numCol("b", 1, 2)}, false},
		{"empty table", nil, false},
		{"mismatched lengths", []Column{strCol("a", "x", "y"), numCol("b", 1)}, true},
		{"empty name", []Column{strCol("", "x")}, true},
		{"blank name", []Column{strCol("   ", "x")}, true},
		{"duplicate name", []Column{strCol("a", "x"), strCol("a", "y")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.columns)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDuplicateRows(t *testing.T) {
	tbl, err := New([]Column{
		strCol("a", "x", "y", "x", "x"),
		numCol("b", 1, 2, 1, 3),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Only row 2 repeats row 0; row 3 shares a cell but not the whole row
	if got := tbl.DuplicateRows(); got != 1 {
		t.Errorf("DuplicateRows = %d, want 1", got)
	}
}

func TestDuplicateRows_KindAware(t *testing.T) {
	// "1" as text and 1 as a number are different rows
	tbl, err := New([]Column{
		{Name: "v", Values: []Value{NewStringValue("1"), NewNumericValue(1)}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tbl.DuplicateRows(); got != 0 {
		t.Errorf("DuplicateRows = %d, want 0", got)
	}
}

func TestCompleteRows(t *testing.T) {
	tbl, err := New([]Column{
		strCol("a", "x", "", "z"),
		strCol("b", "p", "q", ""),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := tbl.CompleteRows(); got != 1 {
		t.Errorf("CompleteRows = %d, want 1", got)
	}
}

func TestColumnAccessors(t *testing.T) {
	tbl, err := New([]Column{
		strCol("name", "alice", "", "carol", "alice"),
		numCol("score", 10, 20, 30, 10),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	col, ok := tbl.Column("name")
	if !ok {
		t.Fatal("name column missing")
	}
	if col.NullCount() != 1 {
		t.Errorf("NullCount = %d, want 1", col.NullCount())
	}
	if col.DistinctCount() != 2 {
		t.Errorf("DistinctCount = %d, want 2", col.DistinctCount())
	}
	if len(col.NonNull()) != 3 {
		t.Errorf("NonNull = %d values, want 3", len(col.NonNull()))
	}

	if _, ok := tbl.Column("missing"); ok {
		t.Error("lookup of an absent column succeeded")
	}

	score, _ := tbl.Column("score")
	nums := score.Numbers()
	if len(nums) != 4 || nums[1] != 20 {
		t.Errorf("Numbers = %v", nums)
	}
}

func TestStorageKind(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want ValueKind
	}{
		{"uniform numeric", numCol("n", 1, 2), KindNumeric},
		{"uniform string", strCol("s", "a", "b"), KindString},
		{"missing ignored", strCol("s", "a", "", "b"), KindString},
		{"all missing", strCol("s", "", ""), KindMissing},
		{"mixed falls to string", Column{Name: "m", Values: []Value{NewNumericValue(1), NewStringValue("x")}}, KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.col.StorageKind(); got != tt.want {
				t.Errorf("StorageKind = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRow_ExportsNativeValues(t *testing.T) {
	when := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	tbl, err := New([]Column{
		{Name: "label", Values: []Value{NewStringValue("a")}},
		{Name: "count", Values: []Value{NewNumericValue(7)}},
		{Name: "flag", Values: []Value{NewBooleanValue(true)}},
		{Name: "at", Values: []Value{NewTemporalValue(when)}},
		{Name: "gap", Values: []Value{NewMissingValue()}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	row := tbl.Row(0)
	if row["label"] != "a" || row["count"] != float64(7) || row["flag"] != true {
		t.Errorf("row = %v", row)
	}
	if row["at"] != "2024-03-15 09:30:00" {
		t.Errorf("at = %v", row["at"])
	}
	if row["gap"] != nil {
		t.Errorf("gap = %v, want nil", row["gap"])
	}
}

func TestEstimatedBytes(t *testing.T) {
	tbl, err := New([]Column{
		strCol("s", "abc"),
		numCol("n", 1),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// "s" + "abc" + "n" + 8 numeric bytes
	if got := tbl.EstimatedBytes(); got != 13 {
		t.Errorf("EstimatedBytes = %d, want 13", got)
	}
}
