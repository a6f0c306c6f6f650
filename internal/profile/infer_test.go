package profile

import (
	"fmt"
	"strings"
	"testing"

	"lemur/domain/table"
)

func TestInferType_DecisionOrder(t *testing.T) {
	tests := []struct {
		name string
		col  table.Column
		want SemanticType
	}{
		{
			name: "all missing is empty",
			col:  strCol("blank", "", "", ""),
			want: TypeEmpty,
		},
		{
			name: "native temporal storage",
			col: table.Column{Name: "event_time", Values: []table.Value{
				table.NewTemporalValue(mustTime(t, "2024-01-01")),
				table.NewTemporalValue(mustTime(t, "2024-01-02")),
			}},
			want: TypeDatetime,
		},
		{
			name: "two string literals are boolean",
			col:  strCol("active", "true", "false", "true", "true"),
			want: TypeBoolean,
		},
		{
			name: "numeric 0/1 are boolean",
			col:  numCol("flag", 1, 0, 1, 0, 1),
			want: TypeBoolean,
		},
		{
			name: "near-unique numerics are identifiers",
			col:  numCol("user_id", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
			want: TypeIdentifier,
		},
		{
			name: "repeating numerics are measures",
			col:  numCol("price", 9.99, 9.99, 19.99, 19.99, 9.99, 29.99),
			want: TypeNumeric,
		},
		{
			name: "low-cardinality strings are categorical",
			col:  strCol("status", "active", "inactive", "active", "active", "pending", "active"),
			want: TypeCategorical,
		},
		{
			name: "boolean beats categorical for yes-no style 0/1",
			col:  strCol("churned", "0", "1", "0", "0", "1"),
			want: TypeBoolean,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferType(tt.col); got != tt.want {
				t.Errorf("InferType(%s) = %q, want %q", tt.col.Name, got, tt.want)
			}
		})
	}
}

func TestInferType_StringDatesBeatIdentifier(t *testing.T) {
	// Unique date strings would pass the identifier ratio too; the date
	// rule must win because it runs first on the string path.
	values := make([]string, 30)
	for i := range values {
		values[i] = fmt.Sprintf("2024-01-%02d", i+1)
	}
	col := strColFromSlice("order_date", values)

	if got := InferType(col); got != TypeDatetime {
		t.Errorf("InferType = %q, want %q", got, TypeDatetime)
	}
}

func TestInferType_UniqueCodesAreIdentifiers(t *testing.T) {
	values := make([]string, 40)
	for i := range values {
		values[i] = fmt.Sprintf("ORD-%04d", i+1)
	}
	col := strColFromSlice("order_code", values)

	if got := InferType(col); got != TypeIdentifier {
		t.Errorf("InferType = %q, want %q", got, TypeIdentifier)
	}
}

func TestInferType_LongStringsAreText(t *testing.T) {
	// High cardinality below the identifier ratio with long values. 25
	// distinct over 40 rows sits between both cardinality rules.
	values := make([]string, 40)
	for i := range values {
		values[i] = strings.Repeat("lorem ipsum ", 8) + fmt.Sprintf("review %d", i%25)
	}
	col := strColFromSlice("review_text", values)

	if got := InferType(col); got != TypeText {
		t.Errorf("InferType = %q, want %q", got, TypeText)
	}
}

func TestInferType_MidCardinalityShortStringsFallBackToCategorical(t *testing.T) {
	values := make([]string, 40)
	for i := range values {
		values[i] = fmt.Sprintf("sku %d", i%25)
	}
	col := strColFromSlice("sku", values)

	if got := InferType(col); got != TypeCategorical {
		t.Errorf("InferType = %q, want %q", got, TypeCategorical)
	}
}

func TestMostlyDates_RequiresMajority(t *testing.T) {
	half := make([]table.Value, 0, 10)
	for i := 0; i < 5; i++ {
		half = append(half, table.NewStringValue(fmt.Sprintf("2024-02-%02d", i+1)))
	}
	for i := 0; i < 5; i++ {
		half = append(half, table.NewStringValue(fmt.Sprintf("not a date %d", i)))
	}

	// Exactly 50% parsed must not count as "mostly"
	if mostlyDates(half) {
		t.Error("mostlyDates = true at exactly 50%, want false")
	}

	majority := append(half, table.NewStringValue("2024-03-01"))
	if !mostlyDates(majority) {
		t.Error("mostlyDates = false above 50%, want true")
	}
}

func strColFromSlice(name string, values []string) table.Column {
	vs := make([]table.Value, len(values))
	for i, s := range values {
		vs[i] = table.NewStringValue(s)
	}
	return table.Column{Name: name, Values: vs}
}
