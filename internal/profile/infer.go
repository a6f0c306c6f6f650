package profile

import (
	"lemur/domain/table"
)

// Heuristic thresholds for semantic type inference. These are policy
// constants tuned on typical business datasets, not derived invariants.
// Classification results shift with them.
const (
	identifierUniqueRatio  = 0.95 // distinct/non-null above this looks like a key
	categoricalUniqueRatio = 0.05 // distinct/non-null below this looks like categories
	categoricalMaxDistinct = 20   // few distinct values always read as categories
	textMeanLength         = 50   // mean chars above this reads as free text
	datetimeParseRatio     = 0.5  // share of sampled strings that must parse as dates
	datetimeSampleSize     = 100  // strings sampled for the date-parse check
)

// booleanLiterals are the representations a 2-valued column may use and
// still count as boolean.
var booleanLiterals = map[string]bool{
	"0": true, "1": true,
	"true": true, "false": true,
	"True": true, "False": true,
}

// InferType classifies a column into exactly one semantic type. The rules
// form an ordered decision list; the first match wins.
func InferType(col table.Column) SemanticType {
	nonNull := col.NonNull()

	// Rule 1: nothing to analyze. Also guards every ratio below against
	// division by zero.
	if len(nonNull) == 0 {
		return TypeEmpty
	}

	storage := col.StorageKind()

	// Rule 2: native temporal storage is datetime outright.
	if storage == table.KindTemporal {
		return TypeDatetime
	}

	distinct := col.DistinctCount()

	// Rule 3: boolean storage, or a 2-valued column drawn from the common
	// truthy/falsy literal set.
	if storage == table.KindBoolean || (distinct == 2 && allBooleanLiterals(nonNull)) {
		return TypeBoolean
	}

	uniqueRatio := float64(distinct) / float64(len(nonNull))

	switch storage {
	case table.KindNumeric:
		// Rule 4: near-unique numeric columns are keys, not measures.
		if uniqueRatio > identifierUniqueRatio {
			return TypeIdentifier
		}
		return TypeNumeric

	case table.KindString:
		// Rule 5: strings that mostly parse as dates.
		if mostlyDates(nonNull) {
			return TypeDatetime
		}
		// Rule 6: near-unique strings are identifiers.
		if uniqueRatio > identifierUniqueRatio {
			return TypeIdentifier
		}
		// Rule 7: low cardinality is categorical. This fires before the
		// text-length check on purpose; reordering changes classifications.
		if uniqueRatio < categoricalUniqueRatio || distinct < categoricalMaxDistinct {
			return TypeCategorical
		}
		// Rule 8: long values read as free text.
		if meanStringLength(nonNull) > textMeanLength {
			return TypeText
		}
		// Rule 9: everything else stays categorical.
		return TypeCategorical
	}

	// Rule 10: unreachable for tables built from the supported value kinds,
	// kept so the decision list stays total.
	return TypeUnknown
}

// allBooleanLiterals reports whether every value is one of the accepted
// truthy/falsy representations.
func allBooleanLiterals(values []table.Value) bool {
	for _, v := range values {
		switch v.Kind {
		case table.KindBoolean:
			continue
		case table.KindNumeric:
			if n := *v.NumericVal; n != 0 && n != 1 {
				return false
			}
		case table.KindString:
			if !booleanLiterals[*v.StringVal] {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// mostlyDates samples up to the first datetimeSampleSize values and reports
// whether more than half parse as timestamps.
func mostlyDates(values []table.Value) bool {
	sample := values
	if len(sample) > datetimeSampleSize {
		sample = sample[:datetimeSampleSize]
	}

	parsed := 0
	for _, v := range sample {
		if v.Kind != table.KindString {
			continue
		}
		if _, ok := parseTimestamp(*v.StringVal); ok {
			parsed++
		}
	}
	return float64(parsed) > float64(len(sample))*datetimeParseRatio
}

func meanStringLength(values []table.Value) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += len(v.String())
	}
	return float64(total) / float64(len(values))
}
