package profile

import (
	"math"
	"strings"

	"lemur/domain/table"

	"gonum.org/v1/gonum/stat"
)

const (
	correlationThreshold = 0.8
	targetMaxDistinct    = 5
)

var (
	idExactNames  = map[string]bool{"id": true, "key": true, "code": true, "identifier": true}
	fkExactNames  = map[string]bool{"customer_id": true, "product_id": true, "user_id": true, "order_id": true}
	dateNameHints = []string{"date", "time", "created", "updated", "modified"}
	targetNames   = map[string]bool{"target": true, "label": true, "class": true, "category": true, "result": true, "outcome": true}
)

// DetectRelationships classifies columns by name and inferred type into key,
// date, category, and target candidates, and finds strongly correlated
// numeric pairs. The lists are not exclusive.
func DetectRelationships(t *table.Table, types map[string]SemanticType) RelationshipReport {
	report := RelationshipReport{
		PotentialIDs:         []string{},
		PotentialForeignKeys: []string{},
		PotentialDates:       []string{},
		PotentialCategories:  []string{},
		HighlyCorrelated:     []CorrelatedPair{},
		PotentialTargets:     []string{},
	}

	for _, col := range t.Columns() {
		name := strings.ToLower(col.Name)
		inferred := types[col.Name]

		if inferred == TypeIdentifier || strings.HasSuffix(name, "id") || idExactNames[name] {
			report.PotentialIDs = append(report.PotentialIDs, col.Name)
		}

		if (strings.HasSuffix(name, "_id") && name != "id") || fkExactNames[name] {
			report.PotentialForeignKeys = append(report.PotentialForeignKeys, col.Name)
		}

		if inferred == TypeDatetime || containsAny(name, dateNameHints) {
			report.PotentialDates = append(report.PotentialDates, col.Name)
		}

		if inferred == TypeCategorical {
			report.PotentialCategories = append(report.PotentialCategories, col.Name)
		}

		if targetNames[name] || inferred == TypeBoolean ||
			(inferred == TypeCategorical && col.DistinctCount() <= targetMaxDistinct) {
			report.PotentialTargets = append(report.PotentialTargets, col.Name)
		}
	}

	report.HighlyCorrelated = correlatedPairs(t)
	return report
}

// correlatedPairs computes Pearson correlation over every unordered pair of
// numeric-storage columns, pairwise-complete rows only, and keeps pairs with
// |r| above the threshold. O(numeric_columns²) in time and pair storage.
func correlatedPairs(t *table.Table) []CorrelatedPair {
	numeric := []table.Column{}
	for _, col := range t.Columns() {
		if col.StorageKind() == table.KindNumeric {
			numeric = append(numeric, col)
		}
	}

	pairs := []CorrelatedPair{}
	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, ok := pearson(numeric[i], numeric[j])
			if ok && math.Abs(r) > correlationThreshold {
				pairs = append(pairs, CorrelatedPair{
					Col1:        numeric[i].Name,
					Col2:        numeric[j].Name,
					Correlation: round3(r),
				})
			}
		}
	}
	return pairs
}

// pearson computes Pearson correlation over rows where both values are
// present. Reports ok=false when fewer than 2 complete rows exist or either
// side has zero variance.
func pearson(a, b table.Column) (float64, bool) {
	x := make([]float64, 0, len(a.Values))
	y := make([]float64, 0, len(b.Values))
	for i := range a.Values {
		if a.Values[i].IsMissing || b.Values[i].IsMissing {
			continue
		}
		xa, okA := a.Values[i].Number()
		yb, okB := b.Values[i].Number()
		if okA && okB {
			x = append(x, xa)
			y = append(y, yb)
		}
	}
	if len(x) < 2 {
		return 0, false
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
