package profile

import (
	"fmt"

	"lemur/domain/table"
)

// Quality scoring penalties and thresholds. Policy constants, preserved for
// report compatibility rather than derived from anything principled.
const (
	duplicateIssuePct  = 10.0
	duplicateWarnPct   = 5.0
	duplicateIssueCost = 20
	duplicateWarnCost  = 10
	nullIssuePct       = 50.0
	nullWarnPct        = 20.0
	nullIssueCost      = 15
	nullWarnCost       = 5
	constantColumnCost = 5
	assessmentGoodMin  = 80
	assessmentFairMin  = 60
)

// AssessQuality scores the table starting from 100 and deducting fixed
// penalties for duplicates, sparse columns, and constant columns.
func AssessQuality(t *table.Table) QualityReport {
	report := QualityReport{
		Issues:   []string{},
		Warnings: []string{},
		Score:    100,
	}

	rows := t.Rows()

	duplicatePct := 0.0
	if rows > 0 {
		duplicatePct = float64(t.DuplicateRows()) / float64(rows) * 100
	}
	if duplicatePct > duplicateIssuePct {
		report.Issues = append(report.Issues,
			fmt.Sprintf("High duplicate rate: %.1f%% rows are duplicates", duplicatePct))
		report.Score -= duplicateIssueCost
	} else if duplicatePct > duplicateWarnPct {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Moderate duplicate rate: %.1f%% rows are duplicates", duplicatePct))
		report.Score -= duplicateWarnCost
	}

	for _, col := range t.Columns() {
		nullPct := 0.0
		if rows > 0 {
			nullPct = float64(col.NullCount()) / float64(rows) * 100
		}
		if nullPct > nullIssuePct {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Column '%s' has %.1f%% missing values", col.Name, nullPct))
			report.Score -= nullIssueCost
		} else if nullPct > nullWarnPct {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Column '%s' has %.1f%% missing values", col.Name, nullPct))
			report.Score -= nullWarnCost
		}
	}

	for _, col := range t.Columns() {
		if col.DistinctCount() == 1 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("Column '%s' has only one unique value", col.Name))
			report.Score -= constantColumnCost
		}
	}

	if report.Score < 0 {
		report.Score = 0
	}

	switch {
	case report.Score >= assessmentGoodMin:
		report.Assessment = "Good"
	case report.Score >= assessmentFairMin:
		report.Assessment = "Fair"
	default:
		report.Assessment = "Needs Attention"
	}

	return report
}
