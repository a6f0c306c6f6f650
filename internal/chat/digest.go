package chat

import (
	"fmt"
	"strings"

	"lemur/domain/table"
	"lemur/internal/profile"
)

const sampleRowLimit = 3

// BuildSystemContext assembles the system prompt for a chat turn: the
// assistant persona, the user's business context, and a digest of the
// current dataset.
func BuildSystemContext(businessContext, filename string, t *table.Table, prof *profile.Profile) string {
	var b strings.Builder
	b.WriteString("You are a helpful data analysis assistant.")

	if businessContext != "" {
		b.WriteString("\n\nBusiness Context:\n")
		b.WriteString(businessContext)
	}

	if t != nil {
		b.WriteString(dataDigest(filename, t, prof))
	}

	return b.String()
}

// dataDigest summarizes the dataset the way an analyst would skim it:
// shape, column types, a few rows, and headline statistics.
func dataDigest(filename string, t *table.Table, prof *profile.Profile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n\nData Information:\n- File: %s\n- Rows: %d\n- Columns: %s\n",
		filename, t.Rows(), strings.Join(t.ColumnNames(), ", "))

	b.WriteString("\nColumn Types:\n")
	for _, name := range t.ColumnNames() {
		dtype := "object"
		inferred := ""
		if prof != nil {
			if cp, ok := prof.Columns[name]; ok {
				dtype = cp.Dtype
				inferred = string(cp.InferredType)
			}
		}
		if inferred != "" {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", name, dtype, inferred)
		} else {
			fmt.Fprintf(&b, "- %s: %s\n", name, dtype)
		}
	}

	b.WriteString(fmt.Sprintf("\nSample Data (first %d rows):\n", sampleRowLimit))
	b.WriteString(sampleRows(t, sampleRowLimit))

	if stats := headlineStats(t, prof); stats != "" {
		b.WriteString("\nBasic Statistics:\n")
		b.WriteString(stats)
	} else {
		b.WriteString("\nBasic Statistics:\nNo numeric data\n")
	}

	return b.String()
}

func sampleRows(t *table.Table, limit int) string {
	var b strings.Builder

	names := t.ColumnNames()
	b.WriteString(strings.Join(names, " | "))
	b.WriteString("\n")

	n := t.Rows()
	if n > limit {
		n = limit
	}
	for i := 0; i < n; i++ {
		cells := make([]string, len(names))
		for c, col := range t.Columns() {
			cells[c] = col.Values[i].String()
			if cells[c] == "" {
				cells[c] = "NaN"
			}
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	return b.String()
}

// headlineStats renders per-column numeric summaries from the profile
func headlineStats(t *table.Table, prof *profile.Profile) string {
	if prof == nil {
		return ""
	}

	var b strings.Builder
	for _, name := range t.ColumnNames() {
		cp, ok := prof.Columns[name]
		if !ok || cp.Stats == nil {
			continue
		}
		s := cp.Stats
		fmt.Fprintf(&b, "- %s: mean=%s median=%s std=%s min=%s max=%s\n",
			name, floatOrNA(s.Mean), floatOrNA(s.Median), floatOrNA(s.Std),
			floatOrNA(s.Min), floatOrNA(s.Max))
	}
	return b.String()
}

func floatOrNA(f *float64) string {
	if f == nil {
		return "NaN"
	}
	return fmt.Sprintf("%g", *f)
}
