package profile

import (
	"fmt"

	"lemur/domain/table"
	"lemur/internal/logger"
)

// Profiler runs the full profiling pipeline over one table. It holds no
// state between runs; concurrent Profile calls on independent tables need
// no coordination.
type Profiler struct {
	suggester *Suggester
	log       *logger.Logger
}

// NewProfiler creates a profiler with default suggestion settings
func NewProfiler() *Profiler {
	return NewProfilerWithMax(DefaultMaxSuggestions)
}

// NewProfilerWithMax creates a profiler with a custom suggestion cap
func NewProfilerWithMax(maxSuggestions int) *Profiler {
	return &Profiler{
		suggester: NewSuggester(maxSuggestions),
		log:       logger.Default,
	}
}

// Profile produces the complete report for a table: basic shape, per-column
// profiles, quality assessment, relationships, and initial suggestions.
// Deterministic given identical input; best-effort on dirty data.
func (p *Profiler) Profile(t *table.Table) *Profile {
	types := make(map[string]SemanticType, t.NumColumns())
	columns := make(map[string]*ColumnProfile, t.NumColumns())
	for _, col := range t.Columns() {
		cp := p.profileColumn(t, col)
		types[col.Name] = cp.InferredType
		columns[col.Name] = cp
	}

	prof := &Profile{
		BasicInfo:              basicInfo(t),
		Columns:                columns,
		DataQuality:            AssessQuality(t),
		PotentialRelationships: DetectRelationships(t, types),
	}
	prof.SuggestedAnalyses = p.suggester.Generate(t, prof, "", nil)
	return prof
}

// Suggest regenerates suggestions for an existing profile with conversation
// context applied.
func (p *Profiler) Suggest(t *table.Table, prof *Profile, context string, history []ChatTurn) []string {
	return p.suggester.Generate(t, prof, context, history)
}

// profileColumn computes universal fields, infers the semantic type, and
// dispatches to the matching type-specific profiler. A failing profiler
// degrades this column to an error marker without aborting the run.
func (p *Profiler) profileColumn(t *table.Table, col table.Column) (cp *ColumnProfile) {
	rows := t.Rows()

	cp = &ColumnProfile{Dtype: string(col.StorageKind())}
	cp.NullCount = col.NullCount()
	cp.UniqueValues = col.DistinctCount()
	if rows > 0 {
		cp.NullPercentage = round2(float64(cp.NullCount) / float64(rows) * 100)
		cp.UniquePercentage = round2(float64(cp.UniqueValues) / float64(rows) * 100)
	}
	cp.InferredType = InferType(col)

	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("profiler for column %q failed: %v", col.Name, r)
			cp.Error = fmt.Sprintf("profiling failed: %v", r)
		}
	}()

	switch cp.InferredType {
	case TypeNumeric:
		cp.Stats, cp.Distribution, cp.Outliers = profileNumeric(col.Numbers())
	case TypeCategorical:
		cp.TopValues, cp.Cardinality = profileCategorical(col)
	case TypeDatetime:
		dateRange, patterns, ok := profileDatetime(col)
		if !ok {
			cp.Error = "Could not parse as datetime"
			return cp
		}
		cp.DateRange, cp.Patterns = dateRange, patterns
	case TypeText:
		cp.TextStats = profileText(col.NonNull())
	case TypeBoolean:
		cp.BooleanDistribution = profileBoolean(col)
	case TypeIdentifier:
		cp.IdentifierInfo = profileIdentifier(col)
	}
	return cp
}

func basicInfo(t *table.Table) BasicInfo {
	info := BasicInfo{
		Rows:          t.Rows(),
		Columns:       t.NumColumns(),
		MemoryUsageMB: round2(float64(t.EstimatedBytes()) / 1024 / 1024),
		Duplicates:    t.DuplicateRows(),
		CompleteRows:  t.CompleteRows(),
	}
	if info.Rows > 0 {
		info.DuplicatePercentage = round2(float64(info.Duplicates) / float64(info.Rows) * 100)
		info.CompleteRowsPercentage = round2(float64(info.CompleteRows) / float64(info.Rows) * 100)
	}
	return info
}
