// Package profile implements the dataset profiling core: semantic type
// inference, per-type column statistics, data-quality assessment,
// relationship detection, and query suggestions.
//
// A profiling run is synchronous and stateless: it reads one table snapshot,
// allocates a fresh Profile, and never mutates its input. Every number that
// ends up in a Profile is a native Go numeric type, so the whole report is
// safe to hand to encoding/json as-is.
package profile

// SemanticType is the inferred business meaning of a column's values,
// distinct from its raw storage representation.
type SemanticType string

const (
	TypeNumeric     SemanticType = "numeric"
	TypeCategorical SemanticType = "categorical"
	TypeDatetime    SemanticType = "datetime"
	TypeText        SemanticType = "text"
	TypeBoolean     SemanticType = "boolean"
	TypeIdentifier  SemanticType = "identifier"
	TypeEmpty       SemanticType = "empty"
	TypeUnknown     SemanticType = "unknown"
)

// Profile is the complete structured report produced by one profiling run.
type Profile struct {
	BasicInfo              BasicInfo                 `json:"basic_info"`
	Columns                map[string]*ColumnProfile `json:"columns"`
	DataQuality            QualityReport             `json:"data_quality"`
	PotentialRelationships RelationshipReport        `json:"potential_relationships"`
	SuggestedAnalyses      []string                  `json:"suggested_analyses"`
}

// BasicInfo describes the table's overall shape
type BasicInfo struct {
	Rows                   int     `json:"rows"`
	Columns                int     `json:"columns"`
	MemoryUsageMB          float64 `json:"memory_usage_mb"`
	Duplicates             int     `json:"duplicates"`
	DuplicatePercentage    float64 `json:"duplicate_percentage"`
	CompleteRows           int     `json:"complete_rows"`
	CompleteRowsPercentage float64 `json:"complete_rows_percentage"`
}

// ColumnProfile carries the universal column fields plus exactly one set of
// type-specific statistics, selected by InferredType.
type ColumnProfile struct {
	Dtype            string       `json:"dtype"`
	NullCount        int          `json:"null_count"`
	NullPercentage   float64      `json:"null_percentage"`
	UniqueValues     int          `json:"unique_values"`
	UniquePercentage float64      `json:"unique_percentage"`
	InferredType     SemanticType `json:"inferred_type"`

	// numeric
	Stats        *NumericStats      `json:"stats,omitempty"`
	Distribution *DistributionStats `json:"distribution,omitempty"`
	Outliers     *OutlierStats      `json:"outliers,omitempty"`

	// categorical
	TopValues   map[string]ValueFrequency `json:"top_values,omitempty"`
	Cardinality *CardinalityStats         `json:"cardinality,omitempty"`

	// datetime
	DateRange *DateRange        `json:"date_range,omitempty"`
	Patterns  *DatetimePatterns `json:"patterns,omitempty"`

	// text
	TextStats *TextStats `json:"text_stats,omitempty"`

	// boolean
	BooleanDistribution *BooleanDistribution `json:"boolean_distribution,omitempty"`

	// identifier
	IdentifierInfo *IdentifierInfo `json:"identifier_info,omitempty"`

	// Error marks a column whose type-specific profiler failed; the
	// universal fields above are still populated.
	Error string `json:"error,omitempty"`
}

// NumericStats holds summary statistics, rounded to 4 decimal digits
type NumericStats struct {
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Q25    *float64 `json:"q25"`
	Q75    *float64 `json:"q75"`
}

// DistributionStats describes the shape of a numeric column
type DistributionStats struct {
	Skewness  *float64 `json:"skewness"`
	Kurtosis  *float64 `json:"kurtosis"`
	Zeros     int      `json:"zeros"`
	Negatives int      `json:"negatives"`
	Positives int      `json:"positives"`
}

// OutlierStats reports IQR-rule outliers (present only when >4 values exist)
type OutlierStats struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ValueFrequency is one entry of a categorical top-values breakdown
type ValueFrequency struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CardinalityStats reports distinct-value counts for categorical columns
type CardinalityStats struct {
	Unique           int     `json:"unique"`
	UniquePercentage float64 `json:"unique_percentage"`
}

// DateRange reports the span of a datetime column
type DateRange struct {
	Min  string `json:"min"`
	Max  string `json:"max"`
	Days int    `json:"days"`
}

// DatetimePatterns reports temporal structure of a datetime column.
// Frequency is nil when fewer than 2 values exist.
type DatetimePatterns struct {
	HasTime     bool    `json:"has_time"`
	UniqueDates int     `json:"unique_dates"`
	Frequency   *string `json:"frequency"`
}

// TextStats reports character/word level statistics of a text column
type TextStats struct {
	AvgLength float64 `json:"avg_length"`
	MinLength int     `json:"min_length"`
	MaxLength int     `json:"max_length"`
	AvgWords  float64 `json:"avg_words"`
	HasURLs   bool    `json:"has_urls"`
	HasEmails bool    `json:"has_emails"`
}

// BooleanDistribution reports true/false counts after normalizing common
// truthy/falsy representations
type BooleanDistribution struct {
	True           int     `json:"true"`
	False          int     `json:"false"`
	TruePercentage float64 `json:"true_percentage"`
}

// IdentifierInfo describes an identifier-like column
type IdentifierInfo struct {
	IsUnique     bool     `json:"is_unique"`
	HasPattern   bool     `json:"has_pattern"`
	SampleValues []string `json:"sample_values"`
}

// QualityReport scores the table's data quality in [0,100]
type QualityReport struct {
	Issues     []string `json:"issues"`
	Warnings   []string `json:"warnings"`
	Score      int      `json:"score"`
	Assessment string   `json:"assessment"`
}

// RelationshipReport lists columns that look like keys, dates, categories,
// ML targets, and numeric pairs with strong Pearson correlation.
// A column may appear in several lists.
type RelationshipReport struct {
	PotentialIDs         []string         `json:"potential_ids"`
	PotentialForeignKeys []string         `json:"potential_foreign_keys"`
	PotentialDates       []string         `json:"potential_dates"`
	PotentialCategories  []string         `json:"potential_categories"`
	HighlyCorrelated     []CorrelatedPair `json:"highly_correlated"`
	PotentialTargets     []string         `json:"potential_targets"`
}

// CorrelatedPair is a numeric column pair with |r| > 0.8
type CorrelatedPair struct {
	Col1        string  `json:"col1"`
	Col2        string  `json:"col2"`
	Correlation float64 `json:"correlation"`
}
