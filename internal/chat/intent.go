package chat

import (
	"regexp"
	"strings"
)

// analyticalKeywords mark questions that ask for computation over the data
// rather than general conversation.
var analyticalKeywords = []string{
	"calculate", "compute", "sum", "average", "mean", "median", "mode",
	"count", "total", "how many", "how much", "group by", "aggregate",
	"correlation", "regression", "trend", "pattern", "distribution",
	"variance", "std", "standard deviation", "percentile", "quartile",
	"max", "min", "maximum", "minimum", "range", "top", "bottom",
	"filter", "where", "sort", "order by", "rank", "compare",
	"plot", "graph", "chart", "visualize", "show me the data",
	"analyze", "analysis", "statistics", "stats", "metrics",
}

// datasetOpPatterns catch questions phrased directly as dataset operations
var datasetOpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bgroupby\b`),
	regexp.MustCompile(`\bpivot\b`),
	regexp.MustCompile(`\bmerge\b`),
	regexp.MustCompile(`\bjoin\b.*\btable`),
	regexp.MustCompile(`\bselect\b.*\bfrom\b`),
}

// IsAnalyticalQuery reports whether a question asks for analysis over the
// uploaded data.
func IsAnalyticalQuery(query string) bool {
	queryLower := strings.ToLower(query)

	for _, keyword := range analyticalKeywords {
		if strings.Contains(queryLower, keyword) {
			return true
		}
	}
	for _, pattern := range datasetOpPatterns {
		if pattern.MatchString(queryLower) {
			return true
		}
	}
	return false
}
