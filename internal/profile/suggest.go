package profile

import (
	"fmt"
	"strings"

	"lemur/domain/table"
)

// DefaultMaxSuggestions caps the suggestion list
const DefaultMaxSuggestions = 7

// overviewHistoryLimit: overview questions only make sense early in a
// conversation.
const overviewHistoryLimit = 2

// similarityThreshold: share of the shorter question's words that must
// overlap for two questions to count as the same ask.
const similarityThreshold = 0.5

// ChatTurn is one prior message of the conversation
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Suggester generates contextual follow-up questions from a table, its
// profile, optional business context, and conversation history.
type Suggester struct {
	maxSuggestions int
}

// NewSuggester creates a suggester with the given list cap
func NewSuggester(maxSuggestions int) *Suggester {
	if maxSuggestions < 1 {
		maxSuggestions = DefaultMaxSuggestions
	}
	return &Suggester{maxSuggestions: maxSuggestions}
}

// Generate assembles suggestions category by category in a fixed priority
// order, dedupes by exact string, and truncates to the cap. Later categories
// lose to the cap, never to earlier categories.
func (s *Suggester) Generate(t *table.Table, prof *Profile, context string, history []ChatTurn) []string {
	var suggestions []string

	if len(history) < overviewHistoryLimit {
		suggestions = append(suggestions, overviewQueries(t)...)
	}
	if prof != nil {
		suggestions = append(suggestions, qualityQueries(t, prof)...)
	}
	suggestions = append(suggestions, rankingQueries(t)...)
	if prof != nil {
		suggestions = append(suggestions, trendQueries(t, prof)...)
	}
	if context != "" {
		suggestions = append(suggestions, contextQueries(context)...)
	}
	if len(history) > 0 {
		suggestions = append(suggestions, followupQueries(history)...)
	}

	return dedupe(suggestions, s.maxSuggestions)
}

// UpdateAfterChat removes suggestions similar to the question just asked and
// appends follow-ups keyed on the answer's content.
func (s *Suggester) UpdateAfterChat(current []string, userMessage, aiResponse string) []string {
	userLower := strings.ToLower(userMessage)

	updated := []string{}
	for _, suggestion := range current {
		if !isSimilarQuery(strings.ToLower(suggestion), userLower) {
			updated = append(updated, suggestion)
		}
	}

	responseLower := strings.ToLower(aiResponse)
	if strings.Contains(responseLower, "missing") || strings.Contains(responseLower, "null") {
		updated = append(updated, "How should I handle these missing values?")
	}
	if strings.Contains(responseLower, "outlier") {
		updated = append(updated, "Should I investigate these outliers further?")
	}
	if strings.Contains(responseLower, "correlation") || strings.Contains(responseLower, "relationship") {
		updated = append(updated, "Can you visualize this relationship?")
	}
	if strings.Contains(responseLower, "increase") || strings.Contains(responseLower, "decrease") {
		updated = append(updated, "What might be causing this change?")
	}

	return updated
}

func overviewQueries(t *table.Table) []string {
	queries := []string{
		"What is the overall summary of this data?",
		fmt.Sprintf("Show me the distribution of data across %d columns", t.NumColumns()),
	}

	numeric := numericColumns(t)
	if len(numeric) == 1 {
		queries = append(queries, fmt.Sprintf("What are the statistics for %s?", numeric[0]))
	} else if len(numeric) > 1 {
		queries = append(queries, fmt.Sprintf("Compare the ranges of %s and %s", numeric[0], numeric[1]))
	}

	if categorical := stringColumns(t); len(categorical) > 0 {
		queries = append(queries, fmt.Sprintf("What are the unique values in %s?", categorical[0]))
	}
	return queries
}

func qualityQueries(t *table.Table, prof *Profile) []string {
	var queries []string

	// Columns with missing values, table order, at most two named
	var missing []string
	for _, col := range t.Columns() {
		if cp, ok := prof.Columns[col.Name]; ok && cp.NullCount > 0 {
			missing = append(missing, col.Name)
			if len(missing) == 2 {
				break
			}
		}
	}
	if len(missing) > 0 {
		queries = append(queries, fmt.Sprintf("Why do columns %s have missing values?", strings.Join(missing, ", ")))
	}

	if len(prof.DataQuality.Issues) > 0 {
		queries = append(queries, "What data quality issues should I be aware of?")
	}

	for _, col := range t.Columns() {
		cp, ok := prof.Columns[col.Name]
		if ok && cp.Outliers != nil && cp.Outliers.Count > 0 {
			queries = append(queries, fmt.Sprintf("Show me the outliers in %s", col.Name))
			break
		}
	}
	return queries
}

func rankingQueries(t *table.Table) []string {
	var queries []string

	numeric := numericColumns(t)
	categorical := stringColumns(t)

	if len(numeric) > 0 {
		queries = append(queries, fmt.Sprintf("What are the top 10 highest values for %s?", numeric[0]))
		if len(numeric) > 1 {
			queries = append(queries, fmt.Sprintf("Which records have both high %s and %s?", numeric[0], numeric[1]))
		}
	}

	if len(categorical) > 0 && len(numeric) > 0 {
		queries = append(queries,
			fmt.Sprintf("What is the average %s by %s?", numeric[0], categorical[0]),
			fmt.Sprintf("Which %s has the highest total %s?", categorical[0], numeric[0]),
		)
	}
	return queries
}

func trendQueries(t *table.Table, prof *Profile) []string {
	var queries []string

	numeric := numericColumns(t)

	if dates := prof.PotentialRelationships.PotentialDates; len(dates) > 0 && len(numeric) > 0 {
		queries = append(queries,
			fmt.Sprintf("Show me the trend of %s over %s", numeric[0], dates[0]),
			fmt.Sprintf("What patterns exist in the data by %s?", dates[0]),
		)
	}

	if len(numeric) >= 2 {
		queries = append(queries, fmt.Sprintf("Is there a correlation between %s and %s?", numeric[0], numeric[1]))
	}
	return queries
}

func contextQueries(context string) []string {
	var queries []string
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "revenue") || strings.Contains(contextLower, "sales") {
		queries = append(queries,
			"What drives the highest revenue/sales?",
			"Show me revenue trends and patterns",
		)
	}
	if strings.Contains(contextLower, "customer") {
		queries = append(queries,
			"What are the customer segments in this data?",
			"Which customers contribute most to the business?",
		)
	}
	if strings.Contains(contextLower, "product") {
		queries = append(queries,
			"Which products perform best?",
			"What product patterns should I know about?",
		)
	}
	if strings.Contains(contextLower, "performance") {
		queries = append(queries,
			"What are the key performance indicators?",
			"Where are the performance bottlenecks?",
		)
	}
	return queries
}

func followupQueries(history []ChatTurn) []string {
	var queries []string

	// Most recent user turn drives the follow-ups
	lastMessage := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			lastMessage = strings.ToLower(history[i].Content)
			break
		}
	}

	if strings.Contains(lastMessage, "outlier") {
		queries = append(queries,
			"What might be causing these outliers?",
			"Should I exclude these outliers from analysis?",
		)
	}
	if strings.Contains(lastMessage, "average") || strings.Contains(lastMessage, "mean") {
		queries = append(queries,
			"How does this compare to the median?",
			"What about the standard deviation?",
		)
	}
	if strings.Contains(lastMessage, "top") || strings.Contains(lastMessage, "highest") {
		queries = append(queries,
			"What about the bottom/lowest values?",
			"How do these compare to the average?",
		)
	}
	if strings.Contains(lastMessage, "trend") {
		queries = append(queries,
			"Is this trend statistically significant?",
			"What factors might influence this trend?",
		)
	}
	if strings.Contains(lastMessage, "correlation") {
		queries = append(queries,
			"Could this be causation or just correlation?",
			"What other factors should I consider?",
		)
	}
	return queries
}

// dedupe keeps the first occurrence of each string, preserving insertion
// order, then truncates.
func dedupe(suggestions []string, max int) []string {
	seen := make(map[string]bool, len(suggestions))
	unique := []string{}
	for _, s := range suggestions {
		if seen[s] {
			continue
		}
		seen[s] = true
		unique = append(unique, s)
		if len(unique) == max {
			break
		}
	}
	return unique
}

// isSimilarQuery reports whether the two questions share more than half of
// the shorter one's words.
func isSimilarQuery(query1, query2 string) bool {
	words1 := strings.Fields(query1)
	words2 := strings.Fields(query2)

	minLen := len(words1)
	if len(words2) < minLen {
		minLen = len(words2)
	}
	if minLen == 0 {
		return false
	}

	set1 := make(map[string]bool, len(words1))
	for _, w := range words1 {
		set1[w] = true
	}
	common := make(map[string]bool)
	for _, w := range words2 {
		if set1[w] {
			common[w] = true
		}
	}

	return float64(len(common))/float64(minLen) > similarityThreshold
}

// numericColumns returns numeric-storage column names in table order
func numericColumns(t *table.Table) []string {
	var names []string
	for _, col := range t.Columns() {
		if col.StorageKind() == table.KindNumeric {
			names = append(names, col.Name)
		}
	}
	return names
}

// stringColumns returns string-storage column names in table order
func stringColumns(t *table.Table) []string {
	var names []string
	for _, col := range t.Columns() {
		if col.StorageKind() == table.KindString {
			names = append(names, col.Name)
		}
	}
	return names
}
