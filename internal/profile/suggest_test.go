package profile

import (
	"strings"
	"testing"

	"lemur/domain/table"
)

// salesFixture builds a table with a date, two numerics, and a categorical
// column, plus its profile, enough to trigger every suggestion category.
func salesFixture(t *testing.T) (*table.Table, *Profile) {
	t.Helper()
	tbl := mustTable(t,
		strCol("order_date", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"),
		numCol("revenue", 100, 250, 90, 1200, 240, 260),
		numCol("units", 1, 2, 1, 9, 2, 2),
		strCol("region", "north", "south", "north", "north", "south", "east"),
	)
	return tbl, NewProfiler().Profile(tbl)
}

func TestGenerate_RespectsCap(t *testing.T) {
	tbl, prof := salesFixture(t)

	got := NewSuggester(7).Generate(tbl, prof, "revenue and customer data", nil)
	if len(got) > 7 {
		t.Errorf("got %d suggestions, cap is 7", len(got))
	}
	if len(got) == 0 {
		t.Fatal("got no suggestions")
	}
}

func TestGenerate_OverviewComesFirst(t *testing.T) {
	tbl, prof := salesFixture(t)

	got := NewSuggester(7).Generate(tbl, prof, "", nil)
	if got[0] != "What is the overall summary of this data?" {
		t.Errorf("got[0] = %q, want the overview question first", got[0])
	}
}

func TestGenerate_OverviewSuppressedByHistory(t *testing.T) {
	tbl, prof := salesFixture(t)

	history := []ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
	}
	got := NewSuggester(7).Generate(tbl, prof, "", history)
	for _, s := range got {
		if s == "What is the overall summary of this data?" {
			t.Error("overview question present despite 2 history turns")
		}
	}
}

func TestGenerate_DedupeKeepsFirstOccurrence(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"}, 10)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("dedupe = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dedupe[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGenerate_ContextKeywords(t *testing.T) {
	tbl, prof := salesFixture(t)

	got := NewSuggester(20).Generate(tbl, prof, "This is monthly revenue by customer segment", nil)

	found := map[string]bool{}
	for _, s := range got {
		found[s] = true
	}
	if !found["What drives the highest revenue/sales?"] {
		t.Errorf("revenue context question missing from %v", got)
	}
	if !found["What are the customer segments in this data?"] {
		t.Errorf("customer context question missing from %v", got)
	}
}

func TestGenerate_FollowupsFromLastUserTurn(t *testing.T) {
	tbl, prof := salesFixture(t)

	history := []ChatTurn{
		{Role: "user", Content: "What is the average revenue?"},
		{Role: "assistant", Content: "The average revenue is 356.67."},
	}
	got := NewSuggester(20).Generate(tbl, prof, "", history)

	found := false
	for _, s := range got {
		if s == "How does this compare to the median?" {
			found = true
		}
	}
	if !found {
		t.Errorf("average follow-up missing from %v", got)
	}
}

func TestUpdateAfterChat_RemovesSimilarAndAppendsFollowups(t *testing.T) {
	s := NewSuggester(7)
	current := []string{
		"What are the top 10 highest values for revenue?",
		"What is the average revenue by region?",
	}

	updated := s.UpdateAfterChat(current,
		"What are the top 10 highest values for revenue?",
		"Several rows contain missing values in the region column.")

	for _, q := range updated {
		if q == current[0] {
			t.Error("asked question still suggested")
		}
	}

	found := false
	for _, q := range updated {
		if q == "How should I handle these missing values?" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing-values follow-up absent from %v", updated)
	}
}

func TestUpdateAfterChat_AnswerKeywords(t *testing.T) {
	s := NewSuggester(7)

	updated := s.UpdateAfterChat(nil, "anything",
		"There is a strong correlation here, and totals increase over time.")

	want := map[string]bool{
		"Can you visualize this relationship?": false,
		"What might be causing this change?":   false,
	}
	for _, q := range updated {
		if _, ok := want[q]; ok {
			want[q] = true
		}
	}
	for q, seen := range want {
		if !seen {
			t.Errorf("follow-up %q missing from %v", q, updated)
		}
	}
}

func TestIsSimilarQuery(t *testing.T) {
	tests := []struct {
		q1, q2 string
		want   bool
	}{
		{"show me the outliers in revenue", "show me the outliers in units", true},
		{"what is the average revenue", "why do columns have missing values", false},
		{"", "anything at all", false},
	}
	for _, tt := range tests {
		if got := isSimilarQuery(strings.ToLower(tt.q1), strings.ToLower(tt.q2)); got != tt.want {
			t.Errorf("isSimilarQuery(%q, %q) = %v, want %v", tt.q1, tt.q2, got, tt.want)
		}
	}
}

func TestGenerate_RankingQuestionsUseFirstColumns(t *testing.T) {
	tbl, prof := salesFixture(t)

	got := NewSuggester(20).Generate(tbl, prof, "", []ChatTurn{{Role: "user", Content: "x"}, {Role: "assistant", Content: "y"}})

	found := map[string]bool{}
	for _, s := range got {
		found[s] = true
	}
	if !found["What are the top 10 highest values for revenue?"] {
		t.Errorf("ranking question missing from %v", got)
	}
	if !found["What is the average revenue by order_date?"] && !found["What is the average revenue by region?"] {
		t.Errorf("group-by question missing from %v", got)
	}
}
