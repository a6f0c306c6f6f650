package chat

import (
	"strings"
	"testing"

	"lemur/domain/table"
	"lemur/internal/profile"
)

func buildFixture(t *testing.T) (*table.Table, *profile.Profile) {
	t.Helper()
	cols := []table.Column{
		{Name: "region", Values: []table.Value{
			table.NewStringValue("north"),
			table.NewStringValue("south"),
			table.NewStringValue("north"),
			table.NewStringValue("east"),
		}},
		{Name: "revenue", Values: []table.Value{
			table.NewNumericValue(100),
			table.NewNumericValue(200),
			table.NewNumericValue(100),
			table.NewNumericValue(400),
		}},
	}
	tbl, err := table.New(cols)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tbl, profile.NewProfiler().Profile(tbl)
}

func TestBuildSystemContext_IncludesSections(t *testing.T) {
	tbl, prof := buildFixture(t)

	got := BuildSystemContext("We sell widgets in three regions", "sales.csv", tbl, prof)

	for _, want := range []string{
		"You are a helpful data analysis assistant.",
		"Business Context:\nWe sell widgets in three regions",
		"- File: sales.csv",
		"- Rows: 4",
		"- Columns: region, revenue",
		"Column Types:",
		"Sample Data (first 3 rows):",
		"Basic Statistics:",
		"revenue: mean=200",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("system context missing %q\n---\n%s", want, got)
		}
	}
}

func TestBuildSystemContext_NoTable(t *testing.T) {
	got := BuildSystemContext("", "", nil, nil)
	if got != "You are a helpful data analysis assistant." {
		t.Errorf("bare context = %q", got)
	}
	if strings.Contains(got, "Data Information") {
		t.Error("data digest present without a table")
	}
}

func TestDataDigest_SampleLimitedToThreeRows(t *testing.T) {
	tbl, prof := buildFixture(t)

	digest := dataDigest("sales.csv", tbl, prof)
	sampleStart := strings.Index(digest, "Sample Data")
	statsStart := strings.Index(digest, "Basic Statistics")
	if sampleStart < 0 || statsStart < 0 {
		t.Fatalf("digest missing sections:\n%s", digest)
	}
	sample := digest[sampleStart:statsStart]

	// Header line plus 3 data rows at most
	lines := 0
	for _, line := range strings.Split(strings.TrimSpace(sample), "\n") {
		if strings.Contains(line, "|") {
			lines++
		}
	}
	if lines != 4 {
		t.Errorf("sample section has %d table lines, want 4 (header + 3 rows)\n%s", lines, sample)
	}
}

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("**bold** and a [link](https://example.com)")
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("bold not rendered: %s", html)
	}
	if !strings.Contains(html, `<a href="https://example.com"`) {
		t.Errorf("link not rendered: %s", html)
	}

	// Raw HTML must be skipped, not passed through
	html = RenderMarkdown(`<script>alert(1)</script> hello`)
	if strings.Contains(html, "<script>") {
		t.Errorf("raw HTML passed through: %s", html)
	}
}
