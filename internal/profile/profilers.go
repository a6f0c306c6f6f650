package profile

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"lemur/domain/table"
)

const (
	topValueLimit       = 10
	identifierSampleMax = 100
	identifierSamples   = 5
)

// profileCategorical reports the 10 most frequent values and cardinality.
// Percentages are over the full column length, nulls included.
func profileCategorical(col table.Column) (map[string]ValueFrequency, *CardinalityStats) {
	total := len(col.Values)

	type valueCount struct {
		value string
		count int
		first int
	}
	counts := make(map[string]*valueCount)
	order := []*valueCount{}
	for i, v := range col.Values {
		if v.IsMissing {
			continue
		}
		key := v.String()
		if vc, ok := counts[key]; ok {
			vc.count++
		} else {
			vc := &valueCount{value: key, count: 1, first: i}
			counts[key] = vc
			order = append(order, vc)
		}
	}

	// Most frequent first; ties keep first-occurrence order for determinism
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	top := make(map[string]ValueFrequency, topValueLimit)
	for i, vc := range order {
		if i >= topValueLimit {
			break
		}
		top[vc.value] = ValueFrequency{
			Count:      vc.count,
			Percentage: round2(float64(vc.count) / float64(total) * 100),
		}
	}

	cardinality := &CardinalityStats{Unique: len(order)}
	if total > 0 {
		cardinality.UniquePercentage = round2(float64(len(order)) / float64(total) * 100)
	}
	return top, cardinality
}

// Frequency classification bands, in fractional days between consecutive
// observations.
const (
	dailyMin   = 0.9
	dailyMax   = 1.1
	weeklyMin  = 6.5
	weeklyMax  = 7.5
	monthlyMin = 28.0
	monthlyMax = 31.0
	yearlyMin  = 365.0
	yearlyMax  = 366.0
)

// profileDatetime coerces values to timestamps and reports range, time-of-day
// presence, distinct dates, and detected frequency. Returns ok=false when
// nothing parses as a timestamp.
func profileDatetime(col table.Column) (*DateRange, *DatetimePatterns, bool) {
	var times []time.Time
	for _, v := range col.Values {
		if v.IsMissing {
			continue
		}
		if v.Kind == table.KindTemporal {
			times = append(times, *v.TemporalVal)
			continue
		}
		// Parse failures are dropped per value, not fatal for the column
		if t, ok := parseTimestamp(v.String()); ok {
			times = append(times, t)
		}
	}
	if len(times) == 0 {
		return nil, nil, false
	}

	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	dateRange := &DateRange{
		Min: sorted[0].Format("2006-01-02 15:04:05"),
		Max: sorted[len(sorted)-1].Format("2006-01-02 15:04:05"),
	}
	if len(sorted) > 1 {
		dateRange.Days = int(sorted[len(sorted)-1].Sub(sorted[0]).Hours() / 24)
	}

	hasTime := false
	dates := make(map[string]bool)
	for _, t := range sorted {
		h, m, s := t.Clock()
		if h != 0 || m != 0 || s != 0 {
			hasTime = true
		}
		dates[t.Format("2006-01-02")] = true
	}

	patterns := &DatetimePatterns{
		HasTime:     hasTime,
		UniqueDates: len(dates),
		Frequency:   detectDateFrequency(sorted),
	}
	return dateRange, patterns, true
}

// detectDateFrequency classifies the modal gap between consecutive sorted
// timestamps. Nil when fewer than 2 values exist.
func detectDateFrequency(sorted []time.Time) *string {
	if len(sorted) < 2 {
		return nil
	}

	gapCounts := make(map[time.Duration]int)
	for i := 1; i < len(sorted); i++ {
		gapCounts[sorted[i].Sub(sorted[i-1])]++
	}

	// Modal gap; ties resolve to the smallest gap
	var mode time.Duration
	best := 0
	for gap, count := range gapCounts {
		if count > best || (count == best && gap < mode) {
			mode = gap
			best = count
		}
	}

	days := mode.Hours() / 24
	freq := "irregular"
	switch {
	case days >= dailyMin && days <= dailyMax:
		freq = "daily"
	case days >= weeklyMin && days <= weeklyMax:
		freq = "weekly"
	case days >= monthlyMin && days <= monthlyMax:
		freq = "monthly"
	case days >= yearlyMin && days <= yearlyMax:
		freq = "yearly"
	}
	return &freq
}

// Loose pattern matches, deliberately not RFC-exact
var (
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+`)
)

// profileText reports length and word statistics plus URL/email presence
func profileText(values []table.Value) *TextStats {
	if len(values) == 0 {
		return nil
	}

	ts := &TextStats{MinLength: len(values[0].String())}
	totalLen, totalWords := 0, 0
	for _, v := range values {
		s := v.String()
		totalLen += len(s)
		totalWords += len(strings.Fields(s))
		if len(s) < ts.MinLength {
			ts.MinLength = len(s)
		}
		if len(s) > ts.MaxLength {
			ts.MaxLength = len(s)
		}
		if !ts.HasURLs && urlPattern.MatchString(s) {
			ts.HasURLs = true
		}
		if !ts.HasEmails && emailPattern.MatchString(s) {
			ts.HasEmails = true
		}
	}
	ts.AvgLength = round2(float64(totalLen) / float64(len(values)))
	ts.AvgWords = round2(float64(totalWords) / float64(len(values)))
	return ts
}

// profileBoolean normalizes common truthy/falsy representations and counts
// the split. Percentages are over the full column length.
func profileBoolean(col table.Column) *BooleanDistribution {
	dist := &BooleanDistribution{}
	for _, v := range col.Values {
		if v.IsMissing {
			continue
		}
		b, ok := normalizeBoolean(v)
		if !ok {
			continue
		}
		if b {
			dist.True++
		} else {
			dist.False++
		}
	}
	if len(col.Values) > 0 {
		dist.TruePercentage = round2(float64(dist.True) / float64(len(col.Values)) * 100)
	}
	return dist
}

func normalizeBoolean(v table.Value) (bool, bool) {
	switch v.Kind {
	case table.KindBoolean:
		return *v.BooleanVal, true
	case table.KindNumeric:
		switch *v.NumericVal {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	case table.KindString:
		switch *v.StringVal {
		case "true", "True", "TRUE", "1":
			return true, true
		case "false", "False", "FALSE", "0":
			return false, true
		}
	}
	return false, false
}

// Canonical identifier shapes: bare numbers, PREFIX-123, and UUIDs
var identifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^[A-Z]{2,3}-\d+$`),
	regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`),
}

// profileIdentifier reports uniqueness, pattern conformance over a sample,
// and a handful of example values.
func profileIdentifier(col table.Column) *IdentifierInfo {
	nonNull := col.NonNull()

	info := &IdentifierInfo{
		// Nulls break uniqueness: distinct non-null values must cover
		// every row
		IsUnique:     col.DistinctCount() == len(col.Values),
		SampleValues: []string{},
	}

	sample := nonNull
	if len(sample) > identifierSampleMax {
		sample = sample[:identifierSampleMax]
	}
	info.HasPattern = matchesIdentifierPattern(sample)

	for i, v := range nonNull {
		if i >= identifierSamples {
			break
		}
		info.SampleValues = append(info.SampleValues, v.String())
	}
	return info
}

// matchesIdentifierPattern reports whether every sampled value matches one
// of the canonical patterns.
func matchesIdentifierPattern(sample []table.Value) bool {
	if len(sample) == 0 {
		return false
	}
	for _, pattern := range identifierPatterns {
		all := true
		for _, v := range sample {
			if !pattern.MatchString(v.String()) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
