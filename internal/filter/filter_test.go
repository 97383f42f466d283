// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-search/pkg/types"
)

func testOpts() Options {
	return Options{
		Categories: []string{"cs.AI", "cs.CL", "cs.LG"},
		Cutoff:     time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func runFilter(t *testing.T, input string, opts Options) (Summary, []string) {
	t.Helper()
	var out bytes.Buffer
	summary, err := Run(context.Background(), strings.NewReader(input), &out, opts)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	var lines []string
	for _, l := range strings.Split(out.String(), "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return summary, lines
}

func TestRunKeepsMatchingRecords(t *testing.T) {
	input := `{"id":"1001","categories":"cs.LG stat.ML","update_date":"2022-06-01"}
{"id":"1002","categories":"math.CO","update_date":"2023-01-01"}
{"id":"1003","categories":"cs.AI","update_date":"2021-12-31"}
{"id":"1004","categories":"cs.CL","update_date":"2022-01-01"}
`
	summary, lines := runFilter(t, input, testOpts())

	if summary.Seen != 4 {
		t.Errorf("Seen = %d, want 4", summary.Seen)
	}
	if summary.Kept != 2 {
		t.Errorf("Kept = %d, want 2", summary.Kept)
	}
	if len(lines) != 2 {
		t.Fatalf("output lines = %d, want 2", len(lines))
	}
	// Output order follows input order; cutoff is inclusive.
	if !strings.Contains(lines[0], `"1001"`) || !strings.Contains(lines[1], `"1004"`) {
		t.Errorf("unexpected output order: %v", lines)
	}
}

// Kept lines must be the input lines, not a re-serialization: unknown fields
// and key order survive.
func TestRunEmitsRecordsUnchanged(t *testing.T) {
	line := `{"zzz_custom":123,"id":"1001","categories":"cs.LG","update_date":"2022-06-01","authors":"Doe, J."}`
	_, lines := runFilter(t, line+"\n", testOpts())

	if len(lines) != 1 {
		t.Fatalf("output lines = %d, want 1", len(lines))
	}
	if lines[0] != line {
		t.Errorf("record was altered:\n got %s\nwant %s", lines[0], line)
	}
}

func TestRunSkipsMalformedAndBlankLines(t *testing.T) {
	input := `{"id":"1001","categories":"cs.LG","update_date":"2022-06-01"}
{this is not json

{"id":"1002","categories":"cs.LG","update_date":"2022-06-01"}
`
	summary, lines := runFilter(t, input, testOpts())

	if summary.Seen != 4 {
		t.Errorf("Seen = %d, want 4", summary.Seen)
	}
	if summary.Kept != 2 {
		t.Errorf("Kept = %d, want 2", summary.Kept)
	}
	if len(lines) != 2 {
		t.Errorf("output lines = %d, want 2", len(lines))
	}
}

func TestRunDropsRecordsWithoutDate(t *testing.T) {
	input := `{"id":"1001","categories":"cs.LG"}
{"id":"1002","categories":"cs.LG","update_date":"not-a-date","versions":[{"version":"v1","created":"garbage"}]}
`
	summary, lines := runFilter(t, input, testOpts())

	if summary.Kept != 0 {
		t.Errorf("Kept = %d, want 0", summary.Kept)
	}
	if len(lines) != 0 {
		t.Errorf("output lines = %d, want 0", len(lines))
	}
}

func TestRunVersionFallback(t *testing.T) {
	// No update_date; last version is recent enough even though v1 is not.
	input := `{"id":"1001","categories":"cs.AI","versions":[` +
		`{"version":"v1","created":"Mon, 6 Sep 2021 17:00:00 GMT"},` +
		`{"version":"v2","created":"Wed, 2 Mar 2022 09:30:00 GMT"}]}` + "\n"
	summary, _ := runFilter(t, input, testOpts())

	if summary.Kept != 1 {
		t.Errorf("Kept = %d, want 1", summary.Kept)
	}
}

func TestEffectiveDate(t *testing.T) {
	tests := []struct {
		name string
		rec  types.PaperRecord
		want time.Time
		ok   bool
	}{
		{
			name: "iso update_date",
			rec:  types.PaperRecord{UpdateDate: "2022-05-13"},
			want: time.Date(2022, 5, 13, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "update_date wins over versions",
			rec: types.PaperRecord{
				UpdateDate: "2022-05-13",
				Versions:   []types.PaperVersion{{Created: "Mon, 3 Jan 2000 00:00:00 GMT"}},
			},
			want: time.Date(2022, 5, 13, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "unparsable update_date falls back to last version",
			rec: types.PaperRecord{
				UpdateDate: "13/05/2022",
				Versions: []types.PaperVersion{
					{Created: "Mon, 3 Jan 2000 00:00:00 GMT"},
					{Created: "Fri, 4 Feb 2022 12:15:30 GMT"},
				},
			},
			want: time.Date(2022, 2, 4, 12, 15, 30, 0, time.UTC),
			ok:   true,
		},
		{
			name: "single-digit day",
			rec: types.PaperRecord{
				Versions: []types.PaperVersion{{Created: "Tue, 4 Jan 2022 01:02:03 GMT"}},
			},
			want: time.Date(2022, 1, 4, 1, 2, 3, 0, time.UTC),
			ok:   true,
		},
		{
			name: "no date at all",
			rec:  types.PaperRecord{},
			ok:   false,
		},
		{
			name: "empty created",
			rec:  types.PaperRecord{Versions: []types.PaperVersion{{Created: ""}}},
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EffectiveDate(tt.rec)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("EffectiveDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	input := `{"id":"1","categories":"cs.AI"}
{"id":"2","categories":"cs.AI cs.LG"}
{"id":"3","categories":"cs.LG stat.ML"}
{"id":"4","categories":"math.CO"}
`
	stats, err := Stats(strings.NewReader(input), []string{"cs.AI", "cs.CL", "cs.LG"})
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("Total = %d, want 4", stats.Total)
	}
	if stats.Hits["cs.AI"] != 2 || stats.Hits["cs.LG"] != 2 || stats.Hits["cs.CL"] != 0 {
		t.Errorf("Hits = %v", stats.Hits)
	}
	if stats.OnlyTarget != 2 {
		t.Errorf("OnlyTarget = %d, want 2", stats.OnlyTarget)
	}
	if stats.TargetPlusOther != 1 {
		t.Errorf("TargetPlusOther = %d, want 1", stats.TargetPlusOther)
	}
}
