// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter selects records from a raw arXiv metadata snapshot by
// category and recency. Kept records are re-emitted byte-for-byte, one JSON
// object per line, so downstream stages see the original records unchanged.
package filter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/paper-search/pkg/types"
)

// maxLineBytes bounds a single metadata record line.
const maxLineBytes = 16 * 1024 * 1024

// isoDateLayouts are tried in order when parsing update_date.
var isoDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
}

// createdLayouts are the two accepted formats for a version's created field.
// Both resolve to UTC regardless of the zone abbreviation in the input.
var createdLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 GMT",
}

// Options control one filter run.
type Options struct {
	// Categories is the target category set.
	Categories []string

	// Cutoff is the earliest effective date a kept record may have.
	Cutoff time.Time
}

// Summary reports counts from a filter run.
type Summary struct {
	// Seen is the number of input lines, including blank and malformed ones.
	Seen int

	// Kept is the number of records written to the output.
	Kept int
}

// Run streams raw metadata lines from r and writes surviving records to w.
// Blank and malformed lines are counted as seen and skipped; a record
// survives when its categories intersect opts.Categories and its effective
// date is known and not before opts.Cutoff.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) (Summary, error) {
	targets := make(map[string]struct{}, len(opts.Categories))
	for _, c := range opts.Categories {
		targets[c] = struct{}{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	out := bufio.NewWriter(w)

	var summary Summary
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		summary.Seen++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec types.PaperRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}

		if !intersects(rec.Categories, targets) {
			continue
		}

		dt, ok := EffectiveDate(rec)
		if !ok || dt.Before(opts.Cutoff) {
			continue
		}

		if _, err := out.WriteString(line); err != nil {
			return summary, fmt.Errorf("writing record: %w", err)
		}
		if err := out.WriteByte('\n'); err != nil {
			return summary, fmt.Errorf("writing record: %w", err)
		}
		summary.Kept++
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("reading input: %w", err)
	}
	if err := out.Flush(); err != nil {
		return summary, fmt.Errorf("flushing output: %w", err)
	}

	return summary, nil
}

// EffectiveDate derives a record's date for cutoff comparison. update_date
// wins when it parses as an ISO date; otherwise the created field of the
// last version is tried against the two accepted layouts. The fallback order
// is a policy, not a convenience: it decides which papers are retrievable.
func EffectiveDate(rec types.PaperRecord) (time.Time, bool) {
	if rec.UpdateDate != "" {
		for _, layout := range isoDateLayouts {
			if t, err := time.Parse(layout, rec.UpdateDate); err == nil {
				return t.UTC(), true
			}
		}
	}

	if len(rec.Versions) > 0 {
		created := rec.Versions[len(rec.Versions)-1].Created
		if created != "" {
			for _, layout := range createdLayouts {
				if t, err := time.Parse(layout, created); err == nil {
					return time.Date(t.Year(), t.Month(), t.Day(),
						t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
				}
			}
		}
	}

	return time.Time{}, false
}

// intersects reports whether any tag in the whitespace-separated categories
// string is in targets.
func intersects(categories string, targets map[string]struct{}) bool {
	for _, c := range strings.Fields(categories) {
		if _, ok := targets[c]; ok {
			return true
		}
	}
	return false
}
