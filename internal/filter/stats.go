// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-search/pkg/types"
)

// CategoryStats summarizes the category distribution of a filtered corpus.
type CategoryStats struct {
	// Total is the number of records inspected.
	Total int

	// Hits counts records per target category. A record with two target
	// categories counts once in each.
	Hits map[string]int

	// OnlyTarget counts records whose categories are all in the target set.
	OnlyTarget int

	// TargetPlusOther counts records carrying both target and non-target
	// categories.
	TargetPlusOther int
}

// Stats reads a corpus from r and tallies how its records relate to the
// target category set. Useful as a sanity check after filtering.
func Stats(r io.Reader, categories []string) (CategoryStats, error) {
	targets := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		targets[c] = struct{}{}
	}

	stats := CategoryStats{Hits: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec types.PaperRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return stats, fmt.Errorf("parsing line %d: %w", stats.Total+1, err)
		}
		stats.Total++

		cats := strings.Fields(rec.Categories)
		hit := false
		subset := true
		for _, c := range cats {
			if _, ok := targets[c]; ok {
				stats.Hits[c]++
				hit = true
			} else {
				subset = false
			}
		}
		if !hit {
			continue
		}
		if subset {
			stats.OnlyTarget++
		} else {
			stats.TargetPlusOther++
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading input: %w", err)
	}

	return stats, nil
}
