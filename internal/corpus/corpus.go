// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus turns filtered paper records into the ordered search corpus:
// one normalized "{title}. {abstract}" string per paper. The read order of
// entries is the position order of the vector index, so both the builder and
// the query engine go through this package.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdiddy/paper-search/pkg/types"
)

// SummaryLimit is the maximum summary length in characters; longer abstracts
// are cut here and marked with an ellipsis.
const SummaryLimit = 300

// compositeSeparator joins title and abstract in the search text. Splitting
// on its first occurrence recovers the pair. This is a lossy convention: a
// title containing ". " splits early. Kept as-is because the persisted
// artifacts and their consumers depend on the exact current behavior.
const compositeSeparator = ". "

// maxLineBytes bounds a single metadata record; abstracts are a few KB, so
// 16 MB leaves a wide margin.
const maxLineBytes = 16 * 1024 * 1024

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeText replaces newlines with spaces, collapses whitespace runs to a
// single space, and trims the ends.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// CompositeText builds the search string for a paper from its raw title and
// abstract. Missing fields are treated as empty, not as errors.
func CompositeText(title, abstract string) string {
	t := NormalizeText(title)
	a := NormalizeText(abstract)
	if a == "" {
		return t
	}
	return t + compositeSeparator + a
}

// SplitComposite recovers (title, abstract) from a search text by splitting
// on the first ". ". When no separator is present the whole string is the
// title and the abstract is empty.
func SplitComposite(text string) (title, abstract string) {
	title, abstract, _ = strings.Cut(text, compositeSeparator)
	return title, abstract
}

// Summary truncates an abstract to SummaryLimit characters, appending "..."
// when anything was cut.
func Summary(abstract string) string {
	runes := []rune(abstract)
	if len(runes) <= SummaryLimit {
		return abstract
	}
	return string(runes[:SummaryLimit]) + "..."
}

// Entry derives a CompositeEntry from one paper record.
func Entry(rec types.PaperRecord) types.CompositeEntry {
	return types.CompositeEntry{
		PaperID:    rec.ID,
		SearchText: CompositeText(rec.Title, rec.Abstract),
	}
}

// Read streams a filtered corpus (one JSON record per line) and returns its
// composite entries in input order. Unlike the filter stage, a malformed line
// here is fatal: the filtered corpus is this pipeline's own artifact, so
// damage means the build must not proceed.
func Read(r io.Reader) ([]types.CompositeEntry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var entries []types.CompositeEntry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec types.PaperRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("parsing corpus line %d: %w", lineNo, err)
		}
		entries = append(entries, Entry(rec))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	return entries, nil
}
