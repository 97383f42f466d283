// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperRecord holds the fields of a raw arXiv metadata record that the
// pipeline inspects. Records arrive as newline-delimited JSON; fields not
// listed here pass through untouched because the filter re-emits the
// original line, not a re-serialization.
type PaperRecord struct {
	// ID is the stable arXiv-style identifier (e.g. "2301.07041").
	ID string `json:"id"`

	// Title is the paper title, possibly spanning multiple lines.
	Title string `json:"title"`

	// Abstract is the paper abstract, possibly spanning multiple lines.
	Abstract string `json:"abstract"`

	// Categories is a whitespace-separated string of category tags
	// (e.g. "cs.LG cs.AI stat.ML").
	Categories string `json:"categories"`

	// UpdateDate is an ISO date string ("2023-01-18"). Optional.
	UpdateDate string `json:"update_date"`

	// Versions lists submission versions in chronological order. Optional.
	Versions []PaperVersion `json:"versions"`
}

// PaperVersion is one entry of a record's version history.
type PaperVersion struct {
	// Version is the version label (e.g. "v1").
	Version string `json:"version"`

	// Created is an RFC-822-like date string
	// (e.g. "Mon, 2 Jan 2023 18:30:00 GMT").
	Created string `json:"created"`
}

// CompositeEntry is the unit of the search corpus: one paper reduced to its
// identifier and a single normalized search string. Entries are ordered; the
// slice index of an entry is its position in the vector index.
type CompositeEntry struct {
	// PaperID is the stable paper identifier.
	PaperID string `json:"paper_id"`

	// SearchText is "{title}. {abstract}" after whitespace normalization,
	// or just the title when the abstract is empty.
	SearchText string `json:"search_text"`
}

// SearchResult is one ranked hit returned by the query engine.
type SearchResult struct {
	// Rank is the 1-based position of the hit, best first.
	Rank int `json:"rank"`

	// Relevance is the raw inner-product score from the index. With unit
	// vectors on both sides this is cosine similarity in [-1, 1].
	Relevance float64 `json:"relevance"`

	// Title is the paper title recovered from the search text.
	Title string `json:"title"`

	// Link is the arXiv abstract page URL.
	Link string `json:"link"`

	// Summary is the abstract, truncated to a preview length.
	Summary string `json:"summary"`
}
