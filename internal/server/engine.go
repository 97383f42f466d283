// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server hosts the online query path: a readiness-gated engine
// that embeds a query, searches the vector index, and formats ranked
// results, plus the HTTP surface in front of it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/pdiddy/paper-search/internal/corpus"
	"github.com/pdiddy/paper-search/internal/embed"
	"github.com/pdiddy/paper-search/internal/index"
	"github.com/pdiddy/paper-search/pkg/types"
)

// ErrNotReady is returned for searches issued before the artifacts are
// loaded. Callers translate it to an "unavailable" signal; it is never
// folded into an empty result.
var ErrNotReady = errors.New("index not loaded")

// arxivAbsURL prefixes a paper ID to form its abstract page link.
const arxivAbsURL = "https://arxiv.org/abs/"

// Engine answers similarity queries against a loaded artifact set. All
// state is written once by Load and read-only afterwards, so concurrent
// Search calls share it without locking.
type Engine struct {
	provider embed.Provider

	ready   atomic.Bool
	idx     *index.Flat
	entries []types.CompositeEntry
}

// NewEngine creates an engine in the not-ready state.
func NewEngine(provider embed.Provider) *Engine {
	return &Engine{provider: provider}
}

// Load reads the artifact set from dir and marks the engine ready. It
// validates that the artifacts agree with each other and with the
// configured embedding model; on any failure the engine stays not-ready.
func (e *Engine) Load(ctx context.Context, dir string) error {
	start := time.Now()

	idx, entries, manifest, err := index.LoadArtifacts(ctx, dir)
	if err != nil {
		return fmt.Errorf("loading artifacts from %s: %w", dir, err)
	}

	if manifest.ModelName != e.provider.ModelName() {
		return fmt.Errorf("index was built with model %q but the engine embeds with %q",
			manifest.ModelName, e.provider.ModelName())
	}

	e.idx = idx
	e.entries = entries
	e.ready.Store(true)

	slog.Info("artifacts loaded",
		"dir", dir,
		"papers", idx.Len(),
		"dimensions", idx.Dimensions(),
		"model", manifest.ModelName,
		"elapsed", time.Since(start))
	return nil
}

// Ready reports whether the engine can serve searches.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// Size returns the number of indexed papers, or 0 before load.
func (e *Engine) Size() int {
	if !e.ready.Load() {
		return 0
	}
	return e.idx.Len()
}

// Search embeds query, finds the k nearest papers by inner product, and
// returns them ranked best-first. The result count is min(k, index size).
// An embedding failure fails this request only; the loaded state is
// untouched.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]types.SearchResult, error) {
	if !e.ready.Load() {
		return nil, ErrNotReady
	}
	if k < 1 {
		return nil, index.ErrInvalidK
	}

	vectors, err := e.provider.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding query: got %d vectors, want 1", len(vectors))
	}

	hits, err := e.idx.Search(embed.Normalize(vectors[0]), k)
	if err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, len(hits))
	for i, hit := range hits {
		entry := e.entries[hit.Position]
		title, abstract := corpus.SplitComposite(entry.SearchText)
		results[i] = types.SearchResult{
			Rank:      i + 1,
			Relevance: hit.Score,
			Title:     title,
			Link:      arxivAbsURL + entry.PaperID,
			Summary:   corpus.Summary(abstract),
		}
	}
	return results, nil
}
