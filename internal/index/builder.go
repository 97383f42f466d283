// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-search/internal/embed"
	"github.com/pdiddy/paper-search/pkg/types"
)

// DefaultBatchSize is the number of texts embedded per API call.
const DefaultBatchSize = 128

// Builder embeds a corpus and assembles the flat index. Entries are
// processed strictly in order across batch boundaries, because the
// position an entry lands at is its identity in the artifact set.
type Builder struct {
	provider  embed.Provider
	batchSize int
	limiter   *rate.Limiter
}

// NewBuilder creates a builder. A zero batch size uses DefaultBatchSize;
// a zero RequestsPerSecond leaves embedding calls unthrottled.
func NewBuilder(provider embed.Provider, cfg types.IndexConfig) *Builder {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Builder{
		provider:  provider,
		batchSize: batchSize,
		limiter:   limiter,
	}
}

// Build embeds every entry's search text in order and returns the filled
// index. Empty texts are embedded like any other. Any embedding failure
// aborts the whole build; there are no partial or resumable builds.
// Progress lines go to w.
func (b *Builder) Build(ctx context.Context, entries []types.CompositeEntry, w io.Writer) (*Flat, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus is empty: nothing to index")
	}

	var idx *Flat
	for start := 0; start < len(entries); start += b.batchSize {
		end := min(start+b.batchSize, len(entries))

		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		texts := make([]string, 0, end-start)
		for _, e := range entries[start:end] {
			texts = append(texts, e.SearchText)
		}

		vectors, err := b.provider.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding batch starting at %d: %w", start, err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedding batch starting at %d: got %d vectors for %d texts",
				start, len(vectors), len(texts))
		}

		for i, vec := range vectors {
			if idx == nil {
				idx, err = NewFlat(len(vec))
				if err != nil {
					return nil, err
				}
			}
			if err := idx.Add(embed.Normalize(vec)); err != nil {
				return nil, fmt.Errorf("adding vector for entry %d: %w", start+i, err)
			}
		}

		fmt.Fprintf(w, "embedded %d/%d\n", end, len(entries))
	}

	return idx, nil
}
