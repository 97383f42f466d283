// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns text into fixed-dimension float vectors through an
// external embedding API. The build and query paths must share one provider
// configuration: position-based lookups in the index are only valid when
// both sides embed with the same model.
package embed

import (
	"context"
	"fmt"
	"math"

	"github.com/pdiddy/paper-search/pkg/types"
)

// Provider generates embeddings from text.
type Provider interface {
	// Embed returns one vector per input text, in input order. A failure
	// fails the whole call; there are no partial results.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimension, or 0 when unknown.
	Dimensions() int
}

// NewProvider constructs the provider selected by cfg.Provider.
func NewProvider(cfg types.EmbeddingConfig) (Provider, error) {
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return NewOpenAIProvider(cfg)
	case types.ProviderOllama:
		return NewOllamaProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q: use openai or ollama", cfg.Provider)
	}
}

// Normalize scales vec to unit L2 norm in place and returns it. A zero
// vector is returned unchanged since it has no direction. Providers are
// expected to return normalized vectors already; callers on both the build
// and query paths still apply this, because inner-product search equals
// cosine similarity only under unit norm.
func Normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
