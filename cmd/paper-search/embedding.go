// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "paper-search/0.1"
)

// addEmbeddingFlags registers the embedding backend flags shared by every
// command that embeds text. Build and query must use the same model, so the
// flag set is identical across them.
func addEmbeddingFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "openai", "embedding backend: openai or ollama")
	cmd.Flags().String("model", "", "embedding model (default per provider)")
	cmd.Flags().String("base-url", "", "override the embedding API endpoint")
	cmd.Flags().String("api-key", "", "embedding API key (default: .secrets/openai-api-key)")
	cmd.Flags().Int("dimensions", 0, "expected vector dimension (0 = accept any)")
	cmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
}

// embeddingConfigFromFlags assembles the embedding configuration from cmd's
// flags, falling back to loaded secrets for the API key and base URL.
func embeddingConfigFromFlags(cmd *cobra.Command) types.EmbeddingConfig {
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	baseURL, _ := cmd.Flags().GetString("base-url")
	apiKey, _ := cmd.Flags().GetString("api-key")
	dimensions, _ := cmd.Flags().GetInt("dimensions")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	return types.EmbeddingConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		Provider:   types.EmbeddingProvider(provider),
		Model:      model,
		BaseURL:    secretDefault("openai-base-url", baseURL),
		APIKey:     secretDefault("openai-api-key", apiKey),
		Dimensions: dimensions,
	}
}
