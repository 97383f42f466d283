// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/corpus"
	"github.com/pdiddy/paper-search/internal/embed"
	"github.com/pdiddy/paper-search/internal/index"
	"github.com/pdiddy/paper-search/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index (build)",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed a filtered corpus into a vector index",
	Long: `Build reads a filtered corpus (one JSON record per line), embeds each
paper's title and abstract, and writes the index, metadata database, and
manifest to the index directory. An existing artifact set is replaced.

Vector positions follow input order: the paper on line p of the input
owns position p of the index.`,
	RunE: runIndexBuild,
}

func init() {
	indexBuildCmd.Flags().String("input", "", "filtered JSONL file (default: stdin)")
	indexBuildCmd.Flags().String("index-dir", "index", "directory for the built artifacts")
	indexBuildCmd.Flags().Int("batch-size", index.DefaultBatchSize, "texts embedded per API call")
	indexBuildCmd.Flags().Float64("rps", 0, "embedding API requests per second (0 = no limit)")
	addEmbeddingFlags(indexBuildCmd)

	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput(cmd)
	if err != nil {
		return err
	}
	defer closeIn()

	entries, err := corpus.Read(in)
	if err != nil {
		return err
	}

	provider, err := embed.NewProvider(embeddingConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	indexDir, _ := cmd.Flags().GetString("index-dir")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	rps, _ := cmd.Flags().GetFloat64("rps")

	cfg := types.IndexConfig{
		IndexDir:          indexDir,
		BatchSize:         batchSize,
		RequestsPerSecond: rps,
	}

	builder := index.NewBuilder(provider, cfg)
	idx, err := builder.Build(cmd.Context(), entries, os.Stderr)
	if err != nil {
		return err
	}

	if err := index.WriteArtifacts(cmd.Context(), indexDir, idx, entries, provider.ModelName()); err != nil {
		return err
	}

	fmt.Printf("Indexed %d vectors of dimension %d.\n", idx.Len(), idx.Dimensions())
	return nil
}
