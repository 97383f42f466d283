// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/embed"
	"github.com/pdiddy/paper-search/internal/server"
	"github.com/pdiddy/paper-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run a one-shot semantic query against a built index",
	Long: `Search loads the built artifacts, embeds the query with the same model
the index was built with, and prints the k most similar papers.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("index-dir", "index", "directory holding the built artifacts")
	searchCmd.Flags().IntP("top-k", "k", server.DefaultK, "number of results to return")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	addEmbeddingFlags(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a query")
	}
	query := strings.Join(args, " ")

	provider, err := embed.NewProvider(embeddingConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	indexDir, _ := cmd.Flags().GetString("index-dir")
	engine := server.NewEngine(provider)
	if err := engine.Load(cmd.Context(), indexDir); err != nil {
		return err
	}

	k, _ := cmd.Flags().GetInt("top-k")
	results, err := engine.Search(cmd.Context(), query, k)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []types.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("[%d] %.4f  %s\n", r.Rank, r.Relevance, r.Title)
		fmt.Printf("    %s\n", r.Link)
		if r.Summary != "" {
			fmt.Printf("    %s\n", r.Summary)
		}
		fmt.Println()
	}
	return nil
}
