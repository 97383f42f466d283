// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/filter"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the category distribution of a corpus",
	Long: `Stats reads a corpus (one JSON record per line) and reports how its
records relate to the target category set: per-category hit counts, how
many records carry only target categories, and how many mix target and
non-target categories. Useful as a sanity check after filtering.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("input", "", "input JSONL file (default: stdin)")
	statsCmd.Flags().String("categories", defaultCategories, "target categories (comma-separated)")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput(cmd)
	if err != nil {
		return err
	}
	defer closeIn()

	categoriesFlag, _ := cmd.Flags().GetString("categories")
	categories := splitCategories(categoriesFlag)

	stats, err := filter.Stats(in, categories)
	if err != nil {
		return err
	}

	fmt.Printf("Total records: %d\n", stats.Total)

	hit := make([]string, 0, len(stats.Hits))
	for c := range stats.Hits {
		hit = append(hit, c)
	}
	sort.Strings(hit)
	for _, c := range hit {
		fmt.Printf("  %-10s %d\n", c, stats.Hits[c])
	}

	fmt.Printf("Only target categories:  %d\n", stats.OnlyTarget)
	fmt.Printf("Target plus other:       %d\n", stats.TargetPlusOther)
	return nil
}
