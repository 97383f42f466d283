// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/filter"
)

const (
	defaultCategories = "cs.AI,cs.CL,cs.LG"
	defaultCutoff     = "2022-01-01"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter a raw arXiv metadata dump by category and date",
	Long: `Filter reads an arXiv metadata dump (one JSON record per line) and keeps
records that carry at least one target category and have an effective date
on or after the cutoff. Kept lines are written through unchanged, so the
output stays a valid subset of the input.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().String("input", "", "input JSONL file (default: stdin)")
	filterCmd.Flags().String("output", "", "output JSONL file (default: stdout)")
	filterCmd.Flags().String("categories", defaultCategories, "target categories (comma-separated)")
	filterCmd.Flags().String("cutoff", defaultCutoff, "earliest effective date to keep (YYYY-MM-DD)")

	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	opts, err := filterOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	in, closeIn, err := openInput(cmd)
	if err != nil {
		return err
	}
	defer closeIn()

	outPath, _ := cmd.Flags().GetString("output")
	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	summary, err := filter.Run(cmd.Context(), in, out, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processed %d records, kept %d records.\n", summary.Seen, summary.Kept)
	return nil
}

func filterOptsFromFlags(cmd *cobra.Command) (filter.Options, error) {
	categories, _ := cmd.Flags().GetString("categories")
	cutoffStr, _ := cmd.Flags().GetString("cutoff")

	cutoff, err := time.Parse("2006-01-02", cutoffStr)
	if err != nil {
		return filter.Options{}, fmt.Errorf("parsing --cutoff: %w", err)
	}

	return filter.Options{
		Categories: splitCategories(categories),
		Cutoff:     cutoff,
	}, nil
}

func splitCategories(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// openInput opens the --input file, or falls back to stdin.
func openInput(cmd *cobra.Command) (io.Reader, func() error, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, f.Close, nil
}
