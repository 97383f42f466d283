// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-search/internal/embed"
	"github.com/pdiddy/paper-search/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve semantic search over HTTP",
	Long: `Serve loads the built artifacts and answers POST /search requests.
Artifacts load in the background: the server accepts connections
immediately and answers 503 until loading completes, so orchestrators
can poll GET /healthz for readiness.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")
	serveCmd.Flags().String("index-dir", "index", "directory holding the built artifacts")
	serveCmd.Flags().Int("default-k", server.DefaultK, "result count when a request omits k")
	addEmbeddingFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	provider, err := embed.NewProvider(embeddingConfigFromFlags(cmd))
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	indexDir, _ := cmd.Flags().GetString("index-dir")
	defaultK, _ := cmd.Flags().GetInt("default-k")

	engine := server.NewEngine(provider)
	go func() {
		if err := engine.Load(context.Background(), indexDir); err != nil {
			slog.Error("loading artifacts failed", "dir", indexDir, "error", err)
			os.Exit(1)
		}
	}()

	router := server.NewRouter(engine, defaultK)
	slog.Info("listening", "addr", addr, "index_dir", indexDir)
	return router.Start(addr)
}
