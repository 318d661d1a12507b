package cli

import (
	"github.com/spf13/cobra"

	"github.com/JuanMendez11/rag-fastapi-challenge/internal/adapters/driving/httpapi"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/connectors/filesystem"
	"github.com/JuanMendez11/rag-fastapi-challenge/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the JSON API server.

Endpoints:
  POST /upload               stage a document
  POST /generate-embeddings  chunk, embed and index a staged document
  POST /search               semantic search over indexed chunks
  POST /ask                  answer a question from the indexed corpus
  GET  /healthz              liveness check

When [server].watch_dir is configured, .txt and .md files dropped into
that directory are ingested automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingest: a.ingest,
		Search: a.search,
		Answer: a.answer,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if a.cfg.Server.WatchDir != "" {
		watcher := filesystem.NewWatcher(a.cfg.Server.WatchDir, a.ingest)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("Drop directory watcher stopped: %v", err)
			}
		}()
	}

	addr := serveAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	return server.Run(ctx, addr)
}
