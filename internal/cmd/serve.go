package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dsaview/internal/backend"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <dir>",
	Short: "Serve a local directory as the search/file backend",
	Long: `Index a directory of solutions and serve /search, /filter and /file over
HTTP, plus /healthz and Prometheus /metrics.

Files are categorised by their top-level directory (Arrays/, graphs/,
binary-search/, ...). An optional catalog.yaml at the root overrides
names and categories or hides entries.

Examples:
  dsaview serve ./solutions
  dsaview serve ./solutions --addr 127.0.0.1:9000`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()
	logger := a.logger.Named("backend")

	ctx, cancel := signalContext()
	defer cancel()

	catalog, err := backend.Load(ctx, appFs, args[0], logger)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.String("root", args[0]), zap.Int("entries", catalog.Len()))
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d solutions from %s on %s\n", catalog.Len(), args[0], serveAddr)

	return backend.NewServer(catalog, logger).Run(ctx, serveAddr)
}
