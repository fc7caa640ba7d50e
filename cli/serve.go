package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gear6io/sift/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sift server",
	Long: `Run the sift HTTP server with the configured document store and
artifact storage engines. The server stays up until interrupted.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	cfg, err := loadConfigFromFlag(cmd)
	if err != nil {
		d.Error("Failed to load configuration: %v", err)
		return err
	}

	srv, err := server.New(ctx, cfg, loggerOrNop(logger))
	if err != nil {
		d.Error("Failed to create server: %v", err)
		return err
	}

	if err := srv.Start(ctx); err != nil {
		d.Error("Failed to start server: %v", err)
		return err
	}
	d.Success("Server listening on port %d", cfg.GetHTTPPort())
	d.Info("Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		d.Info("Received %s, shutting down", sig)
	case <-ctx.Done():
	}

	return srv.Shutdown()
}
