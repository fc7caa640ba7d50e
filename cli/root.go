package cli

import (
	"context"

	"github.com/gear6io/sift/display"
	"github.com/gear6io/sift/server/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "A dataset ingestion and cleaning engine",
	Long: `Sift ingests tabular files into a document store and cleans them
through ordered transformation operations.

Uploaded CSVs become a metadata record plus a dedicated row collection;
transformations re-read the original file, apply the requested
operations and rewrite the record's summary.`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteWithContext runs the root command with context containing display and logger
func ExecuteWithContext(ctx context.Context) error {
	rootCmd.SetContext(ctx)

	if logger := getLoggerFromContext(ctx); logger != nil {
		logger.Info().Str("cmd", "root").Msg("Executing root command")
	}

	return rootCmd.Execute()
}

type contextKey string

const loggerKey contextKey = "logger"

// WithLogger attaches the CLI logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// getLoggerFromContext retrieves the logger from context
func getLoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return &logger
	}
	return nil
}

// getDisplayFromContext retrieves the display instance from context
func getDisplayFromContext(ctx context.Context) display.Display {
	return display.GetDisplayOrDefault(ctx)
}

// loggerOrNop unwraps a context logger, or gives a disabled one.
func loggerOrNop(logger *zerolog.Logger) zerolog.Logger {
	if logger != nil {
		return *logger
	}
	return zerolog.Nop()
}

// loadConfigFromFlag reads the configured YAML file, falling back to
// defaults when the flag points at nothing.
func loadConfigFromFlag(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.LoadDefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("config", "", "path to a sift config file")
}
