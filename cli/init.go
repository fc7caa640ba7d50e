package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gear6io/sift/server/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new sift project",
	Long: `Initialize a new sift project directory with a default configuration.

This command creates the target directory (default: the current one)
and writes:
- sift.yml configuration file
- data/ artifact storage directory
- logs/ log directory

Edit sift.yml afterwards to point at your MongoDB instance or switch
the in-memory engines on.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		d.Error("Failed to get absolute path: %v", err)
		return err
	}
	if logger != nil {
		logger.Info().Str("cmd", "init").Str("target_dir", absPath).Msg("Initializing project")
	}

	for _, sub := range []string{"", "data", "logs"} {
		if err := os.MkdirAll(filepath.Join(absPath, sub), 0755); err != nil {
			d.Error("Failed to create directory: %v", err)
			return err
		}
	}

	configPath := filepath.Join(absPath, "sift.yml")
	if _, err := os.Stat(configPath); err == nil {
		d.Error("Configuration already exists: %s", configPath)
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	cfg := config.LoadDefaultConfig()
	cfg.Storage.DataPath = filepath.Join(absPath, "data")
	cfg.Log.FilePath = filepath.Join(absPath, "logs", "sift-server.log")
	if err := config.SaveConfig(cfg, configPath); err != nil {
		d.Error("Failed to write configuration: %v", err)
		return err
	}

	d.Success("Initialized sift project in %s", absPath)
	d.Info("Configuration: %s", configPath)
	d.Info("Run 'sift serve --config %s' to start the server", configPath)
	return nil
}
