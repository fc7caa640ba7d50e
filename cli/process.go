package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gear6io/sift/server"
	"github.com/gear6io/sift/server/pipeline"
	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <dataset-id>",
	Short: "Apply transformation operations to a dataset",
	Long: `Apply an ordered list of transformation operations to a dataset.

Operations are given as a JSON array, inline or from a file:

  sift process 64f1... --ops '[{"type":"drop_na","columns":["age"]}]'
  sift process 64f1... --ops-file clean.json

Known operation types: drop_na, fill_na, drop_columns, rename_columns.
Unknown types are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

type processOptions struct {
	ops     string
	opsFile string
}

var processOpts = &processOptions{}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processOpts.ops, "ops", "", "operations as an inline JSON array")
	processCmd.Flags().StringVar(&processOpts.opsFile, "ops-file", "", "path to a JSON file holding the operations array")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	raw := processOpts.ops
	if processOpts.opsFile != "" {
		data, err := os.ReadFile(processOpts.opsFile)
		if err != nil {
			d.Error("Failed to read operations file: %v", err)
			return err
		}
		raw = string(data)
	}
	if raw == "" {
		d.Error("No operations given, use --ops or --ops-file")
		return fmt.Errorf("no operations given")
	}

	var ops []pipeline.Operation
	if err := json.Unmarshal([]byte(raw), &ops); err != nil {
		d.Error("Failed to parse operations: %v", err)
		return err
	}

	cfg, err := loadConfigFromFlag(cmd)
	if err != nil {
		d.Error("Failed to load configuration: %v", err)
		return err
	}

	srv, err := server.New(ctx, cfg, loggerOrNop(logger))
	if err != nil {
		d.Error("Failed to connect: %v", err)
		return err
	}
	defer srv.Close(ctx)

	d.Info("Processing dataset %s with %d operation(s)...", args[0], len(ops))
	updated, err := srv.Processor().Process(ctx, args[0], ops)
	if err != nil {
		d.Error("Failed to process dataset: %v", err)
		return err
	}

	d.Success("Dataset processed")
	d.Info("   Columns: %s", strings.Join(updated.Columns, ", "))
	d.Info("   Rows: %d", updated.TotalRows)
	return nil
}
