package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gear6io/sift/server"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <csv-file>",
	Short: "Ingest a CSV file into the catalog",
	Long: `Ingest a CSV file from disk into the dataset catalog.

The file becomes a metadata record plus a dedicated row collection,
exactly as an HTTP upload would.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

type ingestOptions struct {
	name        string
	description string
	source      string
}

var ingestOpts = &ingestOptions{}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestOpts.name, "name", "", "dataset name (default: file name)")
	ingestCmd.Flags().StringVar(&ingestOpts.description, "description", "", "dataset description")
	ingestCmd.Flags().StringVar(&ingestOpts.source, "source", "upload", "dataset source tag")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	dataFile := args[0]
	content, err := os.ReadFile(dataFile)
	if err != nil {
		d.Error("Failed to read data file: %v", err)
		return err
	}

	name := ingestOpts.name
	if name == "" {
		base := filepath.Base(dataFile)
		name = strings.TrimSuffix(base, filepath.Ext(base))
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

	d.Info("Ingesting %s...", dataFile)
	created, err := srv.Extractor().ExtractFromCSV(ctx, content, filepath.Base(dataFile), name, ingestOpts.description, ingestOpts.source)
	if err != nil {
		d.Error("Failed to ingest file: %v", err)
		return err
	}

	d.Success("Dataset created")
	d.Info("   ID: %s", created.ID)
	d.Info("   Collection: %s", created.CollectionName)
	d.Info("   Columns: %s", strings.Join(created.Columns, ", "))
	d.Info("   Rows: %s", fmt.Sprintf("%d", created.TotalRows))
	return nil
}
