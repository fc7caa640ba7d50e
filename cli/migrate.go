package cli

import (
	"encoding/json"
	"os"

	"github.com/gear6io/sift/server"
	"github.com/gear6io/sift/server/migrator"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <csv-file>",
	Short: "Bulk-load a CSV file straight into a collection",
	Long: `Bulk-load a CSV file into a named collection, bypassing the dataset
catalog. Headers are normalized and optionally resolved through an
alias table; document ids derive from an id column so reruns skip
already-loaded rows instead of duplicating them.

The alias file is a JSON object mapping canonical field names to the
source column names they may appear under:

  {"patient_id": ["patient_id", "id"], "gender": ["gender", "sex"]}`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrate,
}

type migrateOptions struct {
	collection string
	idColumn   string
	idPrefix   string
	sourceTag  string
	batchSize  int
	aliasFile  string
}

var migrateOpts = &migrateOptions{}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateOpts.collection, "collection", "", "target collection name (required)")
	migrateCmd.Flags().StringVar(&migrateOpts.idColumn, "id-column", "", "canonical field that seeds document ids")
	migrateCmd.Flags().StringVar(&migrateOpts.idPrefix, "id-prefix", "", "prefix for derived document ids")
	migrateCmd.Flags().StringVar(&migrateOpts.sourceTag, "source", "", "source tag stamped on every document")
	migrateCmd.Flags().IntVar(&migrateOpts.batchSize, "batch-size", migrator.DefaultBatchSize, "documents per bulk insert")
	migrateCmd.Flags().StringVar(&migrateOpts.aliasFile, "aliases", "", "path to a JSON alias table")
	migrateCmd.MarkFlagRequired("collection")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d := getDisplayFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	f, err := os.Open(args[0])
	if err != nil {
		d.Error("Failed to open data file: %v", err)
		return err
	}
	defer f.Close()

	var aliases map[string][]string
	if migrateOpts.aliasFile != "" {
		data, err := os.ReadFile(migrateOpts.aliasFile)
		if err != nil {
			d.Error("Failed to read alias file: %v", err)
			return err
		}
		if err := json.Unmarshal(data, &aliases); err != nil {
			d.Error("Failed to parse alias file: %v", err)
			return err
		}
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

	d.Info("Migrating %s into collection %s...", args[0], migrateOpts.collection)
	m := migrator.New(srv.Store(), loggerOrNop(logger))
	report, err := m.Run(ctx, f, migrator.Options{
		Collection: migrateOpts.collection,
		Aliases:    aliases,
		IDColumn:   migrateOpts.idColumn,
		IDPrefix:   migrateOpts.idPrefix,
		SourceTag:  migrateOpts.sourceTag,
		BatchSize:  migrateOpts.batchSize,
	})
	if err != nil {
		d.Error("Migration failed: %v", err)
		return err
	}

	if report.Failed > 0 {
		d.Warning("Migration finished with failures")
	} else {
		d.Success("Migration finished")
	}
	d.Info("   Run ID: %s", report.RunID)
	d.Info("   Inserted: %d / %d", report.Inserted, report.Total)
	if report.Failed > 0 {
		d.Info("   Failed: %d", report.Failed)
	}
	return nil
}
