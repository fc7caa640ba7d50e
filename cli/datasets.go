package cli

import (
	"fmt"

	"github.com/gear6io/sift/display"
	"github.com/gear6io/sift/server"
	"github.com/gear6io/sift/server/dataset"
	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect the dataset catalog",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	RunE:  runDatasetsList,
}

var datasetsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search datasets by name or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsSearch,
}

var datasetsDeleteCmd = &cobra.Command{
	Use:   "delete <dataset-id>",
	Short: "Delete a dataset's metadata record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsDelete,
}

type datasetsListOptions struct {
	skip  int64
	limit int64
}

var datasetsListOpts = &datasetsListOptions{}

func init() {
	rootCmd.AddCommand(datasetsCmd)
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsSearchCmd)
	datasetsCmd.AddCommand(datasetsDeleteCmd)

	datasetsListCmd.Flags().Int64Var(&datasetsListOpts.skip, "skip", 0, "number of datasets to skip")
	datasetsListCmd.Flags().Int64Var(&datasetsListOpts.limit, "limit", 0, "maximum datasets to return (0 = all)")
}

func runDatasetsList(cmd *cobra.Command, args []string) error {
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
		d.Error("Failed to connect: %v", err)
		return err
	}
	defer srv.Close(ctx)

	datasets, err := srv.Repository().GetDatasets(ctx, datasetsListOpts.skip, datasetsListOpts.limit)
	if err != nil {
		d.Error("Failed to list datasets: %v", err)
		return err
	}

	return renderDatasets(d, datasets, "Datasets")
}

func runDatasetsSearch(cmd *cobra.Command, args []string) error {
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
		d.Error("Failed to connect: %v", err)
		return err
	}
	defer srv.Close(ctx)

	datasets, err := srv.Repository().SearchDatasets(ctx, args[0])
	if err != nil {
		d.Error("Failed to search datasets: %v", err)
		return err
	}

	return renderDatasets(d, datasets, fmt.Sprintf("Datasets matching %q", args[0]))
}

func runDatasetsDelete(cmd *cobra.Command, args []string) error {
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
		d.Error("Failed to connect: %v", err)
		return err
	}
	defer srv.Close(ctx)

	deleted, err := srv.Repository().DeleteDataset(ctx, args[0])
	if err != nil {
		d.Error("Failed to delete dataset: %v", err)
		return err
	}
	if !deleted {
		d.Warning("No dataset found with id %s", args[0])
		return nil
	}

	d.Success("Dataset %s deleted", args[0])
	return nil
}

func renderDatasets(d display.Display, datasets []*dataset.Dataset, title string) error {
	if len(datasets) == 0 {
		d.Info("No datasets found")
		return nil
	}

	rows := make([][]string, 0, len(datasets))
	for _, ds := range datasets {
		rows = append(rows, []string{
			ds.ID,
			ds.Name,
			fmt.Sprintf("%d", ds.TotalRows),
			fmt.Sprintf("%d", len(ds.Columns)),
			ds.CollectionName,
			ds.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return d.Table(display.TableData{
		Title:   fmt.Sprintf("%s (%d)", title, len(datasets)),
		Headers: []string{"ID", "Name", "Rows", "Columns", "Collection", "Created"},
		Rows:    rows,
	})
}
