package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/artifacts"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/docstore/memory"
	"github.com/gear6io/sift/server/ingest"
	"github.com/rs/zerolog"
)

// derivedWriteFailStore accepts upload writes but rejects derived
// (processed) artifacts.
type derivedWriteFailStore struct {
	artifacts.Store
}

func (s *derivedWriteFailStore) Write(ctx context.Context, name string, data []byte) error {
	if strings.HasPrefix(name, "processed/") {
		return errors.New(artifacts.ErrWriteFailed, "backend unavailable", nil).AddContext("artifact", name)
	}
	return s.Store.Write(ctx, name, data)
}

func newTestProcessor(t *testing.T) (*Processor, *ingest.Extractor, *dataset.Repository) {
	t.Helper()
	repo := dataset.NewRepository(memory.NewStore(), "datasets", zerolog.Nop())
	store, err := artifacts.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return NewProcessor(repo, store, zerolog.Nop()),
		ingest.NewExtractor(repo, store, zerolog.Nop()),
		repo
}

// 12 rows with two missing values in column a and one in column b.
func buildCSV() string {
	var sb strings.Builder
	sb.WriteString("a,b,c\n")
	for i := 0; i < 9; i++ {
		sb.WriteString("1,x,true\n")
	}
	sb.WriteString("NA,x,true\n")
	sb.WriteString(",x,true\n")
	sb.WriteString("2,null,false\n")
	return sb.String()
}

func ingestFixture(t *testing.T, extractor *ingest.Extractor) *dataset.Dataset {
	t.Helper()
	created, err := extractor.ExtractFromCSV(context.Background(), []byte(buildCSV()), "sales.csv", "Sales Q1", "", "upload")
	if err != nil {
		t.Fatalf("ExtractFromCSV failed: %v", err)
	}
	return created
}

func TestProcessDropNAAndRename(t *testing.T) {
	ctx := context.Background()
	processor, extractor, _ := newTestProcessor(t)
	created := ingestFixture(t, extractor)

	updated, err := processor.Process(ctx, created.ID, []Operation{
		{Type: OpDropNA, Columns: []string{"a"}},
		{Type: OpRenameColumns, RenameDict: map[string]string{"a": "alpha"}},
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if updated.TotalRows != 10 {
		t.Errorf("Expected 10 rows after dropping 2 missing in 'a', got %d", updated.TotalRows)
	}
	sawAlpha := false
	for _, col := range updated.Columns {
		if col == "a" {
			t.Errorf("Expected 'a' renamed away, got columns %v", updated.Columns)
		}
		if col == "alpha" {
			sawAlpha = true
		}
	}
	if !sawAlpha {
		t.Errorf("Expected column 'alpha', got %v", updated.Columns)
	}
	if len(updated.DataSample) != 10 {
		t.Errorf("Expected sample of 10 rows, got %d", len(updated.DataSample))
	}
	for _, row := range updated.DataSample {
		if _, ok := row["alpha"]; !ok {
			t.Errorf("Expected sample rows keyed by renamed column, got %v", row)
			break
		}
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("Expected updated_at to advance past %v, got %v", created.UpdatedAt, updated.UpdatedAt)
	}
}

func TestProcessDropNAAllColumns(t *testing.T) {
	ctx := context.Background()
	processor, extractor, _ := newTestProcessor(t)
	created := ingestFixture(t, extractor)

	// No columns named: a row with a missing value anywhere is dropped.
	updated, err := processor.Process(ctx, created.ID, []Operation{{Type: OpDropNA}})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if updated.TotalRows != 9 {
		t.Errorf("Expected 9 complete rows, got %d", updated.TotalRows)
	}
}

func TestProcessFillNAAndDropColumns(t *testing.T) {
	ctx := context.Background()
	processor, extractor, _ := newTestProcessor(t)
	created := ingestFixture(t, extractor)

	updated, err := processor.Process(ctx, created.ID, []Operation{
		{Type: OpFillNA, Value: float64(0), Columns: []string{"a"}},
		{Type: OpDropColumns, Columns: []string{"c", "no_such_column"}},
	})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(updated.Columns) != 2 || updated.Columns[0] != "a" || updated.Columns[1] != "b" {
		t.Errorf("Expected columns [a b], got %v", updated.Columns)
	}
	if updated.TotalRows != 12 {
		t.Errorf("fill_na must not change the row count, got %d", updated.TotalRows)
	}
	for _, row := range updated.DataSample {
		if row["a"] == nil {
			t.Errorf("Expected missing 'a' values filled, got %v", row)
			break
		}
		if _, ok := row["c"]; ok {
			t.Errorf("Expected 'c' dropped from sample rows, got %v", row)
			break
		}
	}
}

func TestProcessUnknownOperationSkipped(t *testing.T) {
	ctx := context.Background()
	processor, extractor, _ := newTestProcessor(t)
	created := ingestFixture(t, extractor)

	updated, err := processor.Process(ctx, created.ID, []Operation{{Type: "frobnicate"}})
	if err != nil {
		t.Fatalf("Unknown operation must be skipped, not fail: %v", err)
	}
	if updated.TotalRows != created.TotalRows {
		t.Errorf("Expected table unchanged, got %d rows", updated.TotalRows)
	}
	if len(updated.Columns) != 3 {
		t.Errorf("Expected table unchanged, got columns %v", updated.Columns)
	}
}

func TestProcessDerivedArtifactWriteFailure(t *testing.T) {
	ctx := context.Background()
	repo := dataset.NewRepository(memory.NewStore(), "datasets", zerolog.Nop())
	store, err := artifacts.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	extractor := ingest.NewExtractor(repo, store, zerolog.Nop())
	processor := NewProcessor(repo, &derivedWriteFailStore{Store: store}, zerolog.Nop())

	created := ingestFixture(t, extractor)

	_, err = processor.Process(ctx, created.ID, []Operation{{Type: OpDropNA, Columns: []string{"a"}}})
	if err == nil {
		t.Fatal("Expected derived artifact write failure to fail the call")
	}
	if !errors.IsCode(err, ErrArtifactFailed) {
		t.Errorf("Expected pipeline.artifact_failed, got %s", errors.GetCode(err))
	}

	// The failure happens before the metadata patch
	current, err := repo.GetDataset(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDataset failed: %v", err)
	}
	if current.TotalRows != created.TotalRows {
		t.Errorf("Expected metadata untouched after failed write, got total_rows %d", current.TotalRows)
	}
	if current.UpdatedAt != created.UpdatedAt {
		t.Errorf("Expected updated_at untouched, got %v", current.UpdatedAt)
	}
}

func TestProcessDatasetNotFound(t *testing.T) {
	ctx := context.Background()
	processor, _, _ := newTestProcessor(t)

	_, err := processor.Process(ctx, "64f1b2c3d4e5f6a7b8c9d0e1", nil)
	if err == nil {
		t.Fatal("Expected error for missing dataset")
	}
	if !errors.IsCode(err, ErrDatasetNotFound) {
		t.Errorf("Expected pipeline.dataset_not_found, got %s", errors.GetCode(err))
	}

	// Malformed ids resolve to not-found as well
	_, err = processor.Process(ctx, "not-an-id", nil)
	if !errors.IsCode(err, ErrDatasetNotFound) {
		t.Errorf("Expected pipeline.dataset_not_found for malformed id, got %s", errors.GetCode(err))
	}
}

func TestProcessFileMissing(t *testing.T) {
	ctx := context.Background()
	processor, _, repo := newTestProcessor(t)

	// Incomplete record with no file reference at all
	created, err := repo.CreateDataset(ctx, &dataset.Dataset{Name: "orphan"})
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	_, err = processor.Process(ctx, created.ID, nil)
	if !errors.IsCode(err, ErrFileNotFound) {
		t.Errorf("Expected pipeline.file_not_found, got %s", errors.GetCode(err))
	}

	// Record whose file reference points at nothing
	missing := "uploads/gone.csv"
	if _, err := repo.UpdateDataset(ctx, created.ID, &dataset.Update{FilePath: &missing}); err != nil {
		t.Fatalf("UpdateDataset failed: %v", err)
	}
	_, err = processor.Process(ctx, created.ID, nil)
	if !errors.IsCode(err, ErrFileNotFound) {
		t.Errorf("Expected pipeline.file_not_found for dangling path, got %s", errors.GetCode(err))
	}
}
