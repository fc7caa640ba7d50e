package ingest

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/artifacts"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/docstore"
	"github.com/gear6io/sift/server/docstore/memory"
	"github.com/rs/zerolog"
)

// failingArtifacts rejects every write; reads pass through.
type failingArtifacts struct {
	artifacts.Store
}

func (f *failingArtifacts) Write(ctx context.Context, name string, data []byte) error {
	return errors.New(artifacts.ErrWriteFailed, "backend unavailable", nil).AddContext("artifact", name)
}

// attachFailStore wraps the memory engine so the metadata collection
// rejects the file-path attach patch but accepts every other update.
type attachFailStore struct {
	docstore.Store
}

func (s *attachFailStore) Collection(name string) docstore.Collection {
	coll := s.Store.Collection(name)
	if name == "datasets" {
		return &attachFailCollection{Collection: coll}
	}
	return coll
}

type attachFailCollection struct {
	docstore.Collection
}

func (c *attachFailCollection) UpdateByID(ctx context.Context, id string, fields docstore.Document) (bool, error) {
	if _, ok := fields["file_path"]; ok {
		return false, errors.New(docstore.ErrUpdateFailed, "engine rejected the update", nil)
	}
	return c.Collection.UpdateByID(ctx, id, fields)
}

func newTestExtractor(t *testing.T) (*Extractor, *dataset.Repository) {
	t.Helper()
	repo := dataset.NewRepository(memory.NewStore(), "datasets", zerolog.Nop())
	store, err := artifacts.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return NewExtractor(repo, store, zerolog.Nop()), repo
}

func buildCSV(rows int) string {
	var sb strings.Builder
	sb.WriteString("a,b,c\n")
	for i := 0; i < rows; i++ {
		sb.WriteString("1,x,true\n")
	}
	return sb.String()
}

func TestExtractFromCSV(t *testing.T) {
	ctx := context.Background()
	extractor, _ := newTestExtractor(t)

	created, err := extractor.ExtractFromCSV(ctx, []byte(buildCSV(12)), "sales.csv", "Sales Q1", "first quarter", "upload")
	if err != nil {
		t.Fatalf("ExtractFromCSV failed: %v", err)
	}

	if len(created.Columns) != 3 || created.Columns[0] != "a" || created.Columns[1] != "b" || created.Columns[2] != "c" {
		t.Errorf("Expected columns [a b c], got %v", created.Columns)
	}
	if created.TotalRows != 12 {
		t.Errorf("Expected total_rows 12, got %d", created.TotalRows)
	}
	if len(created.DataSample) != 10 {
		t.Errorf("Expected preview sample of %d rows, got %d", SampleSize, len(created.DataSample))
	}

	pattern := regexp.MustCompile(`^ds_sales_q1_[0-9a-f]{8}$`)
	if !pattern.MatchString(created.CollectionName) {
		t.Errorf("Expected collection_name matching %s, got %q", pattern, created.CollectionName)
	}

	if created.FilePath == "" {
		t.Error("Expected file path to be attached after successful artifact write")
	}
	if !strings.HasSuffix(created.FilePath, "_sales.csv") {
		t.Errorf("Expected file path ending in '_sales.csv', got %q", created.FilePath)
	}
}

func TestExtractFromCSVSampleSmallerThanPreview(t *testing.T) {
	ctx := context.Background()
	extractor, _ := newTestExtractor(t)

	created, err := extractor.ExtractFromCSV(ctx, []byte(buildCSV(3)), "tiny.csv", "tiny", "", "")
	if err != nil {
		t.Fatalf("ExtractFromCSV failed: %v", err)
	}

	if len(created.DataSample) != 3 {
		t.Errorf("Expected sample length min(preview, rows) = 3, got %d", len(created.DataSample))
	}
}

func TestExtractFromCSVArtifactWriteFailure(t *testing.T) {
	ctx := context.Background()
	repo := dataset.NewRepository(memory.NewStore(), "datasets", zerolog.Nop())
	store, err := artifacts.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	extractor := NewExtractor(repo, &failingArtifacts{Store: store}, zerolog.Nop())

	// The artifact write is a best-effort trace: its failure must not
	// sink the ingestion, only leave the record without a file reference
	created, err := extractor.ExtractFromCSV(ctx, []byte(buildCSV(12)), "sales.csv", "Sales Q1", "", "upload")
	if err != nil {
		t.Fatalf("ExtractFromCSV failed: %v", err)
	}
	if created.FilePath != "" {
		t.Errorf("Expected no file path after artifact write failure, got %q", created.FilePath)
	}
	if created.TotalRows != 12 || created.CollectionName == "" {
		t.Errorf("Expected a complete dataset record otherwise, got %+v", created)
	}
}

func TestExtractFromCSVFilePathAttachFailure(t *testing.T) {
	ctx := context.Background()
	repo := dataset.NewRepository(&attachFailStore{Store: memory.NewStore()}, "datasets", zerolog.Nop())
	store, err := artifacts.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	extractor := NewExtractor(repo, store, zerolog.Nop())

	// The follow-up attach is also best-effort: the dataset is returned
	// complete except for the file reference
	created, err := extractor.ExtractFromCSV(ctx, []byte(buildCSV(12)), "sales.csv", "Sales Q1", "", "upload")
	if err != nil {
		t.Fatalf("ExtractFromCSV failed: %v", err)
	}
	if created.FilePath != "" {
		t.Errorf("Expected no file path after attach failure, got %q", created.FilePath)
	}
	if created.TotalRows != 12 || created.CollectionName == "" {
		t.Errorf("Expected a complete dataset record otherwise, got %+v", created)
	}
}

func TestExtractFromCSVMalformed(t *testing.T) {
	ctx := context.Background()
	extractor, repo := newTestExtractor(t)

	_, err := extractor.ExtractFromCSV(ctx, []byte("a,b\n\"broken,1\n"), "bad.csv", "bad", "", "")
	if err == nil {
		t.Fatal("Expected error for malformed CSV")
	}
	if !errors.IsCode(err, ErrInvalidCSV) {
		t.Errorf("Expected ingest.invalid_csv, got %s", errors.GetCode(err))
	}

	// Parse failure happens before any metadata write
	count, err := repo.CountDatasets(ctx)
	if err != nil {
		t.Fatalf("CountDatasets failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Malformed CSV must not create a dataset, found %d", count)
	}
}

func TestExtractFromKaggle(t *testing.T) {
	ctx := context.Background()
	extractor, _ := newTestExtractor(t)

	_, err := extractor.ExtractFromKaggle(ctx, "https://kaggle.com/some/dataset", "x", "")
	if err == nil {
		t.Fatal("Expected kaggle extraction to be unimplemented")
	}
	if !errors.IsCode(err, ErrKaggleNotImplemented) {
		t.Errorf("Expected ingest.kaggle_not_implemented, got %s", errors.GetCode(err))
	}
}
