// Package ingest turns uploaded CSV files into catalog records plus a
// backing row collection.
package ingest

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"runtime"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/artifacts"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/docstore"
	"github.com/gear6io/sift/server/table"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// SampleSize is the number of rows kept in the metadata preview sample.
const SampleSize = 10

// uploadDir is where raw uploaded artifacts are stored.
const uploadDir = "uploads"

// Extractor parses uploaded files and drives the repository to persist
// both storage tiers. Parsing is CPU bound, so it runs off the caller's
// path on a worker bounded by a CPU-wide semaphore.
type Extractor struct {
	repo      *dataset.Repository
	artifacts artifacts.Store
	logger    zerolog.Logger
	sem       *semaphore.Weighted
}

// NewExtractor creates an extractor over the given repository and
// artifact store.
func NewExtractor(repo *dataset.Repository, store artifacts.Store, logger zerolog.Logger) *Extractor {
	return &Extractor{
		repo:      repo,
		artifacts: store,
		logger:    logger.With().Str("component", "ingest").Logger(),
		sem:       semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// ExtractFromCSV ingests one uploaded CSV file.
//
// The two-tier write is a best-effort saga: artifact write (optional
// trace), metadata insert, bulk row insert, metadata patch. Only the
// parse and the repository create are fatal; the artifact write and the
// follow-up file-path attach are logged and swallowed.
func (e *Extractor) ExtractFromCSV(ctx context.Context, content []byte, filename, name, description, source string) (*dataset.Dataset, error) {
	artifactName := path.Join(uploadDir, uuid.NewString()+"_"+filepath.Base(filename))
	if err := e.artifacts.Write(ctx, artifactName, content); err != nil {
		e.logger.Warn().Err(err).Str("artifact", artifactName).Msg("Could not persist uploaded file, dataset will have no file reference")
		artifactName = ""
	}

	tbl, err := e.parseTable(ctx, content)
	if err != nil {
		return nil, err
	}

	rows := make([]docstore.Document, len(tbl.Rows))
	for i, row := range tbl.Rows {
		rows[i] = row
	}

	meta := &dataset.Dataset{
		Name:        name,
		Description: description,
		Source:      source,
		Columns:     tbl.Columns,
		DataSample:  tbl.Sample(SampleSize),
		TotalRows:   tbl.TotalRows(),
	}

	created, err := e.repo.CreateDatasetWithRows(ctx, meta, rows)
	if err != nil {
		return nil, errors.New(ErrDatasetCreationFailed, "failed to persist dataset", err).AddContext("name", name)
	}

	if artifactName != "" {
		// Best-effort: the dataset is usable without its file reference
		updated, err := e.repo.UpdateDataset(ctx, created.ID, &dataset.Update{FilePath: &artifactName})
		if err != nil {
			e.logger.Warn().Err(err).Str("dataset_id", created.ID).Msg("Could not attach file path to dataset")
		} else if updated != nil {
			created = updated
		}
	}

	e.logger.Info().
		Str("dataset_id", created.ID).
		Str("collection", created.CollectionName).
		Int64("total_rows", created.TotalRows).
		Msgf("Dataset '%s' created", name)

	return created, nil
}

// ExtractFromKaggle is a placeholder kept for interface completeness.
func (e *Extractor) ExtractFromKaggle(ctx context.Context, datasetURL, name, description string) (*dataset.Dataset, error) {
	return nil, errors.New(ErrKaggleNotImplemented, "kaggle import is not implemented", nil).AddContext("url", datasetURL)
}

// parseTable runs the CSV parse on a worker goroutine gated by the CPU
// semaphore so slow parses do not monopolize request handling.
func (e *Extractor) parseTable(ctx context.Context, content []byte) (*table.Table, error) {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.New(ErrParseCanceled, "parse canceled while waiting for a worker", err)
	}

	type result struct {
		tbl *table.Table
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer e.sem.Release(1)
		tbl, err := table.ReadCSV(bytes.NewReader(content))
		done <- result{tbl: tbl, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, errors.New(ErrInvalidCSV, "error reading CSV file", res.err)
		}
		return res.tbl, nil
	case <-ctx.Done():
		return nil, errors.New(ErrParseCanceled, "parse canceled", ctx.Err())
	}
}
