package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"runtime"
	"time"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/artifacts"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/ingest"
	"github.com/gear6io/sift/server/table"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// processedDir is where transformed artifacts are stored.
const processedDir = "processed"

// Processor applies ordered transformation operations to a dataset.
//
// The source of truth for a transform is the original uploaded artifact,
// not the row collection: every run re-reads the raw file, applies the
// full operation list and overwrites the metadata summary. Parsing and
// transforming are CPU bound and run under the same CPU-wide semaphore
// as ingestion.
type Processor struct {
	repo      *dataset.Repository
	artifacts artifacts.Store
	logger    zerolog.Logger
	sem       *semaphore.Weighted
}

// NewProcessor creates a processor over the given repository and
// artifact store.
func NewProcessor(repo *dataset.Repository, store artifacts.Store, logger zerolog.Logger) *Processor {
	return &Processor{
		repo:      repo,
		artifacts: store,
		logger:    logger.With().Str("component", "pipeline").Logger(),
		sem:       semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Process runs the given operations against the dataset's original file
// and patches the metadata record with the transformed summary.
//
// Unknown operation tags are skipped with a warning; a request made of
// only unknown tags still succeeds and rewrites the record from the
// unmodified table.
func (p *Processor) Process(ctx context.Context, id string, ops []Operation) (*dataset.Dataset, error) {
	ds, err := p.repo.GetDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.New(ErrDatasetNotFound, "dataset not found", nil).AddContext("dataset_id", id)
	}
	if ds.FilePath == "" {
		return nil, errors.New(ErrFileNotFound, "dataset has no stored file to process", nil).AddContext("dataset_id", id)
	}

	content, err := p.artifacts.Read(ctx, ds.FilePath)
	if err != nil {
		if errors.IsCode(err, artifacts.ErrNotFound) {
			return nil, errors.New(ErrFileNotFound, "dataset file is missing from storage", err).
				AddContext("dataset_id", id).
				AddContext("file_path", ds.FilePath)
		}
		return nil, err
	}

	tbl, err := p.transform(ctx, content, ops)
	if err != nil {
		return nil, err
	}

	artifactName, err := p.writeProcessed(ctx, id, tbl)
	if err != nil {
		return nil, err
	}

	columns := tbl.Columns
	sample := tbl.Sample(ingest.SampleSize)
	totalRows := tbl.TotalRows()
	now := time.Now().UTC()
	upd := &dataset.Update{
		Columns:    &columns,
		DataSample: &sample,
		TotalRows:  &totalRows,
		UpdatedAt:  &now,
	}

	updated, err := p.repo.UpdateDataset(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Deleted between load and patch
		return nil, errors.New(ErrUpdateLostRecord, "dataset disappeared while processing", nil).AddContext("dataset_id", id)
	}

	p.logger.Info().
		Str("dataset_id", id).
		Int("operations", len(ops)).
		Int64("total_rows", updated.TotalRows).
		Str("artifact", artifactName).
		Msg("Dataset processed")

	return updated, nil
}

// transform parses the raw file and applies the operations left to
// right on a worker gated by the CPU semaphore.
func (p *Processor) transform(ctx context.Context, content []byte, ops []Operation) (*table.Table, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.New(ErrProcessCanceled, "processing canceled while waiting for a worker", err)
	}

	type result struct {
		tbl *table.Table
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer p.sem.Release(1)
		tbl, err := table.ReadCSV(bytes.NewReader(content))
		if err != nil {
			done <- result{err: errors.New(ErrFileParseFailed, "error reading stored CSV file", err)}
			return
		}
		done <- result{tbl: p.apply(tbl, ops)}
	}()

	select {
	case res := <-done:
		return res.tbl, res.err
	case <-ctx.Done():
		return nil, errors.New(ErrProcessCanceled, "processing canceled", ctx.Err())
	}
}

// apply interprets the operation list in order. Unknown tags are
// logged and skipped so one bad entry never aborts the run.
func (p *Processor) apply(tbl *table.Table, ops []Operation) *table.Table {
	for _, op := range ops {
		switch op.Type {
		case OpDropNA:
			tbl = tbl.DropNA(op.Columns)
		case OpFillNA:
			tbl = tbl.FillNA(op.Value, op.Columns)
		case OpDropColumns:
			tbl = tbl.DropColumns(op.Columns)
		case OpRenameColumns:
			tbl = tbl.RenameColumns(op.RenameDict)
		default:
			p.logger.Warn().Str("operation", op.Type).Msg("Unknown operation type, skipping")
		}
	}
	return tbl
}

// writeProcessed stores the transformed table as a derived artifact
// next to (never over) the original. The processed file is part of the
// operation's product, so a failed write fails the call before any
// metadata is touched.
func (p *Processor) writeProcessed(ctx context.Context, id string, tbl *table.Table) (string, error) {
	name := path.Join(processedDir, fmt.Sprintf("processed_%s_%s.csv", id, time.Now().UTC().Format("20060102150405")))

	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		return "", errors.New(ErrArtifactFailed, "could not serialize processed table", err).AddContext("dataset_id", id)
	}
	if err := p.artifacts.Write(ctx, name, buf.Bytes()); err != nil {
		return "", errors.New(ErrArtifactFailed, "could not persist processed file", err).AddContext("artifact", name)
	}
	return name, nil
}
