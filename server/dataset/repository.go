package dataset

import (
	"context"
	"time"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/docstore"
	"github.com/gear6io/sift/server/naming"
	"github.com/rs/zerolog"
)

// Repository coordinates the two-tier storage of datasets: one metadata
// document per dataset in a shared collection, plus one dynamically named
// row collection per ingested dataset.
//
// The two tiers are three independent store writes with no transaction
// (metadata insert, bulk row insert, metadata patch). A failure between
// steps leaves a metadata document without collection_name, which callers
// must treat as an incomplete dataset.
type Repository struct {
	store  docstore.Store
	meta   docstore.Collection
	logger zerolog.Logger
}

// NewRepository creates a repository over the given store. metaCollection
// is the name of the dataset metadata collection.
func NewRepository(store docstore.Store, metaCollection string, logger zerolog.Logger) *Repository {
	return &Repository{
		store:  store,
		meta:   store.Collection(metaCollection),
		logger: logger.With().Str("component", "dataset-repository").Logger(),
	}
}

// CreateDatasetWithRows creates the metadata document and the row
// collection for one ingested dataset.
//
// Sequence: insert metadata (timestamps defaulted), derive the row
// collection name from the assigned id, bulk-insert rows unordered,
// then patch the metadata with collection_name and the row count the
// store actually holds. The store count, not the caller's claim, is the
// source of truth for total_rows.
func (r *Repository) CreateDatasetWithRows(ctx context.Context, ds *Dataset, rows []docstore.Document) (*Dataset, error) {
	now := time.Now()
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = now
	}
	if ds.UpdatedAt.IsZero() {
		ds.UpdatedAt = now
	}

	id, err := r.meta.InsertOne(ctx, toDocument(ds))
	if err != nil {
		return nil, errors.New(ErrCreateFailed, "failed to insert dataset metadata", err)
	}

	collName := naming.CollectionName(ds.Name, id)
	rowsColl := r.store.Collection(collName)

	if len(rows) > 0 {
		// Unordered so one bad row does not sink the batch
		if _, err := rowsColl.InsertMany(ctx, rows, false); err != nil {
			// No rollback: the metadata document survives without a
			// collection_name and is observable as incomplete.
			return nil, errors.New(ErrCreateFailed, "failed to insert dataset rows", err).
				AddContext("dataset_id", id).
				AddContext("collection", collName)
		}
	}

	totalRows, err := rowsColl.Count(ctx)
	if err != nil {
		return nil, errors.New(ErrCreateFailed, "failed to count inserted rows", err).AddContext("collection", collName)
	}

	if _, err := r.meta.UpdateByID(ctx, id, docstore.Document{
		"collection_name": collName,
		"total_rows":      totalRows,
		"updated_at":      time.Now(),
	}); err != nil {
		return nil, errors.New(ErrAttachFailed, "failed to attach row collection to dataset", err).AddContext("dataset_id", id)
	}

	r.logger.Info().
		Str("dataset_id", id).
		Str("collection", collName).
		Int64("total_rows", totalRows).
		Msg("Dataset created with row collection")

	return r.reload(ctx, id)
}

// CreateDataset inserts the metadata document only, without a row store.
func (r *Repository) CreateDataset(ctx context.Context, ds *Dataset) (*Dataset, error) {
	now := time.Now()
	if ds.CreatedAt.IsZero() {
		ds.CreatedAt = now
	}
	if ds.UpdatedAt.IsZero() {
		ds.UpdatedAt = now
	}

	id, err := r.meta.InsertOne(ctx, toDocument(ds))
	if err != nil {
		return nil, errors.New(ErrCreateFailed, "failed to insert dataset metadata", err)
	}
	return r.reload(ctx, id)
}

// GetDataset returns the dataset with the given id, or nil when the id is
// malformed or no record exists. Callers cannot distinguish the two.
func (r *Repository) GetDataset(ctx context.Context, id string) (*Dataset, error) {
	if !docstore.IsValidID(id) {
		return nil, nil
	}

	doc, err := r.meta.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return fromDocument(doc), nil
}

// GetDatasets lists datasets in insertion order with offset pagination.
func (r *Repository) GetDatasets(ctx context.Context, skip, limit int64) ([]*Dataset, error) {
	docs, err := r.meta.Find(ctx, docstore.Filter{}, skip, limit)
	if err != nil {
		return nil, errors.New(ErrListFailed, "failed to list datasets", err)
	}

	datasets := make([]*Dataset, len(docs))
	for i, doc := range docs {
		datasets[i] = fromDocument(doc)
	}
	return datasets, nil
}

// UpdateDataset applies a partial update. Unset fields are untouched;
// updated_at is refreshed unless the caller supplied one. A zero-field
// update is a no-op that still returns the current record. Returns nil
// when no record matches.
func (r *Repository) UpdateDataset(ctx context.Context, id string, upd *Update) (*Dataset, error) {
	if !docstore.IsValidID(id) {
		return nil, nil
	}

	fields := updateFields(upd)
	if len(fields) == 0 {
		return r.GetDataset(ctx, id)
	}
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now()
	}

	matched, err := r.meta.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, nil
	}
	return r.GetDataset(ctx, id)
}

// DeleteDataset removes the metadata document only, reporting whether a
// record existed. The backing row collection is left behind; see the
// docstore Drop primitive for callers that want to reclaim it.
func (r *Repository) DeleteDataset(ctx context.Context, id string) (bool, error) {
	if !docstore.IsValidID(id) {
		return false, nil
	}
	return r.meta.DeleteByID(ctx, id)
}

// CountDatasets returns the number of catalog records.
func (r *Repository) CountDatasets(ctx context.Context) (int64, error) {
	return r.meta.Count(ctx)
}

// SearchDatasets returns datasets whose name or description contains the
// query, case-insensitively, OR-combined.
func (r *Repository) SearchDatasets(ctx context.Context, query string) ([]*Dataset, error) {
	docs, err := r.meta.Find(ctx, docstore.Filter{
		Contains: map[string]string{
			"name":        query,
			"description": query,
		},
	}, 0, 0)
	if err != nil {
		return nil, errors.New(ErrSearchFailed, "failed to search datasets", err)
	}

	datasets := make([]*Dataset, len(docs))
	for i, doc := range docs {
		datasets[i] = fromDocument(doc)
	}
	return datasets, nil
}

// GetRows pages through the backing row collection of an ingested dataset.
func (r *Repository) GetRows(ctx context.Context, ds *Dataset, skip, limit int64) ([]docstore.Document, error) {
	if ds.CollectionName == "" {
		return nil, errors.New(ErrRowsUnbacked, "dataset has no row collection attached", nil).AddContext("dataset_id", ds.ID)
	}

	rows, err := r.store.Collection(ds.CollectionName).Find(ctx, docstore.Filter{}, skip, limit)
	if err != nil {
		return nil, errors.New(ErrRowReadFailed, "failed to read dataset rows", err).AddContext("collection", ds.CollectionName)
	}
	return rows, nil
}

// reload fetches a dataset after a write so callers always see what the
// store holds
func (r *Repository) reload(ctx context.Context, id string) (*Dataset, error) {
	ds, err := r.GetDataset(ctx, id)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.New(ErrReloadFailed, "dataset vanished after write", nil).AddContext("dataset_id", id)
	}
	return ds, nil
}

// updateFields flattens the set fields of a partial update into a $set map
func updateFields(upd *Update) docstore.Document {
	fields := docstore.Document{}
	if upd == nil {
		return fields
	}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Source != nil {
		fields["source"] = *upd.Source
	}
	if upd.Columns != nil {
		fields["columns"] = *upd.Columns
	}
	if upd.DataSample != nil {
		fields["data_sample"] = *upd.DataSample
	}
	if upd.TotalRows != nil {
		fields["total_rows"] = *upd.TotalRows
	}
	if upd.FilePath != nil {
		fields["file_path"] = *upd.FilePath
	}
	if upd.CollectionName != nil {
		fields["collection_name"] = *upd.CollectionName
	}
	if upd.UpdatedAt != nil {
		fields["updated_at"] = *upd.UpdatedAt
	}
	return fields
}
