// Package migrator is a one-shot CSV to collection bulk loader. Unlike
// the interactive ingestion path it writes straight into a named
// collection with caller-derived document ids, so reruns against the
// same data surface as duplicate-key failures instead of doubled rows.
package migrator

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/docstore"
	"github.com/gear6io/sift/server/table"
	"github.com/gear6io/sift/utils"
	"github.com/rs/zerolog"
)

// DefaultBatchSize is how many documents go into one unordered bulk
// insert when Options does not say otherwise.
const DefaultBatchSize = 5000

// Options configures one migration run.
type Options struct {
	// Collection is the target collection name. Required.
	Collection string

	// Aliases maps each canonical output field to the source column
	// names it may appear under, tried in order. Both sides are
	// compared after header normalization. When nil, every source
	// column maps to its own normalized name.
	Aliases map[string][]string

	// IDColumn is the canonical field whose value seeds the document
	// id. When empty, or when the column is unresolved, the row index
	// seeds the id instead.
	IDColumn string

	// IDPrefix is prepended to the id seed, e.g. "PAT" gives "PAT-17".
	IDPrefix string

	// SourceTag is stamped on every document under "source".
	SourceTag string

	// RequiredColumns lists canonical fields that are expected to
	// resolve; unresolved ones are logged, never fatal.
	RequiredColumns []string

	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int
}

// Report summarizes one migration run.
type Report struct {
	RunID    string            `json:"run_id"`
	Total    int               `json:"total"`
	Inserted int64             `json:"inserted"`
	Failed   int64             `json:"failed"`
	Resolved map[string]string `json:"resolved"`
}

// Migrator loads CSV files into document store collections.
type Migrator struct {
	store  docstore.Store
	logger zerolog.Logger
}

// New creates a migrator over the given store.
func New(store docstore.Store, logger zerolog.Logger) *Migrator {
	return &Migrator{
		store:  store,
		logger: logger.With().Str("component", "migrator").Logger(),
	}
}

// Run reads one CSV stream and bulk-inserts its rows into the target
// collection in unordered batches. Individual document failures
// (duplicate ids on a rerun, typically) are counted and skipped, never
// fatal: the report says how many made it in.
func (m *Migrator) Run(ctx context.Context, r io.Reader, opts Options) (*Report, error) {
	if opts.Collection == "" {
		return nil, errors.New(ErrMissingCollection, "no target collection given", nil)
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	tbl, err := table.ReadCSV(r)
	if err != nil {
		return nil, errors.New(ErrReadFailed, "error reading CSV file", err)
	}

	runID := utils.GenerateULIDString()
	logger := m.logger.With().Str("run_id", runID).Str("collection", opts.Collection).Logger()
	logger.Info().Strs("columns", tbl.Columns).Int("rows", len(tbl.Rows)).Msg("Starting migration")

	aliases := opts.Aliases
	if aliases == nil {
		aliases = identityAliases(tbl.Columns)
	}
	resolved := resolveColumns(tbl.Columns, aliases)
	for _, key := range opts.RequiredColumns {
		if resolved[key] == "" {
			logger.Warn().Str("field", key).Msg("Expected column not found, values will be null")
		}
	}

	now := time.Now().UTC()
	docs := make([]docstore.Document, len(tbl.Rows))
	for i, row := range tbl.Rows {
		docs[i] = buildDoc(row, i, resolved, opts, runID, now)
	}

	report := &Report{RunID: runID, Total: len(docs), Resolved: resolved}
	coll := m.store.Collection(opts.Collection)
	for start := 0; start < len(docs); start += batchSize {
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		inserted, err := coll.InsertMany(ctx, batch, false)
		report.Inserted += inserted
		if err != nil {
			if ctx.Err() != nil {
				return report, err
			}
			logger.Warn().Err(err).Int("batch_start", start).Msg("Bulk insert batch failed")
		} else if inserted < int64(len(batch)) {
			logger.Warn().Int64("skipped", int64(len(batch))-inserted).Int("batch_start", start).Msg("Bulk insert skipped documents")
		}
		logger.Info().Int64("inserted_so_far", report.Inserted).Msg("Batch done")
	}

	report.Failed = int64(report.Total) - report.Inserted
	logger.Info().Int64("inserted", report.Inserted).Int64("failed", report.Failed).Msg("Migration finished")
	return report, nil
}

// normalizeHeader folds a source column name to the comparison form:
// trimmed, lower-cased, spaces as underscores.
func normalizeHeader(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// identityAliases maps every source column to its own normalized name.
func identityAliases(columns []string) map[string][]string {
	aliases := make(map[string][]string, len(columns))
	for _, col := range columns {
		aliases[normalizeHeader(col)] = []string{col}
	}
	return aliases
}

// resolveColumns maps each canonical field to the first alias present
// in the source header, or "" when none is.
func resolveColumns(columns []string, aliases map[string][]string) map[string]string {
	present := make(map[string]string, len(columns))
	for _, col := range columns {
		norm := normalizeHeader(col)
		if _, ok := present[norm]; !ok {
			present[norm] = col
		}
	}

	resolved := make(map[string]string, len(aliases))
	for key, candidates := range aliases {
		resolved[key] = ""
		for _, cand := range candidates {
			if col, ok := present[normalizeHeader(cand)]; ok {
				resolved[key] = col
				break
			}
		}
	}
	return resolved
}

// buildDoc shapes one source row into its output document: canonical
// keys only, unresolved fields null, plus the id, source tag, run id
// and timestamps.
func buildDoc(row table.Row, index int, resolved map[string]string, opts Options, runID string, now time.Time) docstore.Document {
	doc := docstore.Document{}
	for key, col := range resolved {
		if col == "" {
			doc[key] = nil
			continue
		}
		doc[key] = row[col]
	}

	seed := strconv.Itoa(index)
	if opts.IDColumn != "" {
		if col := resolved[opts.IDColumn]; col != "" {
			if tok := idToken(row[col]); tok != "" {
				seed = tok
			}
		}
	}
	if opts.IDPrefix != "" {
		doc["_id"] = opts.IDPrefix + "-" + seed
	} else {
		doc["_id"] = seed
	}

	if opts.SourceTag != "" {
		doc["source"] = opts.SourceTag
	}
	doc["migration_id"] = runID
	doc["created_at"] = now
	doc["updated_at"] = now
	return doc
}

func idToken(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
