package ingest

import "github.com/gear6io/sift/pkg/errors"

// Package-specific error codes for the ingestion engine
var (
	ErrInvalidCSV            = errors.MustNewCode("ingest.invalid_csv")
	ErrParseCanceled         = errors.MustNewCode("ingest.parse_canceled")
	ErrKaggleNotImplemented  = errors.MustNewCode("ingest.kaggle_not_implemented")
	ErrDatasetCreationFailed = errors.MustNewCode("ingest.dataset_creation_failed")
)
