package dataset

import "github.com/gear6io/sift/pkg/errors"

// Package-specific error codes for the dataset repository
var (
	ErrCreateFailed  = errors.MustNewCode("dataset.create_failed")
	ErrReloadFailed  = errors.MustNewCode("dataset.reload_failed")
	ErrAttachFailed  = errors.MustNewCode("dataset.attach_failed")
	ErrListFailed    = errors.MustNewCode("dataset.list_failed")
	ErrSearchFailed  = errors.MustNewCode("dataset.search_failed")
	ErrRowsUnbacked  = errors.MustNewCode("dataset.rows_unbacked")
	ErrRowReadFailed = errors.MustNewCode("dataset.row_read_failed")
)
