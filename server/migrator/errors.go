package migrator

import "github.com/gear6io/sift/pkg/errors"

// Package-specific error codes for the bulk migrator
var (
	ErrMissingCollection = errors.MustNewCode("migrator.missing_collection")
	ErrReadFailed        = errors.MustNewCode("migrator.read_failed")
)
