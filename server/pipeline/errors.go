package pipeline

import "github.com/gear6io/sift/pkg/errors"

// Package-specific error codes for the transformation pipeline
var (
	ErrDatasetNotFound  = errors.MustNewCode("pipeline.dataset_not_found")
	ErrFileNotFound     = errors.MustNewCode("pipeline.file_not_found")
	ErrFileParseFailed  = errors.MustNewCode("pipeline.file_parse_failed")
	ErrArtifactFailed   = errors.MustNewCode("pipeline.artifact_failed")
	ErrProcessCanceled  = errors.MustNewCode("pipeline.process_canceled")
	ErrUpdateLostRecord = errors.MustNewCode("pipeline.update_lost_record")
)
