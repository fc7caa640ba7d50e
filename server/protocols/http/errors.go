package http

import (
	nethttp "net/http"

	"github.com/gear6io/sift/pkg/errors"
	"github.com/gear6io/sift/server/dataset"
	"github.com/gear6io/sift/server/ingest"
	"github.com/gear6io/sift/server/pipeline"
)

// Package-specific error codes for the HTTP layer
var (
	ErrInvalidRequest = errors.MustNewCode("http.invalid_request")
	ErrNotFound       = errors.MustNewCode("http.not_found")
	ErrServerFailed   = errors.MustNewCode("http.server_failed")
)

// statusFor maps an error code to the HTTP status it travels under.
// Anything unmapped is an internal error.
func statusFor(err error) int {
	switch {
	case errors.IsCode(err, ErrInvalidRequest), errors.IsCode(err, ingest.ErrInvalidCSV):
		return nethttp.StatusBadRequest
	case errors.IsCode(err, ErrNotFound),
		errors.IsCode(err, pipeline.ErrDatasetNotFound),
		errors.IsCode(err, pipeline.ErrFileNotFound),
		errors.IsCode(err, pipeline.ErrUpdateLostRecord):
		return nethttp.StatusNotFound
	case errors.IsCode(err, dataset.ErrRowsUnbacked):
		return nethttp.StatusConflict
	case errors.IsCode(err, ingest.ErrKaggleNotImplemented):
		return nethttp.StatusNotImplemented
	default:
		return nethttp.StatusInternalServerError
	}
}
