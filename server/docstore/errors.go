package docstore

import "github.com/gear6io/sift/pkg/errors"

// Package-specific error codes for the document store
var (
	ErrConnectFailed    = errors.MustNewCode("docstore.connect_failed")
	ErrPingFailed       = errors.MustNewCode("docstore.ping_failed")
	ErrInsertFailed     = errors.MustNewCode("docstore.insert_failed")
	ErrFindFailed       = errors.MustNewCode("docstore.find_failed")
	ErrUpdateFailed     = errors.MustNewCode("docstore.update_failed")
	ErrDeleteFailed     = errors.MustNewCode("docstore.delete_failed")
	ErrCountFailed      = errors.MustNewCode("docstore.count_failed")
	ErrCollectionFailed = errors.MustNewCode("docstore.collection_failed")
	ErrEngineUnknown    = errors.MustNewCode("docstore.engine_unknown")
)
