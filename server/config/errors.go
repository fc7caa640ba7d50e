package config

import "github.com/gear6io/sift/pkg/errors"

// Config-specific error codes
var (
	ErrConfigFileReadFailed     = errors.MustNewCode("config.file_read_failed")
	ErrConfigFileParseFailed    = errors.MustNewCode("config.file_parse_failed")
	ErrConfigValidationFailed   = errors.MustNewCode("config.validation_failed")
	ErrConfigFileMarshalFailed  = errors.MustNewCode("config.file_marshal_failed")
	ErrConfigFileWriteFailed    = errors.MustNewCode("config.file_write_failed")
	ErrStorageValidationFailed  = errors.MustNewCode("config.storage_validation_failed")
	ErrDataPathRequired         = errors.MustNewCode("config.data_path_required")
	ErrArtifactEngineUnknown    = errors.MustNewCode("config.artifact_engine_unknown")
	ErrMinioConfigIncomplete    = errors.MustNewCode("config.minio_config_incomplete")
	ErrDocstoreValidationFailed = errors.MustNewCode("config.docstore_validation_failed")
	ErrDocstoreEngineUnknown    = errors.MustNewCode("config.docstore_engine_unknown")
	ErrDocstoreURIRequired      = errors.MustNewCode("config.docstore_uri_required")
	ErrDocstoreDatabaseRequired = errors.MustNewCode("config.docstore_database_required")

	// Logging-specific error codes
	ErrLogDirectoryCreationFailed = errors.MustNewCode("config.log_directory_creation_failed")
	ErrLogFileOpenFailed          = errors.MustNewCode("config.log_file_open_failed")
	ErrLogFilePathRequired        = errors.MustNewCode("config.log_file_path_required")
	ErrLogRotationFailed          = errors.MustNewCode("config.log_rotation_failed")
	ErrLogFileStatFailed          = errors.MustNewCode("config.log_file_stat_failed")
	ErrLogBackupReadFailed        = errors.MustNewCode("config.log_backup_read_failed")
	ErrLogBackupRemoveFailed      = errors.MustNewCode("config.log_backup_remove_failed")
	ErrLogCleanupFailed           = errors.MustNewCode("config.log_cleanup_failed")
	ErrLogFileWriterSetupFailed   = errors.MustNewCode("config.log_file_writer_setup_failed")
)
