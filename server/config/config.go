package config

import (
	"os"

	"github.com/gear6io/sift/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the server configuration
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Docstore DocstoreConfig `yaml:"docstore"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB
	MaxBackups int    `yaml:"max_backups"` // Max number of backup files
	Cleanup    bool   `yaml:"cleanup"`     // Whether to cleanup log file on startup
}

// StorageConfig represents artifact storage configuration
type StorageConfig struct {
	DataPath  string      `yaml:"data_path"`
	Artifacts string      `yaml:"artifacts"` // "filesystem" or "minio"
	Minio     MinioConfig `yaml:"minio"`
}

// MinioConfig represents MinIO/S3 artifact storage configuration
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// DocstoreConfig represents document store configuration
type DocstoreConfig struct {
	Engine     string `yaml:"engine"` // "mongo" or "memory"
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"` // dataset metadata collection
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   "logs/sift-server.log",
			Console:    true,
			MaxSize:    100, // 100MB
			MaxBackups: 3,
			Cleanup:    true,
		},
		Storage: StorageConfig{
			DataPath:  "./data",
			Artifacts: "filesystem",
		},
		Docstore: DocstoreConfig{
			Engine:     "mongo",
			URI:        "mongodb://localhost:27017",
			Database:   "sift",
			Collection: "datasets",
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return errors.New(ErrStorageValidationFailed, "storage validation failed", err)
	}
	if err := c.Docstore.Validate(); err != nil {
		return errors.New(ErrDocstoreValidationFailed, "docstore validation failed", err)
	}
	return nil
}

// Validate validates the storage configuration
func (s *StorageConfig) Validate() error {
	if s.DataPath == "" {
		return errors.New(ErrDataPathRequired, "data_path is required in storage configuration", nil)
	}

	switch s.Artifacts {
	case "", "filesystem":
		// Default engine needs nothing beyond data_path
	case "minio":
		if s.Minio.Endpoint == "" || s.Minio.Bucket == "" {
			return errors.New(ErrMinioConfigIncomplete, "minio artifact storage requires endpoint and bucket", nil)
		}
	default:
		return errors.Newf(ErrArtifactEngineUnknown, "unknown artifact engine '%s'", s.Artifacts)
	}

	return nil
}

// Validate validates the docstore configuration
func (d *DocstoreConfig) Validate() error {
	switch d.Engine {
	case "", "mongo":
		if d.URI == "" {
			return errors.New(ErrDocstoreURIRequired, "docstore uri is required for the mongo engine", nil)
		}
	case "memory":
		// In-process engine has no settings
	default:
		return errors.Newf(ErrDocstoreEngineUnknown, "unknown docstore engine '%s'", d.Engine)
	}

	if d.Database == "" {
		return errors.New(ErrDocstoreDatabaseRequired, "docstore database is required", nil)
	}

	return nil
}

// GetHTTPPort returns the fixed HTTP server port
func (c *Config) GetHTTPPort() int {
	return HTTP_SERVER_PORT
}

// GetHTTPAddress returns the HTTP server bind address
func (c *Config) GetHTTPAddress() string {
	return DEFAULT_SERVER_ADDRESS
}

// GetStoragePath returns the artifact storage path
func (c *Config) GetStoragePath() string {
	return c.Storage.DataPath
}

// GetArtifactEngine returns the configured artifact engine name
func (c *Config) GetArtifactEngine() string {
	if c.Storage.Artifacts == "" {
		return "filesystem"
	}
	return c.Storage.Artifacts
}

// GetDocstoreEngine returns the configured docstore engine name
func (c *Config) GetDocstoreEngine() string {
	if c.Docstore.Engine == "" {
		return "mongo"
	}
	return c.Docstore.Engine
}

// GetMetadataCollection returns the dataset metadata collection name
func (c *Config) GetMetadataCollection() string {
	if c.Docstore.Collection == "" {
		return "datasets"
	}
	return c.Docstore.Collection
}
