package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// Storage holds the source documents (policy and contract PDFs) that the
// ingestion batch reads. Keys are slash-separated paths such as
// "docs/contracts/msa_acme.pdf".
type Storage interface {
	// Upload stores a document under the given key, overwriting any
	// existing object.
	Upload(ctx context.Context, key string, data io.Reader) error

	// Download retrieves a document by key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns the keys under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes a document by key.
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// Document key prefixes, one per document type.
const (
	PolicyPrefix   = "docs/policies/"
	ContractPrefix = "docs/contracts/"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv creates a storage instance from environment variables
func NewStorageFromEnv() (Storage, error) {
	storageType := os.Getenv("STORAGE_TYPE")
	if storageType == "" {
		storageType = "local" // Default to local for development
	}

	switch StorageType(storageType) {
	case StorageTypeLocal:
		localPath := os.Getenv("STORAGE_LOCAL_PATH")
		if localPath == "" {
			localPath = "./storage/files"
		}
		return NewLocalStorage(localPath)

	case StorageTypeS3:
		cfg := StorageConfig{
			Type:         StorageTypeS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(cfg)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}

// DocumentKey builds the storage key for a source document of the given
// type, sanitizing the file name.
func DocumentKey(docType, filename string) string {
	filename = path.Base(filename)
	filename = strings.ReplaceAll(filename, " ", "_")

	prefix := ContractPrefix
	if docType == "policy" {
		prefix = PolicyPrefix
	}
	return prefix + filename
}
