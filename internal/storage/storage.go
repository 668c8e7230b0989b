// Package storage reads compiler report artifacts from, and writes
// analysis summaries to, local disk or Tencent Cloud COS.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/compile-report/pkg/config"
	apperrors "github.com/compile-report/pkg/errors"
)

// Storage defines the interface for object storage operations.
type Storage interface {
	// Upload uploads data from reader to the specified key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download opens the object at key. A missing object is a NotFound
	// error.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete deletes the object at the specified key.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL for the specified key (if applicable).
	GetURL(key string) string
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeCOS   StorageType = "cos"
)

// NewStorage creates a new Storage instance based on the configuration.
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch StorageType(cfg.Type) {
	case StorageTypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return fmt.Errorf("storage config is nil")
	}

	storageType := StorageType(cfg.Type)
	if storageType == "" {
		storageType = StorageTypeLocal
	}

	switch storageType {
	case StorageTypeCOS:
		if cfg.Bucket == "" {
			return fmt.Errorf("COS bucket is required")
		}
		if cfg.Region == "" {
			return fmt.Errorf("COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return fmt.Errorf("COS credentials are required")
		}
	case StorageTypeLocal:
		if cfg.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
	return nil
}

// DocumentKeys holds the object keys of one permutation's report
// documents, named the way the compiler writes them.
type DocumentKeys struct {
	SizeMap      string
	SplitPoints  string
	Dependencies string
}

// KeysFor returns the document keys of permutation under prefix.
func KeysFor(prefix string, permutation int) DocumentKeys {
	return DocumentKeys{
		SizeMap:      path.Join(prefix, fmt.Sprintf("stories%d.xml.gz", permutation)),
		SplitPoints:  path.Join(prefix, fmt.Sprintf("splitPoints%d.xml.gz", permutation)),
		Dependencies: path.Join(prefix, fmt.Sprintf("dependencies%d.xml.gz", permutation)),
	}
}

// SummaryKey returns the key a permutation's summary is uploaded to.
func SummaryKey(prefix string, permutation int) string {
	return path.Join(prefix, fmt.Sprintf("summary-%d.json", permutation))
}

// OpenOptional downloads key, returning a nil reader and no error when the
// object does not exist.
func OpenOptional(ctx context.Context, s Storage, key string) (io.ReadCloser, error) {
	rc, err := s.Download(ctx, key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return rc, nil
}

func notFound(key string, err error) error {
	return apperrors.Wrap(apperrors.CodeNotFound, fmt.Sprintf("object not found: %s", key), err)
}
