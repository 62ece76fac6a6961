// Package storage provides the filesystem abstraction behind the media
// store. Two drivers ship out of the box:
//
//   - "local"  — local filesystem (default)
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once (internal/server), then address disks by name:
//
//	storage.Connect()
//	storage.Use("s3").Put("products/abc.jpg", data)
//	url := storage.Use("s3").URL("products/abc.jpg")
package storage

import (
	"io"
	"time"
)

// Disk is the driver interface.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file.
	Size(path string) (int64, error)

	// LastModified returns the file's last-modified time.
	LastModified(path string) (time.Time, error)

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(path string) error

	// Files lists the files directly under directory.
	Files(directory string) ([]string, error)
}
