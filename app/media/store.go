// Package media adapts the storage disks into the hosted-image contract the
// catalog needs: upload a local file, get back a public URL plus an opaque
// identifier, and later delete by that identifier.
package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

// Asset is one hosted image.
type Asset struct {
	URL     string `json:"url"`
	MediaID string `json:"media_id"`
}

// Store is the media host contract. DiskStore is the production
// implementation; tests substitute a fake to observe upload/release calls.
type Store interface {
	// Upload pushes the file at localPath to the media host and removes
	// the local file on success.
	Upload(ctx context.Context, localPath string) (Asset, error)

	// Destroy deletes a hosted asset by its identifier. Destroying an
	// unknown identifier is not an error.
	Destroy(ctx context.Context, mediaID string) error
}

// DiskStore hosts media on a storage disk under a key prefix.
type DiskStore struct {
	disk   storage.Disk
	prefix string
}

// NewDiskStore returns a Store backed by the default storage disk.
func NewDiskStore(prefix string) *DiskStore {
	return &DiskStore{disk: storage.Default(), prefix: strings.Trim(prefix, "/")}
}

// NewDiskStoreOn returns a Store backed by a specific disk.
func NewDiskStoreOn(d storage.Disk, prefix string) *DiskStore {
	return &DiskStore{disk: d, prefix: strings.Trim(prefix, "/")}
}

func (s *DiskStore) Upload(ctx context.Context, localPath string) (Asset, error) {
	f, err := os.Open(localPath)
	if err != nil {
		metrics.MediaUploads.WithLabelValues("failed").Inc()
		return Asset{}, apperr.Wrap(apperr.External, "could not read upload", err)
	}

	key := s.key(localPath)
	err = s.disk.PutStream(key, f)
	f.Close()
	if err != nil {
		metrics.MediaUploads.WithLabelValues("failed").Inc()
		return Asset{}, apperr.Wrap(apperr.External, "media upload failed", err)
	}

	// The spooled temp file is no longer needed.
	if err := os.Remove(localPath); err != nil {
		logger.WithCtx(ctx).Warn("media: could not remove temp file", "path", localPath, "error", err)
	}

	metrics.MediaUploads.WithLabelValues("success").Inc()
	return Asset{URL: s.disk.URL(key), MediaID: key}, nil
}

func (s *DiskStore) Destroy(ctx context.Context, mediaID string) error {
	if err := s.disk.Delete(mediaID); err != nil {
		return apperr.Wrap(apperr.External, "media delete failed", err)
	}
	return nil
}

// key builds a collision-free object key preserving the file extension.
func (s *DiskStore) key(localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	name := uuid.NewString() + ext
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

// SpoolUploads writes multipart file headers to the OS temp directory and
// returns the local paths, in input order. On any error the already-spooled
// files are removed. Callers pass the paths to Store.Upload, which removes
// each file after a successful push; Cleanup removes whatever is left after
// a partial failure.
func SpoolUploads(files []*multipart.FileHeader) ([]string, error) {
	var paths []string
	for _, fh := range files {
		p, err := spoolOne(fh)
		if err != nil {
			Cleanup(paths)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func spoolOne(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.Validation, "could not read uploaded file", err)
	}
	defer src.Close()

	ext := filepath.Ext(fh.Filename)
	dst, err := os.CreateTemp("", "bazaar-upload-*"+ext)
	if err != nil {
		return "", apperr.Wrap(apperr.Persistence, "could not spool upload", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", apperr.Wrap(apperr.Persistence, fmt.Sprintf("could not spool %s", fh.Filename), err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", apperr.Wrap(apperr.Persistence, "could not spool upload", err)
	}
	return dst.Name(), nil
}

// Cleanup removes spooled files that were never uploaded. Missing files are
// fine; Upload already removed them.
func Cleanup(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("media: cleanup failed", "path", p, "error", err)
		}
	}
}
