// Package uploader copies mismatch case directories to object storage.
package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"sqlsim/internal/config"
	"sqlsim/internal/util"
)

// Uploader publishes a case directory and returns where it landed.
type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

// NoopUploader is used when no storage backend is configured.
type NoopUploader struct{}

// Enabled implements Uploader.
func (NoopUploader) Enabled() bool { return false }

// UploadDir implements Uploader.
func (NoopUploader) UploadDir(context.Context, string) (string, error) { return "", nil }

// New picks the configured backend. GCS wins when both are enabled.
func New(storage config.StorageConfig) (Uploader, error) {
	switch {
	case storage.GCS.Enabled:
		return NewGCS(storage.GCS)
	case storage.S3.Enabled:
		return NewS3(storage.S3)
	default:
		return NoopUploader{}, nil
	}
}

// objectPutter stores one object under key.
type objectPutter interface {
	put(ctx context.Context, key string, body io.Reader, size int64) error
}

// uploadFiles sends every regular file directly under dir to dst, keyed by
// prefix/<dir base>/<file name>, and returns the key prefix used.
func uploadFiles(ctx context.Context, dst objectPutter, prefix, dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrap(err, "read case dir")
	}
	base := objectPrefix(prefix, dir)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := uploadFile(ctx, dst, filepath.Join(dir, entry.Name()), base+entry.Name()); err != nil {
			return "", errors.Wrapf(err, "upload %s", entry.Name())
		}
	}
	return base, nil
}

func uploadFile(ctx context.Context, dst objectPutter, path, key string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer util.CloseWithErr(file, "upload file")
	info, err := file.Stat()
	if err != nil {
		return err
	}
	return dst.put(ctx, key, file, info.Size())
}

// objectPrefix builds "<prefix>/<base of dir>/" with no leading slash.
func objectPrefix(prefix, dir string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return fmt.Sprintf("%s%s/", prefix, filepath.Base(dir))
}
