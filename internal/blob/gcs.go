// internal/blob/gcs.go
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"cloud.google.com/go/storage"
)

// GCS stores objects in a Google Cloud Storage bucket. The client is
// constructed once at process start; a misconfigured credential or a
// missing bucket fails there, not on the first request.
type GCS struct {
	bucket *storage.BucketHandle
	name   string
}

// NewGCS creates a GCS-backed store and probes the bucket so that
// configuration problems surface at startup.
func NewGCS(ctx context.Context, bucketName string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	bucket := client.Bucket(bucketName)
	probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := bucket.Attrs(probeCtx); err != nil {
		return nil, fmt.Errorf("probe bucket %q: %w", bucketName, err)
	}

	return &GCS{bucket: bucket, name: bucketName}, nil
}

// Put writes the object, overwriting any existing content under the key.
func (g *GCS) Put(ctx context.Context, key string, data []byte, contentType string) error {
	w := g.bucket.Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write object %s to bucket %s: %w", key, g.name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close writer for %s in bucket %s: %w", key, g.name, err)
	}
	return nil
}

// Exists probes object metadata without downloading content.
func (g *GCS) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.bucket.Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s in bucket %s: %w", key, g.name, err)
	}
	return true, nil
}

// GetBytes downloads the full object content.
func (g *GCS) GetBytes(ctx context.Context, key string) ([]byte, error) {
	r, err := g.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("object %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("open reader for %s in bucket %s: %w", key, g.name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object %s from bucket %s: %w", key, g.name, err)
	}
	return data, nil
}

// GetLocalPath downloads the object into a temporary file and returns its
// path. Each call materializes a fresh copy; the sweeper reclaims stale
// ones by the ScratchPrefix naming convention.
func (g *GCS) GetLocalPath(ctx context.Context, key string) (string, error) {
	data, err := g.GetBytes(ctx, key)
	if err != nil {
		return "", err
	}
	return writeScratch(key, data)
}

// writeScratch writes data to a fresh temp file named with ScratchPrefix
// and the key's extension.
func writeScratch(key string, data []byte) (string, error) {
	f, err := os.CreateTemp("", ScratchPrefix+"*"+path.Ext(key))
	if err != nil {
		return "", fmt.Errorf("create scratch file for %s: %w", key, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write scratch file for %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close scratch file for %s: %w", key, err)
	}
	return f.Name(), nil
}
