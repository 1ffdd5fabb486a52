package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// ErrObjectNotFound is returned when a requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore abstracts the bucket operations the asset tools need. The GCS
// implementation is the production one; tests substitute fakes.
type BlobStore interface {
	// List returns the names of all objects under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// Download returns the raw bytes of the named object.
	Download(ctx context.Context, name string) ([]byte, error)
	// Upload writes data to the named object with the given content type.
	Upload(ctx context.Context, name string, data []byte, contentType string) error
	// SignedURL mints a temporary GET URL for the named object.
	SignedURL(name string, ttl time.Duration) (string, error)
}

// GCSStore is a BlobStore over a single Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore binds a storage client to a bucket.
func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// List implements BlobStore.
func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", s.bucket, err)
		}
		names = append(names, attrs.Name)
	}

	return names, nil
}

// Download implements BlobStore.
func (s *GCSStore) Download(ctx context.Context, name string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return data, nil
}

// Upload implements BlobStore.
func (s *GCSStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", name, err)
	}

	return nil
}

// SignedURL implements BlobStore using V4 signing.
func (s *GCSStore) SignedURL(name string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(name, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", name, err)
	}

	return url, nil
}
