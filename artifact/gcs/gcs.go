// Package gcs provides a Google Cloud Storage backed core.ArtifactStore.
//
// Artifacts are stored as objects named <prefix>/<sessionID>/<artifactID>
// with the artifact MIME type persisted as the object content type, so
// artifacts survive process restarts and can be shared across instances.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/craftlabs/designstudio/artifact"
	"github.com/craftlabs/designstudio/core"
)

// Options configure the GCS artifact store.
type Options struct {
	// Prefix is prepended to every object name. Defaults to "artifacts".
	Prefix string
	// Timeout bounds each storage operation. Defaults to 30s.
	Timeout time.Duration
}

// Store is a core.ArtifactStore backed by a GCS bucket.
type Store struct {
	client *storage.Client
	bucket string
	opts   Options
}

// NewStore creates a store using the given client and bucket name.
func NewStore(client *storage.Client, bucket string, optFns ...func(o *Options)) *Store {
	opts := Options{
		Prefix:  "artifacts",
		Timeout: 30 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, bucket: bucket, opts: opts}
}

func (s *Store) objectName(sessionID, artifactID string) string {
	return fmt.Sprintf("%s/%s/%s", s.opts.Prefix, sessionID, artifactID)
}

// Save writes the artifact bytes with the MIME type as object content type.
func (s *Store) Save(sessionID, artifactID string, art core.Artifact) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(s.objectName(sessionID, artifactID)).NewWriter(ctx)
	w.ContentType = art.MimeType
	if _, err := w.Write(art.Data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write artifact %s: %w", artifactID, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize artifact %s: %w", artifactID, err)
	}
	return nil
}

// Get reads the artifact bytes and content type, or artifact.ErrNotFound.
func (s *Store) Get(sessionID, artifactID string) (core.Artifact, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	r, err := s.client.Bucket(s.bucket).Object(s.objectName(sessionID, artifactID)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return core.Artifact{}, artifact.ErrNotFound
		}
		return core.Artifact{}, fmt.Errorf("failed to open artifact %s: %w", artifactID, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return core.Artifact{}, fmt.Errorf("failed to read artifact %s: %w", artifactID, err)
	}
	return core.Artifact{Data: data, MimeType: r.Attrs.ContentType}, nil
}

// List returns the artifact ids stored for the session.
func (s *Store) List(sessionID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	prefix := fmt.Sprintf("%s/%s/", s.opts.Prefix, sessionID)
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var ids []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list artifacts: %w", err)
		}
		ids = append(ids, strings.TrimPrefix(attrs.Name, prefix))
	}
	return ids, nil
}

// Delete removes the artifact object, or returns artifact.ErrNotFound.
func (s *Store) Delete(sessionID, artifactID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(s.objectName(sessionID, artifactID)).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return artifact.ErrNotFound
	}
	return err
}
