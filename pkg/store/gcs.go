package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

// DefaultPrefix is the object prefix used for stored values
const DefaultPrefix = "visits/"

// GCS keeps each value as a small object in a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// NewGCS connects to Cloud Storage and stores values in bucketName under prefix
func NewGCS(ctx context.Context, bucketName, prefix string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{
		client: client,
		bucket: client.Bucket(bucketName),
		prefix: prefix,
	}, nil
}

// Close releases the storage client
func (g *GCS) Close() error {
	return g.client.Close()
}

// Get returns the value stored under key
func (g *GCS) Get(ctx context.Context, key string) (string, bool, error) {
	name, err := objectName(g.prefix, key)
	if err != nil {
		return "", false, err
	}

	reader, err := g.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("Object(%q).NewReader: %w", name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", name, err)
	}
	return string(data), true, nil
}

// Set writes value under key, replacing any previous value
func (g *GCS) Set(ctx context.Context, key, value string) error {
	name, err := objectName(g.prefix, key)
	if err != nil {
		return err
	}

	writer := g.bucket.Object(name).NewWriter(ctx)
	writer.ContentType = "text/plain"

	if _, err := io.WriteString(writer, value); err != nil {
		writer.Close()
		return fmt.Errorf("Writer.Write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}
	return nil
}

// Clear deletes every object under the prefix and returns how many were deleted
func (g *GCS) Clear(ctx context.Context) (int, error) {
	totalDeleted := 0
	it := g.bucket.Objects(ctx, &storage.Query{Prefix: g.prefix})
	for {
		obj, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return totalDeleted, fmt.Errorf("error iterating objects: %w", err)
		}

		if err := g.bucket.Object(obj.Name).Delete(ctx); err != nil {
			log.WithError(err).Warnf("Error deleting %s", obj.Name)
			continue
		}
		totalDeleted++
	}
	return totalDeleted, nil
}

// objectName maps a key to an object name below prefix
func objectName(prefix, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	key = strings.TrimPrefix(key, "/")
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q: path traversal detected", key)
	}
	return prefix + key, nil
}
