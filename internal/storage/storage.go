// Package storage defines the interface for object storage operations.
// All photo content lives in a single bucket fixed at startup; callers address
// objects by key only.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"
	"time"
)

// DefaultContentType is used when no type is supplied and the extension is unknown.
const DefaultContentType = "image/jpeg"

// DefaultPresignTTL is the validity window of a presigned GET URL.
const DefaultPresignTTL = time.Hour

// ErrNoBucket is returned by constructors given an empty bucket name.
var ErrNoBucket = errors.New("storage: bucket name is empty")

// Storage is the interface for uploading objects and minting read access to them.
type Storage interface {
	// Upload streams data to the store under the given key, replacing any existing object.
	// size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL granting unauthenticated read access to key for ttl.
	// Every call signs a new URL; results must not be persisted.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ContentTypeFor infers a MIME type from the filename extension.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return DefaultContentType
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return DefaultContentType
}
