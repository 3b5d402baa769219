package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned when an object doesn't exist.
var ErrNotFound = errors.New("objstore: object not found")

// ErrTooLarge is returned when an object exceeds the size limit.
var ErrTooLarge = errors.New("objstore: object too large")

// ErrInvalidKey is returned for keys that are empty or escape the store.
var ErrInvalidKey = errors.New("objstore: invalid key")

// Store is the interface for object storage backends.
type Store interface {
	// Get opens the object stored under key. The caller closes it.
	Get(ctx context.Context, key string) (*Object, error)

	// Put stores r under key, replacing any existing object.
	Put(ctx context.Context, key, contentType string, r io.Reader) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Object is a stored object.
type Object struct {
	// Key is the object key.
	Key string

	// ContentType is the MIME type recorded at Put, or
	// "application/octet-stream".
	ContentType string

	// Size is the object size in bytes, or -1 when unknown.
	Size int64

	// Body provides access to the object contents.
	Body io.ReadCloser
}

// Close closes the object body if open.
func (o *Object) Close() error {
	if o.Body != nil {
		return o.Body.Close()
	}
	return nil
}

const defaultContentType = "application/octet-stream"

// CleanKey validates a key taken from a request path. Keys are
// slash-separated, relative and may not contain "." or ".." segments or
// empty segments.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.HasSuffix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, "\\\x00") {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return path.Clean(key), nil
}
