package repository

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned by Sign for a path with no stored object.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is private, write-once binary storage. Objects are only ever
// reachable through time-limited signed URLs.
type ObjectStore interface {
	// Put stores data under a fresh unique path derived from name and
	// returns that path. It never overwrites an existing object.
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Sign returns a retrieval URL valid for ttl. An empty path yields an
	// empty URL and no error; a path with no object fails with
	// ErrObjectNotFound instead of producing a dead link.
	Sign(ctx context.Context, path string, ttl time.Duration) (string, error)
	EnsureBucketExists(ctx context.Context) error
}

// NewObjectKey prefixes a sanitized file name with a random identifier.
func NewObjectKey(name string) string {
	return uuid.NewString() + "-" + sanitizeName(name)
}

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" {
		name = ""
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
	clean = strings.Trim(clean, "-.")
	if clean == "" {
		return "file"
	}
	return clean
}
