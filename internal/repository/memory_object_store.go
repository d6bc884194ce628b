package repository

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/vidhi-1412/Realestate/internal/domain"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryObjectStore keeps objects in process memory. It is meant for local
// development and tests; signed URLs use the memory:// scheme.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memoryObject
	now     func() time.Time
}

func NewMemoryObjectStore(bucket string) *MemoryObjectStore {
	return &MemoryObjectStore{
		bucket:  bucket,
		objects: make(map[string]memoryObject),
		now:     time.Now,
	}
}

func (m *MemoryObjectStore) EnsureBucketExists(context.Context) error {
	return nil
}

func (m *MemoryObjectStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	key := NewObjectKey(name)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; ok {
		return "", fmt.Errorf("%w: object %q already exists", domain.ErrUpload, key)
	}
	m.objects[key] = memoryObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
	}
	return key, nil
}

func (m *MemoryObjectStore) Sign(_ context.Context, path string, ttl time.Duration) (string, error) {
	if path == "" {
		return "", nil
	}
	m.mu.RLock()
	_, ok := m.objects[path]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrObjectNotFound, path)
	}
	return fmt.Sprintf("memory://%s/%s?expires=%d", m.bucket, url.PathEscape(path), m.now().Add(ttl).Unix()), nil
}

// Get returns a stored object and its content type.
func (m *MemoryObjectStore) Get(path string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}

func (m *MemoryObjectStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
