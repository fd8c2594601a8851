package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// MemoryClient keeps objects in process memory. Used by tests and by
// OBJECT_STORE_DRIVER=memory for local runs.
type MemoryClient struct {
	mu      sync.RWMutex
	buckets map[string]map[string]*memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{buckets: make(map[string]map[string]*memoryObject)}
}

func (m *MemoryClient) EnsureBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]*memoryObject)
	}
	return nil
}

func (m *MemoryClient) Put(ctx context.Context, bucket, key, contentType string, r io.Reader, size int64) error {
	buf := &bytes.Buffer{}
	if size > 0 {
		buf.Grow(int(size))
	}
	n, err := io.Copy(buf, r)
	if err != nil {
		return fmt.Errorf("read object data: %w", err)
	}
	if size >= 0 && n != size {
		return fmt.Errorf("put %s/%s: declared size %d, read %d bytes", bucket, key, size, n)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("put %s/%s: %w", bucket, key, ErrBucketNotFound)
	}
	objects[key] = &memoryObject{
		data:        buf.Bytes(),
		contentType: contentType,
		modified:    time.Now().UTC(),
	}
	return nil
}

func (m *MemoryClient) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, ErrObjectNotFound)
	}
	obj, ok := objects[key]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, ErrObjectNotFound)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *MemoryClient) List(_ context.Context, bucket string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("list %s: %w", bucket, ErrBucketNotFound)
	}

	out := make([]ObjectInfo, 0, len(objects))
	for key, obj := range objects {
		out = append(out, ObjectInfo{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Delete exists for tests that simulate a lost blob; the service never deletes.
func (m *MemoryClient) Delete(bucket, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if objects, ok := m.buckets[bucket]; ok {
		delete(objects, key)
	}
}
