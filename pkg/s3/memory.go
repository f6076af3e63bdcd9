package s3

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore keeps objects in process memory. It is used when no bucket
// is configured and in tests.
func NewMemoryStore() ItfS3 {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) UploadFrames(ctx context.Context, trackingID string, frames [][]byte) (string, error) {
	return m.UploadFrameBatch(ctx, trackingID, 0, frames)
}

func (m *memoryStore) UploadFrameBatch(ctx context.Context, trackingID string, offset int, frames [][]byte) (string, error) {
	for i, frame := range frames {
		if _, err := m.UploadObject(ctx, FrameKey(trackingID, offset+i), frame, "image/jpeg"); err != nil {
			return "", err
		}
	}
	return "memory://" + framesDir(trackingID), nil
}

func (m *memoryStore) UploadObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = append([]byte(nil), data...)
	return "memory://" + key, nil
}

func (m *memoryStore) Exists(ctx context.Context, trackingID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := framesDir(trackingID)
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	ids := make([]string, 0)
	for key := range m.objects {
		rest, ok := strings.CutPrefix(key, framesPrefix)
		if !ok {
			continue
		}
		id, _, found := strings.Cut(rest, "/")
		if !found || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryStore) GetFrames(ctx context.Context, trackingID string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := framesDir(trackingID)
	keys := make([]string, 0)
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	frames := make([][]byte, 0, len(keys))
	for _, key := range keys {
		frames = append(frames, append([]byte(nil), m.objects[key]...))
	}
	return frames, nil
}

func (m *memoryStore) PresignUrl(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("file does not exist: %s", key)
	}
	return fmt.Sprintf("memory://%s?X-Amz-Expires=%d", key, int(PresignExpiry.Seconds())), nil
}
