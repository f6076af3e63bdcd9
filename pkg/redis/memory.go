package redis

import (
	"context"
	"sync"
)

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewInMemory keeps the video cache in process memory, for running without a
// Redis server and for tests.
func NewInMemory() IRedis {
	return &memoryCache{entries: make(map[string]string)}
}

func (m *memoryCache) GetTrackingID(ctx context.Context, videoName string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.entries[videoKey(videoName)]
	return id, ok, nil
}

func (m *memoryCache) SetTrackingID(ctx context.Context, videoName string, trackingID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[videoKey(videoName)] = trackingID
	return nil
}

func (m *memoryCache) DeleteTrackingID(ctx context.Context, videoName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, videoKey(videoName))
	return nil
}

func (m *memoryCache) Close() error {
	return nil
}
