package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemory()

	if _, ok, err := cache.GetTrackingID(ctx, "clip.mp4"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.SetTrackingID(ctx, "clip.mp4", "video_abc"); err != nil {
		t.Fatalf("SetTrackingID() error = %v", err)
	}
	id, ok, err := cache.GetTrackingID(ctx, "clip.mp4")
	if err != nil || !ok || id != "video_abc" {
		t.Errorf("expected hit video_abc, got %q ok=%v err=%v", id, ok, err)
	}

	cache.DeleteTrackingID(ctx, "clip.mp4")
	if _, ok, _ := cache.GetTrackingID(ctx, "clip.mp4"); ok {
		t.Error("expected miss after delete")
	}
}

// TestRedisCacheIntegration runs against a real Redis container and needs Docker.
func TestRedisCacheIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("testcontainers panicked: %v", r)
			}
		}()
		_, err = testcontainers.NewDockerClientWithOpts(ctx)
		return
	}()
	if err != nil {
		t.Skipf("Docker not available: %v", err)
	}

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	}()

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}

	cache := NewWithClient(redis.NewClient(opts), time.Minute)
	defer cache.Close()

	if _, ok, err := cache.GetTrackingID(ctx, "lobby.mp4"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := cache.SetTrackingID(ctx, "lobby.mp4", "video_0123456789abcdef"); err != nil {
		t.Fatalf("SetTrackingID() error = %v", err)
	}
	id, ok, err := cache.GetTrackingID(ctx, "lobby.mp4")
	if err != nil || !ok || id != "video_0123456789abcdef" {
		t.Errorf("unexpected cache read %q ok=%v err=%v", id, ok, err)
	}
	if err := cache.DeleteTrackingID(ctx, "lobby.mp4"); err != nil {
		t.Errorf("DeleteTrackingID() error = %v", err)
	}
}
