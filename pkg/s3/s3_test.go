package s3

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
)

func TestFrameKey(t *testing.T) {
	if got := FrameKey("video_abc", 12); got != "frames/video_abc/000012.jpg" {
		t.Errorf("FrameKey() = %q", got)
	}
}

func TestMemoryStoreFrames(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if ok, _ := store.Exists(ctx, "video_a"); ok {
		t.Fatal("expected empty store")
	}

	if _, err := store.UploadFrameBatch(ctx, "video_a", 0, [][]byte{[]byte("f0"), []byte("f1")}); err != nil {
		t.Fatalf("UploadFrameBatch() error = %v", err)
	}
	loc, err := store.UploadFrameBatch(ctx, "video_a", 2, [][]byte{[]byte("f2")})
	if err != nil || loc == "" {
		t.Fatalf("UploadFrameBatch() = %q, %v", loc, err)
	}
	store.UploadFrames(ctx, "video_b", [][]byte{[]byte("b0")})
	store.UploadObject(ctx, "annotated/req/0.jpg", []byte("x"), "image/jpeg")

	ids, _ := store.List(ctx)
	if !reflect.DeepEqual(ids, []string{"video_a", "video_b"}) {
		t.Errorf("List() = %v", ids)
	}

	frames, err := store.GetFrames(ctx, "video_a")
	if err != nil {
		t.Fatalf("GetFrames() error = %v", err)
	}
	if len(frames) != 3 || !bytes.Equal(frames[2], []byte("f2")) {
		t.Errorf("unexpected frames %q", frames)
	}

	if ok, _ := store.Exists(ctx, "video_b"); !ok {
		t.Error("expected video_b to exist")
	}
	if url, err := store.PresignUrl("annotated/req/0.jpg"); err != nil || !strings.Contains(url, "X-Amz-Expires=900") {
		t.Errorf("PresignUrl() = %q, %v", url, err)
	}
	if _, err := store.PresignUrl("annotated/req/missing.jpg"); err == nil {
		t.Error("expected PresignUrl() to fail for a missing object")
	}
}
