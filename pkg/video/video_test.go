package video

import (
	"bytes"
	"strings"
	"testing"
)

func TestTrackingIDIsNameAddressed(t *testing.T) {
	a := TrackingID("lobby-camera.mp4")
	b := TrackingID("lobby-camera.mp4")
	c := TrackingID("parking-camera.mp4")

	if a != b {
		t.Errorf("same name produced %s and %s", a, b)
	}
	if a == c {
		t.Errorf("different names produced the same id %s", a)
	}
	if !strings.HasPrefix(a, "video_") || len(a) != len("video_")+16 {
		t.Errorf("unexpected id format %q", a)
	}
}

func TestTrackingIDIgnoresDirectory(t *testing.T) {
	if TrackingID("/tmp/upload/clip.mp4") != TrackingID("clip.mp4") {
		t.Error("expected id to depend on the base name only")
	}
}

func fakeJpeg(payload string) []byte {
	var b bytes.Buffer
	b.Write(JpegSOI)
	b.WriteString(payload)
	b.Write(JpegEOI)
	return b.Bytes()
}

func TestSelectFrames(t *testing.T) {
	var stream bytes.Buffer
	for _, p := range []string{"zero", "one", "two", "three", "four"} {
		stream.Write(fakeJpeg(p))
	}
	stream.WriteString("trailing")

	tests := []struct {
		interval int
		want     []string
	}{
		{1, []string{"zero", "one", "two", "three", "four"}},
		{2, []string{"zero", "two", "four"}},
		{10, []string{"zero"}},
		{0, []string{"zero", "one", "two", "three", "four"}},
	}

	for _, tt := range tests {
		frames, err := SelectFrames(bytes.NewReader(stream.Bytes()), tt.interval)
		if err != nil {
			t.Fatalf("SelectFrames() error = %v", err)
		}
		if len(frames) != len(tt.want) {
			t.Fatalf("interval %d: got %d frames, want %d", tt.interval, len(frames), len(tt.want))
		}
		for i, w := range tt.want {
			if !bytes.Equal(frames[i], fakeJpeg(w)) {
				t.Errorf("interval %d frame %d = %q", tt.interval, i, frames[i])
			}
		}
	}
}

func TestSplitJpegNeedsMoreData(t *testing.T) {
	advance, token, err := SplitJpeg(append(JpegSOI, 'x'), false)
	if advance != 0 || token != nil || err != nil {
		t.Errorf("expected request for more data, got %d %q %v", advance, token, err)
	}
}
