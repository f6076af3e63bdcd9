// Package video turns uploaded video files into JPEG frames.
package video

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

const megabyte = 1024 * 1024

var (
	JpegSOI = []byte{0xFF, 0xD8}
	JpegEOI = []byte{0xFF, 0xD9}

	ErrNoFrames = errors.New("no frames could be extracted from video")
)

// TrackingID derives the identifier of a video from its file name only.
// Two uploads with the same name share an id whatever their content.
func TrackingID(videoName string) string {
	name := strings.TrimSpace(filepath.Base(videoName))
	hash := sha256.Sum256([]byte(name))
	return "video_" + hex.EncodeToString(hash[:])[:16]
}

type Extractor interface {
	// ExtractFrames returns every interval-th frame of the video as JPEG.
	ExtractFrames(ctx context.Context, video []byte, interval int) ([][]byte, error)
}

type ffmpegExtractor struct {
	binary string
}

func NewFFmpegExtractor(binary string) Extractor {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ffmpegExtractor{binary: binary}
}

// NewFFmpegCmd pipes the video through stdin and emits MJPEG frames on stdout.
func NewFFmpegCmd(ctx context.Context, binary string) *exec.Cmd {
	return exec.CommandContext(ctx, binary,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "image2pipe", "-vcodec", "mjpeg", "-",
	)
}

func (e *ffmpegExtractor) ExtractFrames(ctx context.Context, video []byte, interval int) ([][]byte, error) {
	if len(video) == 0 {
		return nil, errors.New("empty video payload")
	}
	if _, err := exec.LookPath(e.binary); err != nil {
		return nil, fmt.Errorf("ffmpeg not available: %w", err)
	}

	cmd := NewFFmpegCmd(ctx, e.binary)
	cmd.Stdin = bytes.NewReader(video)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	frames, scanErr := SelectFrames(out, interval)
	if scanErr != nil {
		io.Copy(io.Discard, out)
	}

	if err := cmd.Wait(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("ffmpeg failed: %w", err)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("split frames: %w", scanErr)
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return frames, nil
}

// SelectFrames splits an MJPEG stream and keeps frames 0, n, 2n, ...
func SelectFrames(r io.Reader, interval int) ([][]byte, error) {
	if interval <= 0 {
		interval = 1
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, megabyte), 64*megabyte)
	scanner.Split(SplitJpeg)

	var frames [][]byte
	index := 0
	for scanner.Scan() {
		if index%interval == 0 {
			frame := make([]byte, len(scanner.Bytes()))
			copy(frame, scanner.Bytes())
			frames = append(frames, frame)
		}
		index++
	}
	return frames, scanner.Err()
}

// SplitJpeg is a bufio.SplitFunc locating SOI/EOI markers of consecutive JPEGs.
func SplitJpeg(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	start := bytes.Index(data, JpegSOI)
	if start == -1 {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	end := bytes.Index(data[start:], JpegEOI)
	if end == -1 {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	return start + end + 2, data[start : start+end+2], nil
}
