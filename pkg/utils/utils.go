package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/oklog/ulid/v2"
)

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrNotAnImage      = errors.New("uploaded file is not an image")
	ErrNotAVideo       = errors.New("uploaded file is not a video")
	ErrEmptyBase64Data = errors.New("empty base64 image payload")
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
}

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
	ValidateVideoFile(file *multipart.FileHeader) error
	ReadFile(file *multipart.FileHeader) ([]byte, error)
	DecodeBase64Image(payload string) ([]byte, error)
	FitWithin(img image.Image, maxWidth, maxHeight uint) image.Image
}

type utils struct {
	maxImageSize int64
	maxVideoSize int64
}

func New() IUtils {
	return &utils{
		maxImageSize: 10 * 1024 * 1024,
		maxVideoSize: 500 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxImageSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	return nil
}

// ValidateVideoFile accepts either a video/* content type or a known video
// extension, since many clients upload with application/octet-stream.
func (u *utils) ValidateVideoFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxVideoSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !strings.HasPrefix(contentType, "video/") && !videoExtensions[ext] {
		return ErrNotAVideo
	}

	return nil
}

func (u *utils) ReadFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

// DecodeBase64Image accepts raw base64 or a data URI such as
// "data:image/jpeg;base64,...".
func (u *utils) DecodeBase64Image(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, ","); idx >= 0 {
			payload = payload[idx+1:]
		}
	}
	if payload == "" {
		return nil, ErrEmptyBase64Data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, err
		}
	}

	return data, nil
}

// FitWithin downscales img to fit the given bounds, keeping its aspect ratio.
// Images already inside the bounds are returned unchanged.
func (u *utils) FitWithin(img image.Image, maxWidth, maxHeight uint) image.Image {
	bounds := img.Bounds()
	if uint(bounds.Dx()) <= maxWidth && uint(bounds.Dy()) <= maxHeight {
		return img
	}

	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
}
