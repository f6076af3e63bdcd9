package s3

import (
	"bytes"
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
)

const (
	framesPrefix  = "frames/"
	PresignExpiry = 15 * time.Minute
)

// ItfS3 stores extracted video frames under frames/<trackingID>/<index>.jpg
// and arbitrary objects such as annotated frames.
type ItfS3 interface {
	UploadFrames(ctx context.Context, trackingID string, frames [][]byte) (string, error)
	UploadFrameBatch(ctx context.Context, trackingID string, offset int, frames [][]byte) (string, error)
	Exists(ctx context.Context, trackingID string) (bool, error)
	List(ctx context.Context) ([]string, error)
	GetFrames(ctx context.Context, trackingID string) ([][]byte, error)
	UploadObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PresignUrl(key string) (string, error)
}

type s3Client struct {
	client     *s3.S3
	session    *session.Session
	uploader   *s3manager.Uploader
	bucketName string
}

func New() (ItfS3, error) {
	bucket := os.Getenv("AWS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET_NAME is not set")
	}

	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client:     s3.New(sess),
		session:    sess,
		uploader:   s3manager.NewUploader(sess),
		bucketName: bucket,
	}, nil
}

func FrameKey(trackingID string, index int) string {
	return fmt.Sprintf("%s%s/%06d.jpg", framesPrefix, trackingID, index)
}

func framesDir(trackingID string) string {
	return framesPrefix + trackingID + "/"
}

func (s *s3Client) UploadFrames(ctx context.Context, trackingID string, frames [][]byte) (string, error) {
	return s.UploadFrameBatch(ctx, trackingID, 0, frames)
}

// UploadFrameBatch writes frames starting at index offset and returns the
// location of the frame folder.
func (s *s3Client) UploadFrameBatch(ctx context.Context, trackingID string, offset int, frames [][]byte) (string, error) {
	for i, frame := range frames {
		if _, err := s.UploadObject(ctx, FrameKey(trackingID, offset+i), frame, "image/jpeg"); err != nil {
			return "", fmt.Errorf("upload frame %d: %w", offset+i, err)
		}
	}
	return fmt.Sprintf("s3://%s/%s", s.bucketName, framesDir(trackingID)), nil
}

func (s *s3Client) UploadObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	uploadOutput, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return uploadOutput.Location, nil
}

func (s *s3Client) Exists(ctx context.Context, trackingID string) (bool, error) {
	out, err := s.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucketName),
		Prefix:  aws.String(framesDir(trackingID)),
		MaxKeys: aws.Int64(1),
	})
	if err != nil {
		return false, err
	}
	return aws.Int64Value(out.KeyCount) > 0, nil
}

// List returns the tracking ids that have frames stored.
func (s *s3Client) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucketName),
		Prefix:    aws.String(framesPrefix),
		Delimiter: aws.String("/"),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, p := range page.CommonPrefixes {
			id := strings.TrimSuffix(strings.TrimPrefix(aws.StringValue(p.Prefix), framesPrefix), "/")
			if id != "" {
				ids = append(ids, id)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(ids)
	return ids, nil
}

// GetFrames downloads every frame of a video in index order.
func (s *s3Client) GetFrames(ctx context.Context, trackingID string) ([][]byte, error) {
	var keys []string
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(framesDir(trackingID)),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	frames := make([][]byte, 0, len(keys))
	for _, key := range keys {
		out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		data, err := io.ReadAll(out.Body)
		out.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		frames = append(frames, data)
	}
	return frames, nil
}

func (s *s3Client) PresignUrl(key string) (string, error) {
	_, err := s.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("file does not exist: %w", err)
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})

	return req.Presign(PresignExpiry)
}

func newSession() (*session.Session, error) {
	cfg := &aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	}

	// S3 compatible stores such as MinIO.
	if endpoint := os.Getenv("AWS_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	return session.NewSession(cfg)
}
