package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppPort   string
	BodyLimit int

	DetectorURL        string
	DetectorWSURL      string
	DetectorPrimary    string
	DetectorTimeout    time.Duration
	DetectorConfidence float64
	DetectorNMS        float64

	ONNXModelPath   string
	ONNXLibraryPath string
	ONNXInputSize   int
	ONNXPoolSize    int

	AssociationIoU        float64
	AssociationMargin     float64
	TrackIoU              float64
	MatchParallelism      int
	HeightToleranceMeters float64
	ReferenceFrameHeightM float64
	VideoFrameInterval    int
	VideoUploadBatch      int
	VideoCacheTTL         time.Duration
	FFmpegBinary          string
	RateLimitPerSecond    float64
	RateLimitBurst        int
	RedisAddress          string
	AWSBucketName         string
}

// LoadEnv reads the process environment. Unset variables take their
// defaults; malformed ones are reported.
func LoadEnv() (Env, error) {
	r := envReader{}

	env := Env{
		AppPort:   r.str("APP_PORT", "3000"),
		BodyLimit: r.integer("BODY_LIMIT_MB", 512) * 1024 * 1024,

		DetectorURL:        r.str("DETECTOR_URL", ""),
		DetectorWSURL:      r.str("DETECTOR_WS_URL", ""),
		DetectorPrimary:    strings.ToLower(r.str("DETECTOR_PRIMARY", "http")),
		DetectorTimeout:    r.duration("DETECTOR_TIMEOUT", 30*time.Second),
		DetectorConfidence: r.float("DETECTOR_CONFIDENCE", 0.45),
		DetectorNMS:        r.float("DETECTOR_NMS", 0.5),

		ONNXModelPath:   r.str("ONNX_MODEL_PATH", ""),
		ONNXLibraryPath: r.str("ONNX_LIBRARY_PATH", ""),
		ONNXInputSize:   r.integer("ONNX_INPUT_SIZE", 640),
		ONNXPoolSize:    r.integer("ONNX_POOL_SIZE", 0),

		AssociationIoU:        r.float("ASSOCIATION_IOU", 0.1),
		AssociationMargin:     r.float("ASSOCIATION_MARGIN", 0.2),
		TrackIoU:              r.float("TRACK_IOU", 0.3),
		MatchParallelism:      r.integer("MATCH_PARALLELISM", 0),
		HeightToleranceMeters: r.float("HEIGHT_TOLERANCE_M", 0.10),
		ReferenceFrameHeightM: r.float("REFERENCE_FRAME_HEIGHT_M", 2.5),
		VideoFrameInterval:    r.integer("VIDEO_FRAME_INTERVAL", 10),
		VideoUploadBatch:      r.integer("VIDEO_UPLOAD_BATCH", 10),
		VideoCacheTTL:         r.duration("VIDEO_CACHE_TTL", 0),
		FFmpegBinary:          r.str("FFMPEG_BINARY", "ffmpeg"),
		RateLimitPerSecond:    r.float("RATE_LIMIT_RPS", 50),
		RateLimitBurst:        r.integer("RATE_LIMIT_BURST", 100),
		RedisAddress:          r.str("REDIS_ADDRESS", ""),
		AWSBucketName:         r.str("AWS_BUCKET_NAME", ""),
	}

	if len(r.errs) > 0 {
		return env, fmt.Errorf("invalid environment: %s", strings.Join(r.errs, "; "))
	}

	switch env.DetectorPrimary {
	case "http", "ws":
	default:
		return env, fmt.Errorf("invalid environment: DETECTOR_PRIMARY must be http or ws, got %q", env.DetectorPrimary)
	}

	return env, nil
}

type envReader struct {
	errs []string
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return n
}

func (r *envReader) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return f
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return d
}
