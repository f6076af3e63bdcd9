package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

const videoKeyPrefix = "video:tracking:"

// IRedis caches the tracking id computed for a video, keyed by its file name.
type IRedis interface {
	GetTrackingID(ctx context.Context, videoName string) (string, bool, error)
	SetTrackingID(ctx context.Context, videoName string, trackingID string) error
	DeleteTrackingID(ctx context.Context, videoName string) error
	Close() error
}

type redisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects using REDIS_ADDRESS, REDIS_PASSWORD and REDIS_DB. A ttl of
// zero keeps entries forever.
func New(ttl time.Duration) IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewWithClient(client, ttl)
}

func NewWithClient(client *redis.Client, ttl time.Duration) IRedis {
	return &redisClient{client: client, ttl: ttl}
}

func videoKey(videoName string) string {
	return videoKeyPrefix + videoName
}

func (r *redisClient) GetTrackingID(ctx context.Context, videoName string) (string, bool, error) {
	key := videoKey(videoName)
	logrus.Debug(fmt.Sprintf("Getting tracking id for key %s", key))

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("Tracking id not found for key %s", key))
		return "", false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting tracking id for key %s: %v", key, err))
		return "", false, err
	}
	return val, true, nil
}

func (r *redisClient) SetTrackingID(ctx context.Context, videoName string, trackingID string) error {
	key := videoKey(videoName)
	logrus.Debug(fmt.Sprintf("Setting tracking id for key %s with expiration %v", key, r.ttl))

	if err := r.client.Set(ctx, key, trackingID, r.ttl).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting tracking id for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) DeleteTrackingID(ctx context.Context, videoName string) error {
	key := videoKey(videoName)
	result, err := r.client.Del(ctx, key).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting tracking id for key %s: %v", key, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Tracking id key %s not found for deletion", key))
	}
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
