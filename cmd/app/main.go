package main

import (
	"PersonTracking/internal/config"
	"PersonTracking/pkg/log"
	"PersonTracking/pkg/redis"
	"github.com/joho/godotenv"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.NewLogger().Fatalf("Error loading .env file: %v", err)
	}
	logger := log.NewLogger()

	env, err := config.LoadEnv()
	if err != nil {
		logger.Fatal(err)
	}

	fiberApp := config.NewFiber(logger, env.BodyLimit)
	validator := config.NewValidator()

	detector, closeDetector, err := config.NewDetector(env, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer closeDetector()

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithEnv(env),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDetector(detector),
		config.WithMiddleware(),
		config.WithUtils(),
	}
	if env.RedisAddress != "" {
		options = append(options, config.WithRedisCache(redis.New(env.VideoCacheTTL)))
	}
	if env.AWSBucketName != "" {
		options = append(options, config.WithS3Store())
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
