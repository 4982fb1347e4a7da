package main

import (
	"log"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"

	"github.com/cloudstreamhq/studio-backend/internal/config"
	"github.com/cloudstreamhq/studio-backend/internal/server"
	awsdb "github.com/cloudstreamhq/studio-backend/pkg/db/aws"
	redisdb "github.com/cloudstreamhq/studio-backend/pkg/db/redis"
	"github.com/cloudstreamhq/studio-backend/pkg/logger"
)

func main() {
	log.Println("Starting server")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	// redis and s3 are optional; without them the pipeline runs purely
	// in memory with presigned uploads disabled
	var redisClient *redis.Client
	if cfg.Redis.RedisAddr != "" {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			appLogger.Warnf("could not connect to redis: %s", err)
			redisClient = nil
		} else {
			appLogger.Infof("redis connected")
			defer redisClient.Close()
		}
	}

	var s3Client *s3.Client
	var presignClient *s3.PresignClient
	if cfg.S3.Endpoint != "" {
		s3Client, presignClient, err = awsdb.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			appLogger.Warnf("could not connect to s3: %s", err)
			s3Client, presignClient = nil, nil
		} else {
			appLogger.Infof("s3 client ready")
		}
	}

	s := server.NewServer(cfg, redisClient, s3Client, presignClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Infof("could not start server: %s", err)
	}
}
