package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Logger        Logger
	Redis         RedisConfig
	S3            S3Config
	Pipeline      PipelineConfig
	Storage       StorageConfig
	Notifications NotificationsConfig
	Enrich        EnrichConfig
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
}

type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	PublicDomain string
}

type PipelineConfig struct {
	TickIntervalMs   int
	CompressionRatio float64
	MaxCPUUsage      float64
}

type StorageConfig struct {
	QuotaBytes int64
}

type NotificationsConfig struct {
	TimeoutMs int
}

type EnrichConfig struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Pipeline.TickIntervalMs <= 0 {
		c.Pipeline.TickIntervalMs = 200
	}
	if c.Pipeline.CompressionRatio <= 0 || c.Pipeline.CompressionRatio >= 1 {
		c.Pipeline.CompressionRatio = 0.20
	}
	if c.Storage.QuotaBytes <= 0 {
		c.Storage.QuotaBytes = 10 * 1024 * 1024 * 1024
	}
	if c.Notifications.TimeoutMs <= 0 {
		c.Notifications.TimeoutMs = 3000
	}
}
