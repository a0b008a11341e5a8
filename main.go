package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go-passport-mrz/config"
	"go-passport-mrz/logging"
	"go-passport-mrz/metrics"
	redis "go-passport-mrz/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Config struct {
	ServerConfig ServerConfig `json:"server_config"`

	LogLevel  string `json:"log_level" env:"MRZ_LOG_LEVEL"`
	LogFormat string `json:"log_format" env:"MRZ_LOG_FORMAT"`

	StorageType         string                    `json:"storage_type" env:"MRZ_STORAGE_TYPE"`
	MemoryCacheSize     int                       `json:"memory_cache_size,omitempty" env:"MRZ_MEMORY_CACHE_SIZE"`
	RedisConfig         redis.RedisConfig         `json:"redis_config,omitempty"`
	RedisSentinelConfig redis.RedisSentinelConfig `json:"redis_sentinel_config,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Path for the config.json to use")
	flag.Parse()

	if *configPath == "" {
		slog.Error("please provide a config path using the --config flag")
		os.Exit(1)
	}

	config, err := readConfigFile(*configPath)
	if err != nil {
		slog.Error("failed to read config file", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(config.LogLevel, config.LogFormat)
	slog.Info("using config", "path", *configPath, "log_level", config.LogLevel)
	slog.Info("hosting on", "host", config.ServerConfig.Host, "port", config.ServerConfig.Port)

	reportCache, err := createReportCache(&config)
	if err != nil {
		slog.Error("failed to instantiate report cache", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	serverState := ServerState{
		reportCache:     reportCache,
		converter:       HolderDataConverterImpl{},
		dataGroupReader: DataGroupReaderImpl{},
		metrics:         metrics.New(registry),
		gatherer:        registry,
	}

	server, err := NewServer(&serverState, config.ServerConfig)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	err = server.ListenAndServe()
	if err != nil {
		slog.Error("failed to listen and serve", "error", err)
		os.Exit(1)
	}
}

func readConfigFile(path string) (Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func createReportCache(config *Config) (ReportCache, error) {
	if config.StorageType == "redis" {
		slog.Info("Using redis report cache")
		client, err := redis.NewRedisClient(&config.RedisConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisReportCache(client, config.RedisConfig.Namespace), nil
	}
	if config.StorageType == "redis_sentinel" {
		slog.Info("Using redis sentinel report cache")
		client, err := redis.NewRedisSentinelClient(&config.RedisSentinelConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisReportCache(client, config.RedisSentinelConfig.Namespace), nil
	}
	if config.StorageType == "memory" || config.StorageType == "" {
		slog.Info("Using in memory report cache", "max_size", config.MemoryCacheSize)
		return NewInMemoryReportCache(config.MemoryCacheSize), nil
	}
	return nil, fmt.Errorf("%v is not a valid storage type", config.StorageType)
}
