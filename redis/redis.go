package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

type RedisConfig struct {
	Host      string `json:"host" env:"MRZ_REDIS_HOST"`
	Port      int    `json:"port" env:"MRZ_REDIS_PORT"`
	Password  string `json:"password" env:"MRZ_REDIS_PASSWORD"`
	Namespace string `json:"namespace" env:"MRZ_REDIS_NAMESPACE"`
}

type RedisSentinelConfig struct {
	SentinelHost     string `json:"sentinel_host" env:"MRZ_SENTINEL_HOST"`
	SentinelPort     int    `json:"sentinel_port" env:"MRZ_SENTINEL_PORT"`
	Password         string `json:"password" env:"MRZ_SENTINEL_PASSWORD"`
	MasterName       string `json:"master_name" env:"MRZ_SENTINEL_MASTER_NAME"`
	SentinelUsername string `json:"sentinel_username" env:"MRZ_SENTINEL_USERNAME"`
	Namespace        string `json:"namespace" env:"MRZ_SENTINEL_NAMESPACE"`
}

// NewRedisClient connects to a single redis instance and checks it responds.
func NewRedisClient(config *RedisConfig) (*redis.Client, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("redis host is not configured")
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	slog.Info("Connecting to redis", "address", addr)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Password,
		DB:       0,
	})

	if err := ping(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisSentinelClient connects to the master named in config through a sentinel.
func NewRedisSentinelClient(config *RedisSentinelConfig) (*redis.Client, error) {
	if config.MasterName == "" {
		return nil, fmt.Errorf("redis sentinel master name is not configured")
	}

	addr := fmt.Sprintf("%s:%d", config.SentinelHost, config.SentinelPort)
	slog.Info("Connecting to redis through sentinel", "sentinel_address", addr, "master", config.MasterName)

	client := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:       config.MasterName,
		SentinelAddrs:    []string{addr},
		SentinelUsername: config.SentinelUsername,
		SentinelPassword: config.Password,
		Password:         config.Password,
		DB:               0,
	})

	if err := ping(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis through Sentinel: %w", err)
	}
	return client, nil
}

func ping(client *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
