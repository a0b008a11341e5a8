package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-passport-mrz/models"

	"github.com/redis/go-redis/v9"
)

// Should be safe to use in concurreny
type ReportCache interface {
	// Store the decode report for the given zone key.
	// Should overwrite an existing report without error.
	StoreReport(ctx context.Context, key string, report models.DecodeResponse) error

	// Retrieve the report for the given key. A missing report is not an
	// error: found is false in that case.
	RetrieveReport(ctx context.Context, key string) (report models.DecodeResponse, found bool, err error)
}

const ReportTimeout time.Duration = 24 * time.Hour

// reportKey identifies a zone without keeping the holder data in the key.
func reportKey(line1, line2 string) string {
	sum := sha256.Sum256([]byte(line1 + ";" + line2))
	return hex.EncodeToString(sum[:])
}

// ------------------------------------------------------------------------------

type RedisReportCache struct {
	client    *redis.Client
	namespace string
}

func NewRedisReportCache(client *redis.Client, namespace string) *RedisReportCache {
	return &RedisReportCache{client: client, namespace: namespace}
}

func createKey(namespace, key string) string {
	return fmt.Sprintf("%s:report:%s", namespace, key)
}

func (c *RedisReportCache) StoreReport(ctx context.Context, key string, report models.DecodeResponse) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return c.client.Set(ctx, createKey(c.namespace, key), payload, ReportTimeout).Err()
}

func (c *RedisReportCache) RetrieveReport(ctx context.Context, key string) (models.DecodeResponse, bool, error) {
	payload, err := c.client.Get(ctx, createKey(c.namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.DecodeResponse{}, false, nil
	}
	if err != nil {
		return models.DecodeResponse{}, false, err
	}

	var report models.DecodeResponse
	if err := json.Unmarshal(payload, &report); err != nil {
		return models.DecodeResponse{}, false, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return report, true, nil
}

// ------------------------------------------------------------------------------

const defaultMemoryCacheSize = 10000

type InMemoryReportCache struct {
	reports map[string]models.DecodeResponse
	maxSize int
	mutex   sync.Mutex
}

func NewInMemoryReportCache(maxSize int) *InMemoryReportCache {
	if maxSize <= 0 {
		maxSize = defaultMemoryCacheSize
	}
	return &InMemoryReportCache{
		reports: make(map[string]models.DecodeResponse),
		maxSize: maxSize,
	}
}

func (c *InMemoryReportCache) StoreReport(_ context.Context, key string, report models.DecodeResponse) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.reports[key]; !ok && len(c.reports) >= c.maxSize {
		// evict an arbitrary entry to stay within bounds
		for k := range c.reports {
			delete(c.reports, k)
			break
		}
	}
	c.reports[key] = report
	return nil
}

func (c *InMemoryReportCache) RetrieveReport(_ context.Context, key string) (models.DecodeResponse, bool, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	report, ok := c.reports[key]
	return report, ok, nil
}

func (c *InMemoryReportCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.reports)
}
