package storage

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jktools/mediatools/internal/models"
)

const (
	cacheKeyPrefix = "media_cache:"
	jobKeyPrefix   = "media_job:"
)

// GetFromCache returns cached bytes for a key, or (nil, nil) on a miss.
func (s *Service) GetFromCache(ctx context.Context, cacheKey string) ([]byte, error) {
	data, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}
	return data, nil
}

func (s *Service) SetCache(ctx context.Context, cacheKey string, data []byte) error {
	return s.redisClient.Set(ctx, cacheKey, data, s.cacheDuration).Err()
}

// GenerateCacheKey hashes the source name and the conversion parameters so
// identical requests hit the same entry.
func (s *Service) GenerateCacheKey(sourceName string, convert models.ConvertRequest, resize *models.ResizeRequest) string {
	hash := md5.New()
	hash.Write([]byte(sourceName))
	hash.Write([]byte(fmt.Sprintf("convert_%s_%d_%t_%t",
		convert.TargetFormat, convert.Quality, convert.RemoveMetadata, convert.Optimize)))

	if resize != nil {
		hash.Write([]byte(fmt.Sprintf("resize_%d_%d_%d_%t",
			resize.Width, resize.Height, resize.Percentage, resize.MaintainAspect)))
	}

	return fmt.Sprintf("%s%x", cacheKeyPrefix, hash.Sum(nil))
}

// SetJob persists job state so clients can poll it.
func (s *Service) SetJob(ctx context.Context, job *models.ConversionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return s.redisClient.Set(ctx, jobKeyPrefix+job.ID, data, s.cacheDuration).Err()
}

// GetJob returns a stored job, or (nil, nil) when unknown.
func (s *Service) GetJob(ctx context.Context, id string) (*models.ConversionJob, error) {
	data, err := s.redisClient.Get(ctx, jobKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("job get error: %w", err)
	}

	var job models.ConversionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// CleanupCache drops expired cache entries.
func (s *Service) CleanupCache(ctx context.Context) error {
	keys, err := s.redisClient.Keys(ctx, cacheKeyPrefix+"*").Result()
	if err != nil {
		return err
	}

	for _, key := range keys {
		ttl := s.redisClient.TTL(ctx, key).Val()
		if ttl <= 0 {
			s.redisClient.Del(ctx, key)
		}
	}

	return nil
}
