package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"walletVolumeApp/internal/domain/model"
	"walletVolumeApp/internal/domain/repository"
)

// volumeRowsKey holds the latest full set of volume rows as one JSON blob.
// The set is small (one row per bucket start) and always replaced whole.
const volumeRowsKey = "usd_volume:rows"

// RedisRepository implements the VolumeCache interface using Redis as the backend.
// It provides a fast read path for the volume API, refreshed after each run.
type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(addr, password string, db int) *RedisRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisRepository{client: client}
}

// Ensure RedisRepository implements the VolumeCache interface
var _ repository.VolumeCache = (*RedisRepository)(nil)

// SaveVolumeRows replaces the cached row set.
func (r *RedisRepository) SaveVolumeRows(ctx context.Context, rows []model.VolumeRow) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal volume rows: %w", err)
	}
	return r.client.Set(ctx, volumeRowsKey, data, 0).Err()
}

// GetVolumeRows returns the cached row set, or nil when nothing is cached.
func (r *RedisRepository) GetVolumeRows(ctx context.Context) ([]model.VolumeRow, error) {
	data, err := r.client.Get(ctx, volumeRowsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Nothing cached yet
		}
		return nil, err
	}

	var rows []model.VolumeRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal volume rows: %w", err)
	}
	return rows, nil
}

// Close releases the underlying connection pool.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}
