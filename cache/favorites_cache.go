package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisFavorites 用一个 Redis Set 保存收藏的曲目ID
type RedisFavorites struct {
	client *redis.Client
	key    string
}

func NewRedisFavorites(client *redis.Client, key string) *RedisFavorites {
	return &RedisFavorites{client: client, key: key}
}

// LoadFavorites 读取全部收藏
func (r *RedisFavorites) LoadFavorites(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return ids, nil
}

// SaveFavorite 添加收藏
func (r *RedisFavorites) SaveFavorite(ctx context.Context, id string) error {
	if err := r.client.SAdd(ctx, r.key, id).Err(); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// DeleteFavorite 取消收藏
func (r *RedisFavorites) DeleteFavorite(ctx context.Context, id string) error {
	if err := r.client.SRem(ctx, r.key, id).Err(); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
