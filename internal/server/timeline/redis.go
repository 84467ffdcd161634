// Package timeline keeps feeds as Redis sorted sets, one per reader. The
// member is "author:post" and the score is the post time in milliseconds.
// The sets are the only copy of the feed when Redis is configured, so they
// never expire.
package timeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/redis/go-redis/v9"
)

type RedisTimeline struct {
	client redis.Cmdable
}

func NewRedisTimeline(client redis.Cmdable) *RedisTimeline {
	return &RedisTimeline{client: client}
}

func key(userID string) string {
	return "timeline:" + userID
}

func member(e models.FeedEntry) string {
	return e.AuthorID + ":" + e.PostID
}

func (r *RedisTimeline) Add(ctx context.Context, userIDs []string, entry models.FeedEntry) error {
	if len(userIDs) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	z := redis.Z{Score: float64(entry.CreatedAt.UnixMilli()), Member: member(entry)}
	for _, uid := range userIDs {
		pipe.ZAdd(ctx, key(uid), z)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (r *RedisTimeline) AddMany(ctx context.Context, userID string, entries []models.FeedEntry) error {
	if len(entries) == 0 {
		return nil
	}
	zs := make([]redis.Z, 0, len(entries))
	for _, e := range entries {
		zs = append(zs, redis.Z{Score: float64(e.CreatedAt.UnixMilli()), Member: member(e)})
	}
	if err := r.client.ZAdd(ctx, key(userID), zs...).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (r *RedisTimeline) Remove(ctx context.Context, userIDs []string, entry models.FeedEntry) error {
	if len(userIDs) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	m := member(entry)
	for _, uid := range userIDs {
		pipe.ZRem(ctx, key(uid), m)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (r *RedisTimeline) RemoveAuthor(ctx context.Context, userID, authorID string) error {
	members, err := r.client.ZRange(ctx, key(userID), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	prefix := authorID + ":"
	var drop []any
	for _, m := range members {
		if strings.HasPrefix(m, prefix) {
			drop = append(drop, m)
		}
	}
	if len(drop) == 0 {
		return nil
	}
	if err := r.client.ZRem(ctx, key(userID), drop...).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (r *RedisTimeline) List(ctx context.Context, userID string, limit, offset int) ([]models.FeedEntry, error) {
	results, err := r.client.ZRevRangeWithScores(ctx, key(userID), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	entries := make([]models.FeedEntry, 0, len(results))
	for _, z := range results {
		m, ok := z.Member.(string)
		if !ok {
			continue
		}
		authorID, postID, ok := strings.Cut(m, ":")
		if !ok {
			continue
		}
		entries = append(entries, models.FeedEntry{
			PostID:    postID,
			AuthorID:  authorID,
			CreatedAt: time.UnixMilli(int64(z.Score)).UTC(),
		})
	}
	return entries, nil
}
