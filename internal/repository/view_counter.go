package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const viewsKey = "articles:views"

// ArticleViews is one entry of the view leaderboard.
type ArticleViews struct {
	ArticleID string
	Views     int64
}

// ViewCounter aggregates article view counts in a Redis sorted set for the
// admin analytics surface. The durable count lives in postgres; this is the
// fast path for "most viewed".
type ViewCounter interface {
	Increment(ctx context.Context, articleID string) error
	Top(ctx context.Context, n int64) ([]ArticleViews, error)
}

type viewCounter struct {
	client *redis.Client
}

// NewViewCounter instantiates the Redis-backed counter.
func NewViewCounter(client *redis.Client) ViewCounter {
	return &viewCounter{client: client}
}

func (v *viewCounter) Increment(ctx context.Context, articleID string) error {
	return v.client.ZIncrBy(ctx, viewsKey, 1, articleID).Err()
}

func (v *viewCounter) Top(ctx context.Context, n int64) ([]ArticleViews, error) {
	if n <= 0 {
		n = 10
	}
	entries, err := v.client.ZRevRangeWithScores(ctx, viewsKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	top := make([]ArticleViews, 0, len(entries))
	for _, entry := range entries {
		id, ok := entry.Member.(string)
		if !ok {
			continue
		}
		top = append(top, ArticleViews{ArticleID: id, Views: int64(entry.Score)})
	}
	return top, nil
}
