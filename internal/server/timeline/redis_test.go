package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimeline(t *testing.T) (*RedisTimeline, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTimeline(client), mr
}

var base = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func entry(post, author string, offset time.Duration) models.FeedEntry {
	return models.FeedEntry{PostID: post, AuthorID: author, CreatedAt: base.Add(offset)}
}

func TestAddAndList_NewestFirst(t *testing.T) {
	ctx := context.Background()
	tl, mr := newTimeline(t)

	require.NoError(t, tl.Add(ctx, []string{"f1", "f2"}, entry("p1", "a", 0)))
	require.NoError(t, tl.Add(ctx, []string{"f1"}, entry("p2", "b", time.Minute)))
	// Re-running a fan-out must not duplicate.
	require.NoError(t, tl.Add(ctx, []string{"f1"}, entry("p1", "a", 0)))

	got, err := tl.List(ctx, "f1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []models.FeedEntry{entry("p2", "b", time.Minute), entry("p1", "a", 0)}, got)

	got, err = tl.List(ctx, "f2", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []models.FeedEntry{entry("p1", "a", 0)}, got)

	assert.Zero(t, mr.TTL("timeline:f1"))
}

func TestFeedOutlivesQuietPeriods(t *testing.T) {
	ctx := context.Background()
	tl, mr := newTimeline(t)

	require.NoError(t, tl.Add(ctx, []string{"f1"}, entry("p1", "a", 0)))
	require.NoError(t, tl.AddMany(ctx, "f2", []models.FeedEntry{entry("p1", "a", 0)}))

	// Nobody followed posts anything for a year.
	mr.FastForward(365 * 24 * time.Hour)

	for _, u := range []string{"f1", "f2"} {
		got, err := tl.List(ctx, u, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, []models.FeedEntry{entry("p1", "a", 0)}, got, u)
	}
}

func TestList_Paging(t *testing.T) {
	ctx := context.Background()
	tl, _ := newTimeline(t)

	require.NoError(t, tl.AddMany(ctx, "u", []models.FeedEntry{
		entry("p1", "a", 0), entry("p2", "a", time.Second), entry("p3", "a", 2*time.Second),
	}))

	got, err := tl.List(ctx, "u", 2, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].PostID)
	assert.Equal(t, "p1", got[1].PostID)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	tl, _ := newTimeline(t)

	e := entry("p1", "a", 0)
	require.NoError(t, tl.Add(ctx, []string{"f1", "f2"}, e))
	require.NoError(t, tl.Remove(ctx, []string{"f1", "f2", "never-had-it"}, e))

	for _, u := range []string{"f1", "f2"} {
		got, err := tl.List(ctx, u, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestRemoveAuthor(t *testing.T) {
	ctx := context.Background()
	tl, _ := newTimeline(t)

	require.NoError(t, tl.AddMany(ctx, "u", []models.FeedEntry{
		entry("p1", "a", 0), entry("p2", "b", time.Second), entry("p3", "a", 2*time.Second),
	}))
	require.NoError(t, tl.RemoveAuthor(ctx, "u", "a"))
	require.NoError(t, tl.RemoveAuthor(ctx, "u", "nobody"))

	got, err := tl.List(ctx, "u", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []models.FeedEntry{entry("p2", "b", time.Second)}, got)
}

func TestEmptyInputsAreNoops(t *testing.T) {
	ctx := context.Background()
	tl, mr := newTimeline(t)

	require.NoError(t, tl.Add(ctx, nil, entry("p1", "a", 0)))
	require.NoError(t, tl.AddMany(ctx, "u", nil))
	require.NoError(t, tl.Remove(ctx, nil, entry("p1", "a", 0)))
	assert.Empty(t, mr.Keys())
}

func TestRedisDown(t *testing.T) {
	ctx := context.Background()
	tl, mr := newTimeline(t)
	mr.Close()

	err := tl.Add(ctx, []string{"f1"}, entry("p1", "a", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}
