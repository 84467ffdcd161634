package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFollows struct {
	edges map[[2]string]bool
	err   error
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{edges: map[[2]string]bool{}}
}

func (f *fakeFollows) Create(_ context.Context, a, b string) (bool, error) {
	if f.edges[[2]string{a, b}] {
		return false, nil
	}
	f.edges[[2]string{a, b}] = true
	return true, nil
}

func (f *fakeFollows) Delete(_ context.Context, a, b string) (bool, error) {
	had := f.edges[[2]string{a, b}]
	delete(f.edges, [2]string{a, b})
	return had, nil
}

func (f *fakeFollows) Exists(_ context.Context, a, b string) (bool, error) {
	return f.edges[[2]string{a, b}], nil
}

func (f *fakeFollows) Followers(_ context.Context, u string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []string
	for e := range f.edges {
		if e[1] == u {
			out = append(out, e[0])
		}
	}
	return out, nil
}

func (f *fakeFollows) Following(_ context.Context, u string) ([]string, error) {
	var out []string
	for e := range f.edges {
		if e[0] == u {
			out = append(out, e[1])
		}
	}
	return out, nil
}

func (f *fakeFollows) Counts(ctx context.Context, u string) (int64, int64, error) {
	a, _ := f.Followers(ctx, u)
	b, _ := f.Following(ctx, u)
	return int64(len(a)), int64(len(b)), nil
}

func TestPostgresStore_FollowUnfollow(t *testing.T) {
	ctx := context.Background()
	s := NewPostgresStore(newFakeFollows())

	created, err := s.Follow(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.Follow(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, created)

	ok, err := s.IsFollowing(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	followers, following, err := s.Counts(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)
	assert.Equal(t, int64(0), following)

	removed, err := s.Unfollow(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Unfollow(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPostgresStore_StreamFollowers(t *testing.T) {
	ctx := context.Background()
	repo := newFakeFollows()
	s := NewPostgresStore(repo)
	for _, f := range []string{"f1", "f2", "f3", "f4", "f5"} {
		_, _ = s.Follow(ctx, f, "star")
	}

	var sizes []int
	var all []string
	err := s.StreamFollowers(ctx, "star", 2, func(batch []string) error {
		sizes = append(sizes, len(batch))
		all = append(all, batch...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.ElementsMatch(t, []string{"f1", "f2", "f3", "f4", "f5"}, all)

	repo.err = errors.New("db down")
	err = s.StreamFollowers(ctx, "star", 2, func([]string) error { return nil })
	assert.EqualError(t, err, "db down")
}

func TestBatches(t *testing.T) {
	var got [][]string
	collect := func(b []string) error {
		got = append(got, b)
		return nil
	}

	require.NoError(t, Batches([]string{"a", "b", "c"}, 2, collect))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, got)

	got = nil
	require.NoError(t, Batches([]string{"a", "b"}, 0, collect))
	assert.Equal(t, [][]string{{"a", "b"}}, got)

	got = nil
	require.NoError(t, Batches(nil, 2, collect))
	assert.Empty(t, got)

	stop := errors.New("stop")
	calls := 0
	err := Batches([]string{"a", "b", "c"}, 1, func([]string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*Neo4jStore)(nil)
)
