package graph

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/repositories/follows"
)

// PostgresStore serves the graph from the follows table.
type PostgresStore struct {
	repo follows.Repository
}

func NewPostgresStore(repo follows.Repository) *PostgresStore {
	return &PostgresStore{repo: repo}
}

func (s *PostgresStore) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.repo.Create(ctx, followerID, followeeID)
}

func (s *PostgresStore) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.repo.Delete(ctx, followerID, followeeID)
}

func (s *PostgresStore) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.repo.Exists(ctx, followerID, followeeID)
}

func (s *PostgresStore) Followers(ctx context.Context, userID string) ([]string, error) {
	return s.repo.Followers(ctx, userID)
}

func (s *PostgresStore) Following(ctx context.Context, userID string) ([]string, error) {
	return s.repo.Following(ctx, userID)
}

func (s *PostgresStore) Counts(ctx context.Context, userID string) (int64, int64, error) {
	return s.repo.Counts(ctx, userID)
}

func (s *PostgresStore) StreamFollowers(ctx context.Context, userID string, batchSize int, yield func([]string) error) error {
	ids, err := s.repo.Followers(ctx, userID)
	if err != nil {
		return err
	}
	return Batches(ids, batchSize, yield)
}

// Batches splits ids into consecutive chunks of at most size elements.
func Batches(ids []string, size int, yield func([]string) error) error {
	if size <= 0 {
		size = len(ids)
	}
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		if err := yield(ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}
