package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

type GraphService struct {
	deps     Deps
	notifier *NotificationService
}

func NewGraphService(d Deps, notifier *NotificationService) *GraphService {
	d = d.withDefaults()
	d.Logger = d.Logger.With("module", "graph")
	return &GraphService{deps: d, notifier: notifier}
}

// Follow creates the edge follower -> followee. Following twice is a no-op.
// A new edge backfills the followee's posts into the follower's feed and
// notifies the followee.
func (s *GraphService) Follow(ctx context.Context, followerID, followeeID string) error {
	if err := requireActor(followerID); err != nil {
		return err
	}
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", common.ErrValidation)
	}

	conn := s.deps.DB.Conn()
	if _, err := s.deps.Repos.Users(conn).GetByID(ctx, followeeID); err != nil {
		return err
	}

	added, err := s.deps.Graph.Follow(ctx, followerID, followeeID)
	if err != nil || !added {
		return err
	}

	bg := context.WithoutCancel(ctx)
	if err := s.backfill(bg, followerID, followeeID); err != nil {
		s.deps.Logger.Warn(ctx, "feed backfill failed", "follower_id", followerID, "followee_id", followeeID, "error", err)
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(bg, followeeID, followerID, models.NotificationFollow, ""); err != nil {
			s.deps.Logger.Warn(ctx, "follow notify failed", "followee_id", followeeID, "error", err)
		}
	}
	return nil
}

func (s *GraphService) backfill(ctx context.Context, followerID, followeeID string) error {
	posts, err := s.deps.Repos.Posts(s.deps.DB.Conn()).ListByOwner(ctx, followeeID)
	if err != nil {
		return err
	}
	entries := make([]models.FeedEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, p.Entry())
	}
	return s.deps.Feeds.AddMany(ctx, followerID, entries)
}

// Unfollow removes the edge if present, drops the followee's posts from the
// follower's feed and revokes the follow notification.
func (s *GraphService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := requireActor(followerID); err != nil {
		return err
	}

	removed, err := s.deps.Graph.Unfollow(ctx, followerID, followeeID)
	if err != nil || !removed {
		return err
	}

	bg := context.WithoutCancel(ctx)
	if err := s.deps.Feeds.RemoveAuthor(bg, followerID, followeeID); err != nil {
		s.deps.Logger.Warn(ctx, "feed purge failed", "follower_id", followerID, "followee_id", followeeID, "error", err)
	}
	if s.notifier != nil {
		if err := s.notifier.Revoke(bg, followeeID, followerID, models.NotificationFollow, ""); err != nil {
			s.deps.Logger.Warn(ctx, "follow revoke failed", "followee_id", followeeID, "error", err)
		}
	}
	return nil
}

func (s *GraphService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.deps.Graph.IsFollowing(ctx, followerID, followeeID)
}

func (s *GraphService) Followers(ctx context.Context, userID string) ([]string, error) {
	return s.deps.Graph.Followers(ctx, userID)
}

func (s *GraphService) Following(ctx context.Context, userID string) ([]string, error) {
	return s.deps.Graph.Following(ctx, userID)
}
