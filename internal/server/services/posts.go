package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/server/caption"
	"github.com/dmitrijs2005/photofeed/internal/server/events"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/feeds"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PostService struct {
	deps     Deps
	notifier *NotificationService
	fanout   FanoutOptions
	now      func() time.Time
}

func NewPostService(d Deps, notifier *NotificationService, fanout FanoutOptions) *PostService {
	d = d.withDefaults()
	d.Logger = d.Logger.With("module", "posts")
	if fanout.BatchSize <= 0 {
		fanout.BatchSize = defaultFanoutBatch
	}
	fanout.BatchSize = min(fanout.BatchSize, feeds.MaxRowsPerInsert)
	if fanout.Concurrency <= 0 {
		fanout.Concurrency = defaultFanoutConcurrency
	}
	return &PostService{deps: d, notifier: notifier, fanout: fanout, now: time.Now}
}

// FanoutResult reports how a fan-out went. Failed batches are not retried.
type FanoutResult struct {
	Delivered     int
	FailedBatches int
}

// CreatePost uploads the image, stores the post with its hashtags in one
// transaction and then copies it into every follower's feed. A failed
// upload aborts before anything is written; a partial fan-out does not
// fail the call.
func (s *PostService) CreatePost(ctx context.Context, ownerID string, image []byte, contentType, text string) (*models.Post, error) {
	if err := requireActor(ownerID); err != nil {
		return nil, err
	}

	url, err := s.deps.Store.Upload(ctx, image, contentType)
	if err != nil {
		if errors.Is(err, common.ErrValidation) || errors.Is(err, common.ErrStorageUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	post := &models.Post{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ImageURL:  url,
		Caption:   text,
		Hashtags:  caption.Hashtags(text),
		CreatedAt: s.now().UTC(),
	}

	err = s.deps.DB.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.deps.Repos.Posts(tx).Create(ctx, post); err != nil {
			return err
		}
		return s.deps.Repos.Hashtags(tx).Add(ctx, post.ID, post.Hashtags)
	})
	if err != nil {
		return nil, err
	}
	s.deps.Metrics.PostCreated()

	// The post is committed; the caller going away must not cut the
	// fan-out short.
	bg := context.WithoutCancel(ctx)

	res := s.fanOut(bg, post)
	if res.FailedBatches > 0 {
		s.deps.Logger.Warn(ctx, "partial fan-out", "post_id", post.ID, "delivered", res.Delivered, "failed_batches", res.FailedBatches)
	} else {
		s.deps.Logger.Debug(ctx, "fan-out complete", "post_id", post.ID, "delivered", res.Delivered)
	}

	if s.notifier != nil {
		s.notifier.NotifyMentions(bg, ownerID, text, post.ID)
	}
	publish(bg, s.deps, events.SubjectPostCreated, events.PostCreated{
		PostID:    post.ID,
		AuthorID:  post.OwnerID,
		ImageURL:  post.ImageURL,
		Caption:   post.Caption,
		Hashtags:  post.Hashtags,
		CreatedAt: post.CreatedAt,
	})
	return post, nil
}

func (s *PostService) fanOut(ctx context.Context, post *models.Post) FanoutResult {
	entry := post.Entry()
	return s.eachFollowerBatch(ctx, post.OwnerID, "fanout", func(ctx context.Context, batch []string) error {
		if err := s.deps.Feeds.Add(ctx, batch, entry); err != nil {
			s.deps.Metrics.FanoutFailed()
			return err
		}
		s.deps.Metrics.FanoutWritten(len(batch))
		return nil
	})
}

// eachFollowerBatch streams the followers of ownerID and applies fn to each
// batch with bounded parallelism. Failing batches are logged and counted
// but never stop the others.
func (s *PostService) eachFollowerBatch(ctx context.Context, ownerID, op string, fn func(context.Context, []string) error) FanoutResult {
	var delivered, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.fanout.Concurrency)

	err := s.deps.Graph.StreamFollowers(ctx, ownerID, s.fanout.BatchSize, func(batch []string) error {
		g.Go(func() error {
			if err := fn(ctx, batch); err != nil {
				failed.Add(1)
				s.deps.Logger.Error(ctx, op+" batch failed", "owner_id", ownerID, "size", len(batch), "error", err)
				return nil
			}
			delivered.Add(int64(len(batch)))
			return nil
		})
		return nil
	})
	_ = g.Wait()

	if err != nil {
		failed.Add(1)
		s.deps.Logger.Error(ctx, op+" follower stream failed", "owner_id", ownerID, "error", err)
	}
	return FanoutResult{Delivered: int(delivered.Load()), FailedBatches: int(failed.Load())}
}

// DeletePost removes the post and everything derived from it. Only the
// owner may delete. Like cleanup runs alongside the post delete, then feed
// and notification cleanup run together; every branch is attempted and
// only a failure to delete the post itself is returned.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID string) error {
	if err := requireActor(actorID); err != nil {
		return err
	}

	conn := s.deps.DB.Conn()
	post, err := s.deps.Repos.Posts(conn).GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != actorID {
		return common.ErrForbidden
	}

	bg := context.WithoutCancel(ctx)

	var first errgroup.Group
	first.Go(func() error {
		if _, err := s.deps.Repos.Likes(conn).DeleteForPost(bg, postID); err != nil {
			s.cascadeFailed(bg, "likes", postID, err)
		}
		return nil
	})
	first.Go(func() error {
		if err := s.deps.Repos.Hashtags(conn).DeleteForPost(bg, postID); err != nil {
			s.cascadeFailed(bg, "hashtags", postID, err)
		}
		return nil
	})
	first.Go(func() error {
		return s.deps.Repos.Posts(conn).Delete(bg, postID)
	})
	postErr := first.Wait()
	if postErr != nil {
		s.cascadeFailed(bg, "post", postID, postErr)
	}

	entry := post.Entry()
	var second errgroup.Group
	second.Go(func() error {
		res := s.eachFollowerBatch(bg, post.OwnerID, "feed cleanup", func(ctx context.Context, batch []string) error {
			return s.deps.Feeds.Remove(ctx, batch, entry)
		})
		if res.FailedBatches > 0 {
			s.cascadeFailed(bg, "feeds", postID, fmt.Errorf("%d batches failed", res.FailedBatches))
		}
		return nil
	})
	second.Go(func() error {
		if s.notifier == nil {
			return nil
		}
		if _, err := s.notifier.PurgePost(bg, postID); err != nil {
			s.cascadeFailed(bg, "notifications", postID, err)
		}
		return nil
	})
	_ = second.Wait()

	if postErr != nil {
		return postErr
	}
	publish(bg, s.deps, events.SubjectPostDeleted, events.PostDeleted{PostID: postID, AuthorID: post.OwnerID})
	return nil
}

func (s *PostService) cascadeFailed(ctx context.Context, branch, postID string, err error) {
	s.deps.Metrics.CascadeFailed(branch)
	s.deps.Logger.Error(ctx, "delete cascade failed", "branch", branch, "post_id", postID, "error", err)
}

// Like records actorID's like and returns the new count. The membership
// row and the counter change in one transaction, and the counter only
// moves when the row is new, so repeated likes are absorbed.
func (s *PostService) Like(ctx context.Context, actorID, postID string) (int64, error) {
	post, added, likes, err := s.toggleLike(ctx, actorID, postID, true)
	if err != nil {
		return 0, err
	}
	if added && s.notifier != nil {
		if err := s.notifier.Notify(ctx, post.OwnerID, actorID, models.NotificationLike, postID); err != nil {
			s.deps.Logger.Warn(ctx, "like notify failed", "post_id", postID, "error", err)
		}
	}
	return likes, nil
}

// Unlike is the exact inverse of Like, including the notification.
func (s *PostService) Unlike(ctx context.Context, actorID, postID string) (int64, error) {
	post, removed, likes, err := s.toggleLike(ctx, actorID, postID, false)
	if err != nil {
		return 0, err
	}
	if removed && s.notifier != nil {
		if err := s.notifier.Revoke(ctx, post.OwnerID, actorID, models.NotificationLike, postID); err != nil {
			s.deps.Logger.Warn(ctx, "like revoke failed", "post_id", postID, "error", err)
		}
	}
	return likes, nil
}

func (s *PostService) toggleLike(ctx context.Context, actorID, postID string, like bool) (*models.Post, bool, int64, error) {
	if err := requireActor(actorID); err != nil {
		return nil, false, 0, err
	}

	var (
		post    *models.Post
		changed bool
		likes   int64
	)
	err := s.deps.DB.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		posts := s.deps.Repos.Posts(tx)
		if post, err = posts.GetByID(ctx, postID); err != nil {
			return err
		}

		var delta int64
		if like {
			changed, err = s.deps.Repos.Likes(tx).Add(ctx, postID, actorID)
			delta = 1
		} else {
			changed, err = s.deps.Repos.Likes(tx).Remove(ctx, postID, actorID)
			delta = -1
		}
		if err != nil {
			return err
		}
		if !changed {
			delta = 0
		}
		likes, err = posts.AdjustLikes(ctx, postID, delta)
		return err
	})
	if err != nil {
		return nil, false, 0, err
	}

	if changed {
		op := "unlike"
		if like {
			op = "like"
		}
		s.deps.Metrics.Like(op)
	}
	return post, changed, likes, nil
}

func (s *PostService) IsLiked(ctx context.Context, actorID, postID string) (bool, error) {
	if err := requireActor(actorID); err != nil {
		return false, err
	}
	return s.deps.Repos.Likes(s.deps.DB.Conn()).Exists(ctx, postID, actorID)
}

// Likers returns the ids of the users who liked postID, latest first.
func (s *PostService) Likers(ctx context.Context, postID string) ([]string, error) {
	return s.deps.Repos.Likes(s.deps.DB.Conn()).ListUsers(ctx, postID)
}

// LikedPosts returns the posts actorID liked, newest post first.
func (s *PostService) LikedPosts(ctx context.Context, actorID string) ([]*models.Post, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	ids, err := s.deps.Repos.Likes(s.deps.DB.Conn()).ListPosts(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return resolvePosts(ctx, s.deps, ids)
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return s.deps.Repos.Posts(s.deps.DB.Conn()).GetByID(ctx, postID)
}

// UserPosts returns the owner's posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, ownerID string) ([]*models.Post, error) {
	return s.deps.Repos.Posts(s.deps.DB.Conn()).ListByOwner(ctx, ownerID)
}
