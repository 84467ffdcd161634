// Package services holds the business logic of photofeed: identity, the
// follow graph, posts with their feed fan-out and likes, comments, direct
// messages and the notification inbox. Every operation takes the acting
// user explicitly.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/dbx"
	"github.com/dmitrijs2005/photofeed/internal/logging"
	"github.com/dmitrijs2005/photofeed/internal/server/events"
	"github.com/dmitrijs2005/photofeed/internal/server/graph"
	"github.com/dmitrijs2005/photofeed/internal/server/metrics"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/feeds"
	"github.com/dmitrijs2005/photofeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/photofeed/internal/server/storage"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators shared by the services. Feeds and Graph are
// chosen at startup (Postgres, Redis or Neo4j); Bus and Metrics may be
// nil-valued no-ops.
type Deps struct {
	DB      dbx.Runner
	Repos   repomanager.RepositoryManager
	Graph   graph.Store
	Feeds   feeds.Repository
	Store   storage.ObjectStore
	Bus     events.Bus
	Metrics *metrics.Metrics
	Logger  logging.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Bus == nil {
		d.Bus = events.NopBus{}
	}
	if d.Logger == nil {
		d.Logger = logging.NewNopLogger()
	}
	return d
}

// FanoutOptions bound the write amplification of a single post.
type FanoutOptions struct {
	BatchSize   int
	Concurrency int
}

const (
	defaultFanoutBatch       = 500
	defaultFanoutConcurrency = 8

	defaultPageSize = 50
	maxPageSize     = 200

	resolveConcurrency = 16
)

func requireActor(actorID string) error {
	if actorID == "" {
		return common.ErrAuthRequired
	}
	return nil
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return min(limit, maxPageSize)
}

func publish(ctx context.Context, d Deps, subject string, payload any) {
	if err := d.Bus.Publish(ctx, subject, payload); err != nil {
		d.Metrics.PublishFailed(subject)
		d.Logger.Warn(ctx, "event publish failed", "subject", subject, "error", err)
	}
}

// resolvePosts looks ids up in parallel. Posts that vanished in the
// meantime are skipped; the result is newest first.
func resolvePosts(ctx context.Context, d Deps, ids []string) ([]*models.Post, error) {
	found := make([]*models.Post, len(ids))
	repo := d.Repos.Posts(d.DB.Conn())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := repo.GetByID(ctx, id)
			if errors.Is(err, common.ErrorNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve post %s: %w", id, err)
			}
			found[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*models.Post, 0, len(found))
	for _, p := range found {
		if p != nil {
			out = append(out, p)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
