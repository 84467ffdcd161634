package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
)

// FeedFor reads a page of userID's materialized feed and resolves it.
func (s *PostService) FeedFor(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.deps.Feeds.List(ctx, userID, pageSize(limit), offset)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.PostID
	}
	return resolvePosts(ctx, s.deps, ids)
}

// PostsForHashtag returns the posts indexed under tag. "#Sunset" and
// "sunset" are the same tag.
func (s *PostService) PostsForHashtag(ctx context.Context, tag string) ([]*models.Post, error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, fmt.Errorf("%w: empty hashtag", common.ErrValidation)
	}

	ids, err := s.deps.Repos.Hashtags(s.deps.DB.Conn()).ListPosts(ctx, tag)
	if err != nil {
		return nil, err
	}
	return resolvePosts(ctx, s.deps, ids)
}
