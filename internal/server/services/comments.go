package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/google/uuid"
)

const maxCommentLength = 2200

type CommentService struct {
	deps     Deps
	notifier *NotificationService
}

func NewCommentService(d Deps, notifier *NotificationService) *CommentService {
	d = d.withDefaults()
	d.Logger = d.Logger.With("module", "comments")
	return &CommentService{deps: d, notifier: notifier}
}

// AddComment appends a comment to postID, then notifies the post owner and
// anyone @mentioned in the text.
func (s *CommentService) AddComment(ctx context.Context, actorID, postID, text string) (*models.Comment, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty comment", common.ErrValidation)
	}
	if len(text) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment too long", common.ErrValidation)
	}

	conn := s.deps.DB.Conn()
	post, err := s.deps.Repos.Posts(conn).GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  actorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.deps.Repos.Comments(conn).Create(ctx, c); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, post.OwnerID, actorID, models.NotificationComment, postID); err != nil {
			s.deps.Logger.Warn(ctx, "comment notify failed", "post_id", postID, "error", err)
		}
		s.notifier.NotifyMentions(ctx, actorID, text, postID)
	}
	return c, nil
}

// Comments returns the comments on postID, newest first.
func (s *CommentService) Comments(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.deps.Repos.Comments(s.deps.DB.Conn()).ListForPost(ctx, postID)
}
