package grpc

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/dmitrijs2005/photofeed/internal/server/services"
)

// The interfaces below are the parts of internal/server/services the
// handlers use.

type UserService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	VerifyAccessToken(token string) (string, error)
	GetUser(ctx context.Context, userID string) (*services.Profile, error)
	UpdateProfile(ctx context.Context, actorID string, upd services.ProfileUpdate) (*models.User, error)
	SearchUsers(ctx context.Context, prefix string, limit int) ([]*models.User, error)
	RegisterDevice(ctx context.Context, actorID, deviceToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type GraphService interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
}

type PostService interface {
	CreatePost(ctx context.Context, ownerID string, image []byte, contentType, caption string) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	DeletePost(ctx context.Context, actorID, postID string) error
	UserPosts(ctx context.Context, ownerID string) ([]*models.Post, error)
	Like(ctx context.Context, actorID, postID string) (int64, error)
	Unlike(ctx context.Context, actorID, postID string) (int64, error)
	IsLiked(ctx context.Context, actorID, postID string) (bool, error)
	Likers(ctx context.Context, postID string) ([]string, error)
	LikedPosts(ctx context.Context, actorID string) ([]*models.Post, error)
	FeedFor(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error)
	PostsForHashtag(ctx context.Context, tag string) ([]*models.Post, error)
}

type NotificationService interface {
	InboxFor(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error)
}

type CommentService interface {
	AddComment(ctx context.Context, actorID, postID, text string) (*models.Comment, error)
	Comments(ctx context.Context, postID string) ([]*models.Comment, error)
}

type MessageService interface {
	Send(ctx context.Context, actorID, toID, text string) (*models.Message, error)
	Conversation(ctx context.Context, actorID, partnerID string, limit, offset int) ([]*models.Message, error)
	Conversations(ctx context.Context, actorID string, limit int) ([]*models.Conversation, error)
}

var (
	_ UserService         = (*services.UserService)(nil)
	_ GraphService        = (*services.GraphService)(nil)
	_ PostService         = (*services.PostService)(nil)
	_ NotificationService = (*services.NotificationService)(nil)
	_ CommentService      = (*services.CommentService)(nil)
	_ MessageService      = (*services.MessageService)(nil)
)
