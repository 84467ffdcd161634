package client

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/api"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	LoggedIn() bool

	Register(ctx context.Context, req *api.RegisterRequest) (*api.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	GetUser(ctx context.Context, userID string) (*api.User, error)
	UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.User, error)
	SearchUsers(ctx context.Context, prefix string, limit int) ([]api.User, error)
	RegisterDevice(ctx context.Context, deviceToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	Follow(ctx context.Context, userID string) error
	Unfollow(ctx context.Context, userID string) error
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)

	CreatePost(ctx context.Context, image []byte, contentType, caption string) (*api.Post, error)
	DeletePost(ctx context.Context, postID string) error
	UserPosts(ctx context.Context, userID string) ([]api.Post, error)
	Like(ctx context.Context, postID string) (int64, error)
	Unlike(ctx context.Context, postID string) (int64, error)
	Likers(ctx context.Context, postID string) ([]string, error)
	Feed(ctx context.Context, limit, offset int) ([]api.Post, error)
	Hashtag(ctx context.Context, tag string) ([]api.Post, error)

	Inbox(ctx context.Context, limit int) ([]api.Notification, error)
	AddComment(ctx context.Context, postID, text string) (*api.Comment, error)
	Comments(ctx context.Context, postID string) ([]api.Comment, error)

	SendMessage(ctx context.Context, toID, text string) (*api.Message, error)
	Conversation(ctx context.Context, partnerID string, limit, offset int) ([]api.Message, error)
	Conversations(ctx context.Context, limit int) ([]api.Conversation, error)
}
