package grpc

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/logging"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/dmitrijs2005/photofeed/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeUsers struct {
	UserService

	verifyID  string
	verifyErr error

	tokens   *services.TokenPair
	loginErr error

	profile    *services.Profile
	profileErr error
	gotUserID  string

	resetEmail    string
	resetToken    string
	resetPassword string
	resetErr      error
}

func (f *fakeUsers) VerifyAccessToken(token string) (string, error) {
	return f.verifyID, f.verifyErr
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return f.tokens, f.loginErr
}

func (f *fakeUsers) GetUser(ctx context.Context, userID string) (*services.Profile, error) {
	f.gotUserID = userID
	return f.profile, f.profileErr
}

func (f *fakeUsers) RequestPasswordReset(ctx context.Context, email string) error {
	f.resetEmail = email
	return f.resetErr
}

func (f *fakeUsers) ResetPassword(ctx context.Context, token, newPassword string) error {
	f.resetToken, f.resetPassword = token, newPassword
	return f.resetErr
}

type fakeGraph struct {
	GraphService

	follower, followee string
	err                error
}

func (f *fakeGraph) Follow(ctx context.Context, followerID, followeeID string) error {
	f.follower, f.followee = followerID, followeeID
	return f.err
}

type fakePosts struct {
	PostService

	post    *models.Post
	posts   []*models.Post
	likes   int64
	err     error
	actorID string
	limit   int
	offset  int
}

func (f *fakePosts) CreatePost(ctx context.Context, ownerID string, image []byte, contentType, caption string) (*models.Post, error) {
	f.actorID = ownerID
	return f.post, f.err
}

func (f *fakePosts) DeletePost(ctx context.Context, actorID, postID string) error {
	f.actorID = actorID
	return f.err
}

func (f *fakePosts) Like(ctx context.Context, actorID, postID string) (int64, error) {
	f.actorID = actorID
	return f.likes, f.err
}

func (f *fakePosts) FeedFor(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error) {
	f.actorID, f.limit, f.offset = userID, limit, offset
	return f.posts, f.err
}

type fakeNotifications struct {
	inbox []*models.Notification
	err   error
}

func (f *fakeNotifications) InboxFor(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error) {
	return f.inbox, f.err
}

type fakeComments struct {
	CommentService

	comment *models.Comment
	err     error
}

func (f *fakeComments) AddComment(ctx context.Context, actorID, postID, text string) (*models.Comment, error) {
	return f.comment, f.err
}

type fakeMessages struct {
	message       *models.Message
	messages      []*models.Message
	conversations []*models.Conversation
	err           error

	actorID, partnerID string
	limit, offset      int
}

func (f *fakeMessages) Send(ctx context.Context, actorID, toID, text string) (*models.Message, error) {
	f.actorID, f.partnerID = actorID, toID
	return f.message, f.err
}

func (f *fakeMessages) Conversation(ctx context.Context, actorID, partnerID string, limit, offset int) ([]*models.Message, error) {
	f.actorID, f.partnerID, f.limit, f.offset = actorID, partnerID, limit, offset
	return f.messages, f.err
}

func (f *fakeMessages) Conversations(ctx context.Context, actorID string, limit int) ([]*models.Conversation, error) {
	f.actorID, f.limit = actorID, limit
	return f.conversations, f.err
}

type fakes struct {
	users    *fakeUsers
	graph    *fakeGraph
	posts    *fakePosts
	notifs   *fakeNotifications
	comments *fakeComments
	messages *fakeMessages
}

func newTestServer() (*GRPCServer, *fakes) {
	f := &fakes{
		users:    &fakeUsers{},
		graph:    &fakeGraph{},
		posts:    &fakePosts{},
		notifs:   &fakeNotifications{},
		comments: &fakeComments{},
		messages: &fakeMessages{},
	}
	s := NewGRPCServer("127.0.0.1:0", nopLogger{}, Services{
		Users:         f.users,
		Graph:         f.graph,
		Posts:         f.posts,
		Notifications: f.notifs,
		Comments:      f.comments,
		Messages:      f.messages,
	})
	return s, f
}

func withActor(id string) context.Context {
	return context.WithValue(context.Background(), UserIDKey, id)
}
