package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/api"
	"github.com/dmitrijs2005/photofeed/internal/common"
	"github.com/dmitrijs2005/photofeed/internal/server/models"
	"github.com/dmitrijs2005/photofeed/internal/server/services"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	s, _ := newTestServer()
	ctx := context.Background()

	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrAuthRequired, codes.Unauthenticated},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrRefreshTokenExpired, codes.Unauthenticated},
		{fmt.Errorf("delete: %w", common.ErrForbidden), codes.PermissionDenied},
		{common.ErrorNotFound, codes.NotFound},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{fmt.Errorf("%w: caption", common.ErrValidation), codes.InvalidArgument},
		{common.ErrStorageUnavailable, codes.Unavailable},
		{status.Error(codes.Aborted, "kept"), codes.Aborted},
		{errors.New("db exploded"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(s.toStatus(ctx, tt.err)))
		})
	}

	assert.NoError(t, s.toStatus(ctx, nil))
	assert.Equal(t, "internal error", status.Convert(s.toStatus(ctx, errors.New("secret detail"))).Message())
}

func TestPing(t *testing.T) {
	s, _ := newTestServer()
	resp, err := s.Ping(context.Background(), &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestLogin(t *testing.T) {
	s, f := newTestServer()
	f.users.tokens = &services.TokenPair{AccessToken: "a", RefreshToken: "r"}

	resp, err := s.Login(context.Background(), &api.LoginRequest{Email: "e@x.io", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, &api.TokenResponse{AccessToken: "a", RefreshToken: "r"}, resp)

	f.users.loginErr = common.ErrorUnauthorized
	_, err = s.Login(context.Background(), &api.LoginRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGetUser(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	profile := &services.Profile{
		User:  &models.User{ID: "u2", Email: "u2@x.io", Username: "u2", FullName: "U Two", CreatedAt: created},
		Stats: models.UserStats{Followers: 3, Following: 1, Posts: 7},
	}

	t.Run("other user hides email", func(t *testing.T) {
		s, f := newTestServer()
		f.users.profile = profile

		resp, err := s.GetUser(withActor("u1"), &api.UserRequest{UserID: "u2"})
		require.NoError(t, err)

		want := api.User{
			ID:        "u2",
			Username:  "u2",
			FullName:  "U Two",
			CreatedAt: created,
			Stats:     &api.UserStats{Followers: 3, Following: 1, Posts: 7},
		}
		if diff := cmp.Diff(want, resp.User); diff != "" {
			t.Errorf("GetUser mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty id means self", func(t *testing.T) {
		s, f := newTestServer()
		f.users.profile = profile

		resp, err := s.GetUser(withActor("u2"), &api.UserRequest{})
		require.NoError(t, err)
		assert.Equal(t, "u2", f.users.gotUserID)
		assert.Equal(t, "u2@x.io", resp.User.Email)
	})

	t.Run("not found", func(t *testing.T) {
		s, f := newTestServer()
		f.users.profileErr = common.ErrorNotFound

		_, err := s.GetUser(withActor("u1"), &api.UserRequest{UserID: "ghost"})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})
}

func TestFollow_UsesActor(t *testing.T) {
	s, f := newTestServer()

	_, err := s.Follow(withActor("a"), &api.UserRequest{UserID: "b"})
	require.NoError(t, err)
	assert.Equal(t, "a", f.graph.follower)
	assert.Equal(t, "b", f.graph.followee)

	f.graph.err = common.ErrValidation
	_, err = s.Follow(withActor("a"), &api.UserRequest{UserID: "a"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCreatePost(t *testing.T) {
	s, f := newTestServer()
	f.posts.post = &models.Post{ID: "p1", OwnerID: "a", ImageURL: "http://img/p1", Caption: "hi #go", Hashtags: []string{"go"}}

	resp, err := s.CreatePost(withActor("a"), &api.CreatePostRequest{Image: []byte{1}, Caption: "hi #go"})
	require.NoError(t, err)
	assert.Equal(t, "a", f.posts.actorID)
	assert.Equal(t, "p1", resp.Post.ID)
	assert.Equal(t, []string{"go"}, resp.Post.Hashtags)

	f.posts.err = common.ErrStorageUnavailable
	_, err = s.CreatePost(withActor("a"), &api.CreatePostRequest{Image: []byte{1}})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestDeletePost_Forbidden(t *testing.T) {
	s, f := newTestServer()
	f.posts.err = common.ErrForbidden

	_, err := s.DeletePost(withActor("intruder"), &api.PostRequest{PostID: "p1"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
	assert.Equal(t, "intruder", f.posts.actorID)
}

func TestLike(t *testing.T) {
	s, f := newTestServer()
	f.posts.likes = 4

	resp, err := s.Like(withActor("fan"), &api.PostRequest{PostID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Likes)
	assert.Equal(t, "fan", f.posts.actorID)
}

func TestFeed(t *testing.T) {
	s, f := newTestServer()
	f.posts.posts = []*models.Post{{ID: "p2"}, {ID: "p1"}}

	resp, err := s.Feed(withActor("me"), &api.FeedRequest{Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, "p2", resp.Posts[0].ID)
	assert.Equal(t, "me", f.posts.actorID)
	assert.Equal(t, 10, f.posts.limit)
	assert.Equal(t, 5, f.posts.offset)
}

func TestInbox(t *testing.T) {
	s, f := newTestServer()
	f.notifs.inbox = []*models.Notification{{ID: "n1", ActorID: "fan", Type: models.NotificationLike, PostID: "p1"}}

	resp, err := s.Inbox(withActor("owner"), &api.InboxRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "like", resp.Notifications[0].Type)

	f.notifs.err = common.ErrAuthRequired
	_, err = s.Inbox(context.Background(), &api.InboxRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestAddComment(t *testing.T) {
	s, f := newTestServer()
	f.comments.comment = &models.Comment{ID: "c1", PostID: "p1", AuthorID: "fan", Text: "nice"}

	resp, err := s.AddComment(withActor("fan"), &api.AddCommentRequest{PostID: "p1", Text: "nice"})
	require.NoError(t, err)
	assert.Equal(t, "nice", resp.Comment.Text)

	f.comments.err = common.ErrValidation
	_, err = s.AddComment(withActor("fan"), &api.AddCommentRequest{PostID: "p1"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPasswordReset(t *testing.T) {
	s, f := newTestServer()

	_, err := s.RequestPasswordReset(context.Background(), &api.PasswordResetRequest{Email: "a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", f.users.resetEmail)

	_, err = s.ResetPassword(context.Background(), &api.ResetPasswordRequest{Token: "tok", NewPassword: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "tok", f.users.resetToken)
	assert.Equal(t, "correct horse", f.users.resetPassword)

	f.users.resetErr = common.ErrTokenExpired
	_, err = s.ResetPassword(context.Background(), &api.ResetPasswordRequest{Token: "old", NewPassword: "correct horse"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestSendMessage(t *testing.T) {
	s, f := newTestServer()
	f.messages.message = &models.Message{ID: "m1", FromID: "ann", ToID: "bob", Text: "hi"}

	resp, err := s.SendMessage(withActor("ann"), &api.SendMessageRequest{ToID: "bob", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, api.Message{ID: "m1", FromID: "ann", ToID: "bob", Text: "hi"}, resp.Message)
	assert.Equal(t, "ann", f.messages.actorID)
	assert.Equal(t, "bob", f.messages.partnerID)

	f.messages.err = common.ErrorNotFound
	_, err = s.SendMessage(withActor("ann"), &api.SendMessageRequest{ToID: "ghost", Text: "hi"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestConversation(t *testing.T) {
	s, f := newTestServer()
	f.messages.messages = []*models.Message{
		{ID: "m2", FromID: "bob", ToID: "ann", Text: "two"},
		{ID: "m1", FromID: "ann", ToID: "bob", Text: "one"},
	}

	resp, err := s.Conversation(withActor("ann"), &api.ConversationRequest{PartnerID: "bob", Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "two", resp.Messages[0].Text)
	assert.Equal(t, 10, f.messages.limit)
	assert.Equal(t, 5, f.messages.offset)
}

func TestConversations(t *testing.T) {
	s, f := newTestServer()
	f.messages.conversations = []*models.Conversation{
		{PartnerID: "bob", Last: &models.Message{ID: "m2", FromID: "bob", ToID: "ann", Text: "latest"}},
	}

	resp, err := s.Conversations(withActor("ann"), &api.ConversationsRequest{Limit: 3})
	require.NoError(t, err)
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, "bob", resp.Conversations[0].PartnerID)
	assert.Equal(t, "latest", resp.Conversations[0].Last.Text)
	assert.Equal(t, "ann", f.messages.actorID)

	f.messages.err = common.ErrAuthRequired
	_, err = s.Conversations(context.Background(), &api.ConversationsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
