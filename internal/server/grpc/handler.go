package grpc

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/api"
	"github.com/dmitrijs2005/photofeed/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

// --- identity ---

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.UserResponse, error) {
	s.logger.Info(ctx, "Registration request", "username", req.Username)

	user, err := s.users.Register(ctx, services.RegisterRequest{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Username:     req.Username,
		ProfileImage: req.ProfileImage,
		ContentType:  req.ContentType,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.UserResponse{User: toUser(user, true)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.RefreshTokenRequest) (*api.Empty, error) {
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) RequestPasswordReset(ctx context.Context, req *api.PasswordResetRequest) (*api.Empty, error) {
	if err := s.users.RequestPasswordReset(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *api.ResetPasswordRequest) (*api.Empty, error) {
	if err := s.users.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

// GetUser returns the caller's own profile when no user id is given.
func (s *GRPCServer) GetUser(ctx context.Context, req *api.UserRequest) (*api.UserResponse, error) {
	id := req.UserID
	if id == "" {
		id = actor(ctx)
	}

	p, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	u := toUser(p.User, id == actor(ctx))
	u.Stats = &api.UserStats{Followers: p.Stats.Followers, Following: p.Stats.Following, Posts: p.Stats.Posts}
	return &api.UserResponse{User: u}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.UserResponse, error) {
	user, err := s.users.UpdateProfile(ctx, actor(ctx), services.ProfileUpdate{
		FullName:     req.FullName,
		Username:     req.Username,
		ProfileImage: req.ProfileImage,
		ContentType:  req.ContentType,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UserResponse{User: toUser(user, true)}, nil
}

func (s *GRPCServer) SearchUsers(ctx context.Context, req *api.SearchUsersRequest) (*api.UsersResponse, error) {
	users, err := s.users.SearchUsers(ctx, req.Prefix, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UsersResponse{Users: toUsers(users)}, nil
}

func (s *GRPCServer) RegisterDevice(ctx context.Context, req *api.RegisterDeviceRequest) (*api.Empty, error) {
	if err := s.users.RegisterDevice(ctx, actor(ctx), req.DeviceToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

// --- graph ---

func (s *GRPCServer) Follow(ctx context.Context, req *api.UserRequest) (*api.Empty, error) {
	if err := s.graph.Follow(ctx, actor(ctx), req.UserID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) Unfollow(ctx context.Context, req *api.UserRequest) (*api.Empty, error) {
	if err := s.graph.Unfollow(ctx, actor(ctx), req.UserID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) IsFollowing(ctx context.Context, req *api.UserRequest) (*api.IsFollowingResponse, error) {
	ok, err := s.graph.IsFollowing(ctx, actor(ctx), req.UserID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.IsFollowingResponse{Following: ok}, nil
}

func (s *GRPCServer) Followers(ctx context.Context, req *api.UserRequest) (*api.UserIDsResponse, error) {
	ids, err := s.graph.Followers(ctx, orActor(ctx, req.UserID))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UserIDsResponse{UserIDs: ids}, nil
}

func (s *GRPCServer) Following(ctx context.Context, req *api.UserRequest) (*api.UserIDsResponse, error) {
	ids, err := s.graph.Following(ctx, orActor(ctx, req.UserID))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UserIDsResponse{UserIDs: ids}, nil
}

func orActor(ctx context.Context, userID string) string {
	if userID == "" {
		return actor(ctx)
	}
	return userID
}

// --- posts ---

func (s *GRPCServer) CreatePost(ctx context.Context, req *api.CreatePostRequest) (*api.PostResponse, error) {
	post, err := s.posts.CreatePost(ctx, actor(ctx), req.Image, req.ContentType, req.Caption)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PostResponse{Post: toPost(post)}, nil
}

func (s *GRPCServer) GetPost(ctx context.Context, req *api.PostRequest) (*api.PostResponse, error) {
	post, err := s.posts.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PostResponse{Post: toPost(post)}, nil
}

func (s *GRPCServer) DeletePost(ctx context.Context, req *api.PostRequest) (*api.Empty, error) {
	if err := s.posts.DeletePost(ctx, actor(ctx), req.PostID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) UserPosts(ctx context.Context, req *api.UserRequest) (*api.PostsResponse, error) {
	posts, err := s.posts.UserPosts(ctx, orActor(ctx, req.UserID))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PostsResponse{Posts: toPosts(posts)}, nil
}

func (s *GRPCServer) Like(ctx context.Context, req *api.PostRequest) (*api.LikeResponse, error) {
	n, err := s.posts.Like(ctx, actor(ctx), req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.LikeResponse{Likes: n}, nil
}

func (s *GRPCServer) Unlike(ctx context.Context, req *api.PostRequest) (*api.LikeResponse, error) {
	n, err := s.posts.Unlike(ctx, actor(ctx), req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.LikeResponse{Likes: n}, nil
}

func (s *GRPCServer) IsLiked(ctx context.Context, req *api.PostRequest) (*api.IsLikedResponse, error) {
	ok, err := s.posts.IsLiked(ctx, actor(ctx), req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.IsLikedResponse{Liked: ok}, nil
}

func (s *GRPCServer) Likers(ctx context.Context, req *api.PostRequest) (*api.UserIDsResponse, error) {
	ids, err := s.posts.Likers(ctx, req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.UserIDsResponse{UserIDs: ids}, nil
}

func (s *GRPCServer) LikedPosts(ctx context.Context, req *api.Empty) (*api.PostsResponse, error) {
	posts, err := s.posts.LikedPosts(ctx, actor(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PostsResponse{Posts: toPosts(posts)}, nil
}

func (s *GRPCServer) Feed(ctx context.Context, req *api.FeedRequest) (*api.PostsResponse, error) {
	posts, err := s.posts.FeedFor(ctx, actor(ctx), req.Limit, req.Offset)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PostsResponse{Posts: toPosts(posts)}, nil
}

func (s *GRPCServer) Hashtag(ctx context.Context, req *api.HashtagRequest) (*api.PostsResponse, error) {
	posts, err := s.posts.PostsForHashtag(ctx, req.Tag)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PostsResponse{Posts: toPosts(posts)}, nil
}

// --- notifications and comments ---

func (s *GRPCServer) Inbox(ctx context.Context, req *api.InboxRequest) (*api.NotificationsResponse, error) {
	ns, err := s.notifs.InboxFor(ctx, actor(ctx), req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.NotificationsResponse{Notifications: toNotifications(ns)}, nil
}

func (s *GRPCServer) AddComment(ctx context.Context, req *api.AddCommentRequest) (*api.CommentResponse, error) {
	c, err := s.comments.AddComment(ctx, actor(ctx), req.PostID, req.Text)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.CommentResponse{Comment: toComment(c)}, nil
}

func (s *GRPCServer) Comments(ctx context.Context, req *api.PostRequest) (*api.CommentsResponse, error) {
	cs, err := s.comments.Comments(ctx, req.PostID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.CommentsResponse{Comments: toComments(cs)}, nil
}

// --- direct messages ---

func (s *GRPCServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.MessageResponse, error) {
	m, err := s.messages.Send(ctx, actor(ctx), req.ToID, req.Text)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.MessageResponse{Message: toMessage(m)}, nil
}

func (s *GRPCServer) Conversation(ctx context.Context, req *api.ConversationRequest) (*api.MessagesResponse, error) {
	ms, err := s.messages.Conversation(ctx, actor(ctx), req.PartnerID, req.Limit, req.Offset)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.MessagesResponse{Messages: toMessages(ms)}, nil
}

func (s *GRPCServer) Conversations(ctx context.Context, req *api.ConversationsRequest) (*api.ConversationsResponse, error) {
	cs, err := s.messages.Conversations(ctx, actor(ctx), req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	out := make([]api.Conversation, 0, len(cs))
	for _, c := range cs {
		out = append(out, api.Conversation{PartnerID: c.PartnerID, Last: toMessage(c.Last)})
	}
	return &api.ConversationsResponse{Conversations: out}, nil
}
