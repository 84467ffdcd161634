package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/photofeed/internal/api"
	"github.com/dmitrijs2005/photofeed/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	cc          grpc.ClientConnInterface

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if method == api.FullMethod(api.MethodRefreshToken) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	accessToken, refreshToken := s.tokens()
	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" {
		return err
	}

	var resp api.TokenResponse
	if err := s.cc.Invoke(ctx, api.FullMethod(api.MethodRefreshToken),
		&api.RefreshTokenRequest{RefreshToken: refreshToken}, &resp, grpc.CallContentSubtype(api.CodecName)); err != nil {
		return err
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)

	// tokens refreshed, retry once with the new access token
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewPhotoFeedClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.cc = conn
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) call(ctx context.Context, method string, req, resp any) error {
	err := s.cc.Invoke(ctx, api.FullMethod(method), req, resp, grpc.CallContentSubtype(api.CodecName))
	return s.mapError(err)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) LoggedIn() bool {
	_, refresh := s.tokens()
	return refresh != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	var resp api.PingResponse
	if err := s.call(ctx, api.MethodPing, &api.Empty{}, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

// --- identity ---

func (s *GRPCClient) Register(ctx context.Context, req *api.RegisterRequest) (*api.User, error) {
	var resp api.UserResponse
	if err := s.call(ctx, api.MethodRegister, req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	var resp api.TokenResponse
	if err := s.call(ctx, api.MethodLogin, &api.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	s.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout revokes the refresh token on the server and forgets both tokens.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refresh := s.tokens()
	if refresh == "" {
		return nil
	}
	if err := s.call(ctx, api.MethodLogout, &api.RefreshTokenRequest{RefreshToken: refresh}, &api.Empty{}); err != nil {
		return err
	}
	s.setTokens("", "")
	return nil
}

func (s *GRPCClient) GetUser(ctx context.Context, userID string) (*api.User, error) {
	var resp api.UserResponse
	if err := s.call(ctx, api.MethodGetUser, &api.UserRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.User, error) {
	var resp api.UserResponse
	if err := s.call(ctx, api.MethodUpdateProfile, req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (s *GRPCClient) SearchUsers(ctx context.Context, prefix string, limit int) ([]api.User, error) {
	var resp api.UsersResponse
	if err := s.call(ctx, api.MethodSearchUsers, &api.SearchUsersRequest{Prefix: prefix, Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (s *GRPCClient) RegisterDevice(ctx context.Context, deviceToken string) error {
	return s.call(ctx, api.MethodRegisterDevice, &api.RegisterDeviceRequest{DeviceToken: deviceToken}, &api.Empty{})
}

// --- graph ---

func (s *GRPCClient) Follow(ctx context.Context, userID string) error {
	return s.call(ctx, api.MethodFollow, &api.UserRequest{UserID: userID}, &api.Empty{})
}

func (s *GRPCClient) Unfollow(ctx context.Context, userID string) error {
	return s.call(ctx, api.MethodUnfollow, &api.UserRequest{UserID: userID}, &api.Empty{})
}

func (s *GRPCClient) Followers(ctx context.Context, userID string) ([]string, error) {
	var resp api.UserIDsResponse
	if err := s.call(ctx, api.MethodFollowers, &api.UserRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return resp.UserIDs, nil
}

func (s *GRPCClient) Following(ctx context.Context, userID string) ([]string, error) {
	var resp api.UserIDsResponse
	if err := s.call(ctx, api.MethodFollowing, &api.UserRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return resp.UserIDs, nil
}

// --- posts ---

func (s *GRPCClient) CreatePost(ctx context.Context, image []byte, contentType, caption string) (*api.Post, error) {
	var resp api.PostResponse
	req := &api.CreatePostRequest{Image: image, ContentType: contentType, Caption: caption}
	if err := s.call(ctx, api.MethodCreatePost, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

func (s *GRPCClient) DeletePost(ctx context.Context, postID string) error {
	return s.call(ctx, api.MethodDeletePost, &api.PostRequest{PostID: postID}, &api.Empty{})
}

func (s *GRPCClient) UserPosts(ctx context.Context, userID string) ([]api.Post, error) {
	var resp api.PostsResponse
	if err := s.call(ctx, api.MethodUserPosts, &api.UserRequest{UserID: userID}, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (s *GRPCClient) Like(ctx context.Context, postID string) (int64, error) {
	var resp api.LikeResponse
	if err := s.call(ctx, api.MethodLike, &api.PostRequest{PostID: postID}, &resp); err != nil {
		return 0, err
	}
	return resp.Likes, nil
}

func (s *GRPCClient) Unlike(ctx context.Context, postID string) (int64, error) {
	var resp api.LikeResponse
	if err := s.call(ctx, api.MethodUnlike, &api.PostRequest{PostID: postID}, &resp); err != nil {
		return 0, err
	}
	return resp.Likes, nil
}

func (s *GRPCClient) Likers(ctx context.Context, postID string) ([]string, error) {
	var resp api.UserIDsResponse
	if err := s.call(ctx, api.MethodLikers, &api.PostRequest{PostID: postID}, &resp); err != nil {
		return nil, err
	}
	return resp.UserIDs, nil
}

func (s *GRPCClient) Feed(ctx context.Context, limit, offset int) ([]api.Post, error) {
	var resp api.PostsResponse
	if err := s.call(ctx, api.MethodFeed, &api.FeedRequest{Limit: limit, Offset: offset}, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (s *GRPCClient) Hashtag(ctx context.Context, tag string) ([]api.Post, error) {
	var resp api.PostsResponse
	if err := s.call(ctx, api.MethodHashtag, &api.HashtagRequest{Tag: tag}, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// --- notifications and comments ---

func (s *GRPCClient) Inbox(ctx context.Context, limit int) ([]api.Notification, error) {
	var resp api.NotificationsResponse
	if err := s.call(ctx, api.MethodInbox, &api.InboxRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return resp.Notifications, nil
}

func (s *GRPCClient) AddComment(ctx context.Context, postID, text string) (*api.Comment, error) {
	var resp api.CommentResponse
	if err := s.call(ctx, api.MethodAddComment, &api.AddCommentRequest{PostID: postID, Text: text}, &resp); err != nil {
		return nil, err
	}
	return &resp.Comment, nil
}

func (s *GRPCClient) Comments(ctx context.Context, postID string) ([]api.Comment, error) {
	var resp api.CommentsResponse
	if err := s.call(ctx, api.MethodComments, &api.PostRequest{PostID: postID}, &resp); err != nil {
		return nil, err
	}
	return resp.Comments, nil
}

func (s *GRPCClient) RequestPasswordReset(ctx context.Context, email string) error {
	return s.call(ctx, api.MethodRequestPasswordReset, &api.PasswordResetRequest{Email: email}, &api.Empty{})
}

func (s *GRPCClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	req := &api.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	return s.call(ctx, api.MethodResetPassword, req, &api.Empty{})
}

func (s *GRPCClient) SendMessage(ctx context.Context, toID, text string) (*api.Message, error) {
	var resp api.MessageResponse
	if err := s.call(ctx, api.MethodSendMessage, &api.SendMessageRequest{ToID: toID, Text: text}, &resp); err != nil {
		return nil, err
	}
	return &resp.Message, nil
}

func (s *GRPCClient) Conversation(ctx context.Context, partnerID string, limit, offset int) ([]api.Message, error) {
	var resp api.MessagesResponse
	req := &api.ConversationRequest{PartnerID: partnerID, Limit: limit, Offset: offset}
	if err := s.call(ctx, api.MethodConversation, req, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (s *GRPCClient) Conversations(ctx context.Context, limit int) ([]api.Conversation, error) {
	var resp api.ConversationsResponse
	if err := s.call(ctx, api.MethodConversations, &api.ConversationsRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}
