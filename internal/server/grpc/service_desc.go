package grpc

import (
	"context"

	"github.com/dmitrijs2005/photofeed/internal/api"
	"google.golang.org/grpc"
)

// photoFeedServer is the handler type checked by grpc.RegisterService.
type photoFeedServer interface {
	Ping(context.Context, *api.Empty) (*api.PingResponse, error)
}

// unary adapts a typed handler to grpc.MethodDesc, running the chained
// interceptors the same way generated code does.
func unary[Req, Resp any](name string, call func(*GRPCServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*GRPCServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: api.FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: api.ServiceName,
	HandlerType: (*photoFeedServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(api.MethodPing, (*GRPCServer).Ping),
		unary(api.MethodRegister, (*GRPCServer).Register),
		unary(api.MethodLogin, (*GRPCServer).Login),
		unary(api.MethodRefreshToken, (*GRPCServer).RefreshToken),
		unary(api.MethodLogout, (*GRPCServer).Logout),
		unary(api.MethodGetUser, (*GRPCServer).GetUser),
		unary(api.MethodUpdateProfile, (*GRPCServer).UpdateProfile),
		unary(api.MethodSearchUsers, (*GRPCServer).SearchUsers),
		unary(api.MethodRegisterDevice, (*GRPCServer).RegisterDevice),
		unary(api.MethodRequestPasswordReset, (*GRPCServer).RequestPasswordReset),
		unary(api.MethodResetPassword, (*GRPCServer).ResetPassword),

		unary(api.MethodFollow, (*GRPCServer).Follow),
		unary(api.MethodUnfollow, (*GRPCServer).Unfollow),
		unary(api.MethodIsFollowing, (*GRPCServer).IsFollowing),
		unary(api.MethodFollowers, (*GRPCServer).Followers),
		unary(api.MethodFollowing, (*GRPCServer).Following),

		unary(api.MethodCreatePost, (*GRPCServer).CreatePost),
		unary(api.MethodGetPost, (*GRPCServer).GetPost),
		unary(api.MethodDeletePost, (*GRPCServer).DeletePost),
		unary(api.MethodUserPosts, (*GRPCServer).UserPosts),
		unary(api.MethodLike, (*GRPCServer).Like),
		unary(api.MethodUnlike, (*GRPCServer).Unlike),
		unary(api.MethodIsLiked, (*GRPCServer).IsLiked),
		unary(api.MethodLikers, (*GRPCServer).Likers),
		unary(api.MethodLikedPosts, (*GRPCServer).LikedPosts),
		unary(api.MethodFeed, (*GRPCServer).Feed),
		unary(api.MethodHashtag, (*GRPCServer).Hashtag),

		unary(api.MethodInbox, (*GRPCServer).Inbox),
		unary(api.MethodAddComment, (*GRPCServer).AddComment),
		unary(api.MethodComments, (*GRPCServer).Comments),

		unary(api.MethodSendMessage, (*GRPCServer).SendMessage),
		unary(api.MethodConversation, (*GRPCServer).Conversation),
		unary(api.MethodConversations, (*GRPCServer).Conversations),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "photofeed/api",
}
