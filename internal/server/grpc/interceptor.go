package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/photofeed/internal/api"
	"github.com/dmitrijs2005/photofeed/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

// UserIDKey holds the authenticated user id in the handler context.
const UserIDKey ctxKey = "userID"

// publicMethods can be called without an access token.
var publicMethods = map[string]struct{}{
	api.FullMethod(api.MethodPing):         {},
	api.FullMethod(api.MethodRegister):     {},
	api.FullMethod(api.MethodLogin):        {},
	api.FullMethod(api.MethodRefreshToken): {},
	api.FullMethod(api.MethodLogout):       {},

	api.FullMethod(api.MethodRequestPasswordReset): {},
	api.FullMethod(api.MethodResetPassword):        {},

	"/grpc.health.v1.Health/Check": {},
	"/grpc.health.v1.Health/Watch": {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := s.users.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, UserIDKey, userID)
	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "rpc", args...)
	case codes.Internal, codes.Unknown, codes.Unavailable:
		s.logger.Error(ctx, "rpc", append(args, "error", err)...)
	default:
		s.logger.Info(ctx, "rpc", append(args, "error", err)...)
	}
	return resp, err
}

// actor returns the authenticated user, or "" for public methods.
func actor(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}
