package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/photofeed/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrAuthRequired, codes.Unauthenticated},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrForbidden, codes.PermissionDenied},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorAlreadyExists, codes.AlreadyExists},
	{common.ErrValidation, codes.InvalidArgument},
	{common.ErrStorageUnavailable, codes.Unavailable},
}

// toStatus maps service errors onto gRPC status codes. Anything not
// recognized is logged and reported as Internal without leaking its text.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	s.logger.Error(ctx, "unexpected error", "error", err)
	return status.Error(codes.Internal, "internal error")
}
