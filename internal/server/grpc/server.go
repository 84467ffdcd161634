// Package grpc exposes the photofeed services over gRPC. Messages are the
// JSON types of internal/api; the service descriptor is declared by hand.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/photofeed/internal/api"
	"github.com/dmitrijs2005/photofeed/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type GRPCServer struct {
	address  string
	logger   logging.Logger
	users    UserService
	graph    GraphService
	posts    PostService
	notifs   NotificationService
	comments CommentService
	messages MessageService
}

// Services groups the business services the handlers delegate to.
type Services struct {
	Users         UserService
	Graph         GraphService
	Posts         PostService
	Notifications NotificationService
	Comments      CommentService
	Messages      MessageService
}

func NewGRPCServer(address string, l logging.Logger, s Services) *GRPCServer {
	return &GRPCServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		users:    s.Users,
		graph:    s.Graph,
		posts:    s.Posts,
		notifs:   s.Notifications,
		comments: s.Comments,
		messages: s.Messages,
	}
}

// NewServer builds the grpc.Server with tracing, logging and authentication
// and registers the photofeed and health services on it.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	)
	srv.RegisterService(&serviceDesc, s)

	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
