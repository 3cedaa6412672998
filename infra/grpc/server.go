package grpc

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type Server struct {
	server   *grpc.Server
	listener net.Listener
	health   *health.Server
}

func (s *Server) GetGRPCServer() grpc.ServiceRegistrar {
	return s.server
}

func NewServer(port string) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	return NewServerWithListener(lis), nil
}

// NewServerWithListener serves on lis, e.g. an in-memory listener in tests.
func NewServerWithListener(lis net.Listener) *Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingInterceptor,
			recoveryInterceptor,
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		server:   grpcServer,
		listener: lis,
		health:   healthServer,
	}
}

// SetServing flips the reported health of a registered service.
func (s *Server) SetServing(service string, serving bool) {
	st := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		st = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, st)
}

func (s *Server) Start() error {
	zap.L().Info("gRPC server started successfully",
		zap.String("address", s.listener.Addr().String()))
	return s.server.Serve(s.listener)
}

func (s *Server) GetListener() net.Listener {
	return s.listener
}

// GracefulStop marks every service as not serving and waits for in-flight
// calls. Serve closes the listener on its way out.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
