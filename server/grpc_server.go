package server

import (
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServer exposes the standard gRPC health service for the notes API.
type GRPCServer struct {
	server *grpc.Server
	health *health.Server
	logger zerolog.Logger
}

func NewGRPCServer(serviceName string, logger zerolog.Logger) *GRPCServer {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return &GRPCServer{server: s, health: hs, logger: logger}
}

func (g *GRPCServer) Serve(lis net.Listener) error {
	g.logger.Info().Str("addr", lis.Addr().String()).Msg("starting gRPC server")
	return g.server.Serve(lis)
}

// RunGRPCServer listens on addr and serves until Stop is called.
func (g *GRPCServer) RunGRPCServer(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return g.Serve(lis)
}

// Stop flips every service to NOT_SERVING and drains in-flight RPCs.
func (g *GRPCServer) Stop() {
	g.health.Shutdown()
	g.server.GracefulStop()
}
