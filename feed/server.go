package feed

import (
	"context"
	"errors"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// FeedServer is the server API for the AttitudeFeed service.
type FeedServer interface {
	Stream(*emptypb.Empty, FeedStream) error
}

// FeedStream is the server side of one Stream call.
type FeedStream interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type feedStream struct {
	grpc.ServerStream
}

func (s *feedStream) Send(m *structpb.Struct) error {
	return s.ServerStream.SendMsg(m)
}

func streamHandler(srv any, stream grpc.ServerStream) error {
	m := new(emptypb.Empty)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(FeedServer).Stream(m, &feedStream{stream})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FeedServer)(nil),
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Stream",
			Handler:       streamHandler,
			ServerStreams: true,
		},
	},
	Metadata: "attitude/v1/feed.proto",
}

// RegisterFeedServer registers srv on s.
func RegisterFeedServer(s grpc.ServiceRegistrar, srv FeedServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Server streams samples pulled from a Source to every connected client.
type Server struct {
	src      Source
	interval time.Duration

	mu      sync.Mutex // serialises src.Next
	clients atomic.Int32
}

// NewServer returns a server that sends one sample per interval per client.
func NewServer(src Source, interval time.Duration) *Server {
	return &Server{src: src, interval: interval}
}

// Stream implements FeedServer.
func (s *Server) Stream(_ *emptypb.Empty, stream FeedStream) error {
	s.clients.Add(1)
	defer s.clients.Add(-1)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	ctx := stream.Context()
	for {
		s.mu.Lock()
		sample, err := s.src.Next()
		s.mu.Unlock()
		if err != nil {
			return status.Errorf(codes.Unavailable, "attitude source: %v", err)
		}
		if err := stream.Send(sample.toProto()); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Clients returns the number of open streams.
func (s *Server) Clients() int {
	return int(s.clients.Load())
}

// Serve runs srv on lis until ctx is cancelled. Open streams are closed
// when it returns.
func Serve(ctx context.Context, lis net.Listener, srv FeedServer, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	RegisterFeedServer(gs, srv)

	go func() {
		<-ctx.Done()
		gs.Stop()
	}()

	log.Printf("Attitude feed listening on %s", lis.Addr())
	if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
