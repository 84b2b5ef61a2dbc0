package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// DefaultReconnectDelay is the pause between stream attempts.
const DefaultReconnectDelay = time.Second

// State is a snapshot of the client's connection.
type State struct {
	Connected  bool
	Last       Sample
	LastUpdate time.Time
	Samples    uint64
}

// Client subscribes to an AttitudeFeed and forwards every sample to a
// Listener. It reconnects until stopped.
type Client struct {
	addr     string
	listener Listener
	dialOpts []grpc.DialOption

	// ReconnectDelay is read when Start is called.
	ReconnectDelay time.Duration

	mu     sync.Mutex
	conn   *grpc.ClientConn
	cancel context.CancelFunc
	done   chan struct{}

	stateMu sync.RWMutex
	state   State
}

// NewClient returns a client for addr. Extra dial options are appended
// after insecure transport credentials.
func NewClient(addr string, l Listener, opts ...grpc.DialOption) *Client {
	return &Client{
		addr:           addr,
		listener:       l,
		dialOpts:       opts,
		ReconnectDelay: DefaultReconnectDelay,
	}
}

// Addr returns the target address.
func (c *Client) Addr() string {
	return c.addr
}

// Start creates the connection and begins streaming in the background.
// Calling Start on a running client is a no-op.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, c.dialOpts...)
	conn, err := grpc.NewClient(c.addr, opts...)
	if err != nil {
		return fmt.Errorf("feed client %s: %w", c.addr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.conn = conn
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, conn, c.ReconnectDelay, c.done)

	log.Printf("Attitude feed client started for %s", c.addr)
	return nil
}

// Stop cancels streaming, waits for the stream goroutine and closes the
// connection.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	c.cancel()
	<-c.done
	c.conn.Close()
	c.conn = nil

	c.setConnected(false)
}

// Running reports whether Start has been called without a matching Stop.
func (c *Client) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// State returns a copy of the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Client) run(ctx context.Context, conn *grpc.ClientConn, delay time.Duration, done chan struct{}) {
	defer close(done)

	for {
		err := c.stream(ctx, conn)
		c.setConnected(false)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("Attitude stream error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// stream runs one Stream call until it ends. A clean end of stream returns
// nil.
func (c *Client) stream(ctx context.Context, conn *grpc.ClientConn) error {
	s, err := conn.NewStream(ctx, &serviceDesc.Streams[0], streamMethod)
	if err != nil {
		return err
	}
	if err := s.SendMsg(&emptypb.Empty{}); err != nil {
		return err
	}
	if err := s.CloseSend(); err != nil {
		return err
	}

	for {
		m := new(structpb.Struct)
		if err := s.RecvMsg(m); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		c.process(sampleFromProto(m))
	}
}

func (c *Client) process(s Sample) {
	c.stateMu.Lock()
	c.state.Connected = true
	c.state.Last = s
	c.state.LastUpdate = time.Now()
	c.state.Samples++
	c.stateMu.Unlock()

	if c.listener != nil {
		c.listener.OnAttitudeChanged(s.Pitch, s.Roll)
	}
}

func (c *Client) setConnected(v bool) {
	c.stateMu.Lock()
	c.state.Connected = v
	c.stateMu.Unlock()
}
