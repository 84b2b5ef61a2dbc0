package main

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"

	"attitude-indicator/feed"
)

const demoInterval = 16 * time.Millisecond

// FeedStatus summarises where attitude updates come from.
type FeedStatus struct {
	Source     string // "grpc" or "demo"
	Addr       string
	Connected  bool
	LastUpdate time.Time
	Heading    float64
	Samples    uint64
}

// FeedLink drives the instrument either from the gRPC feed or from the
// built-in demo source, and switches between them at runtime.
type FeedLink struct {
	client   *feed.Client
	listener feed.Listener

	mu         sync.Mutex
	demo       bool
	demoCancel context.CancelFunc
	demoDone   chan struct{}

	demoLast    atomic.Pointer[feed.Sample]
	demoUpdated atomic.Int64
	demoSamples atomic.Uint64
}

// NewFeedLink returns a link that forwards samples to l.
func NewFeedLink(addr string, reconnect time.Duration, l feed.Listener, opts ...grpc.DialOption) *FeedLink {
	c := feed.NewClient(addr, l, opts...)
	c.ReconnectDelay = reconnect
	return &FeedLink{client: c, listener: l}
}

// Start begins streaming from the selected source.
func (f *FeedLink) Start(demo bool) error {
	return f.SetDemo(demo)
}

// SetDemo selects the demo source (true) or the gRPC feed (false).
func (f *FeedLink) SetDemo(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if on {
		f.client.Stop()
		if f.demoCancel == nil {
			f.startDemoLocked()
		}
		f.demo = true
		log.Println("Attitude source: demo")
		return nil
	}

	f.stopDemoLocked()
	f.demo = false
	if err := f.client.Start(); err != nil {
		return err
	}
	log.Printf("Attitude source: grpc %s", f.client.Addr())
	return nil
}

// ToggleDemo flips between the two sources.
func (f *FeedLink) ToggleDemo() {
	if err := f.SetDemo(!f.Demo()); err != nil {
		log.Printf("Could not switch attitude source: %v", err)
	}
}

// Demo reports whether the demo source is active.
func (f *FeedLink) Demo() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.demo
}

// Status returns the active source's state.
func (f *FeedLink) Status() FeedStatus {
	if f.Demo() {
		st := FeedStatus{
			Source:    "demo",
			Connected: true,
			Samples:   f.demoSamples.Load(),
		}
		if s := f.demoLast.Load(); s != nil {
			st.Heading = s.Yaw
		}
		if ns := f.demoUpdated.Load(); ns != 0 {
			st.LastUpdate = time.Unix(0, ns)
		}
		return st
	}

	cs := f.client.State()
	return FeedStatus{
		Source:     "grpc",
		Addr:       f.client.Addr(),
		Connected:  cs.Connected,
		LastUpdate: cs.LastUpdate,
		Heading:    cs.Last.Yaw,
		Samples:    cs.Samples,
	}
}

// Stop shuts down whichever source is running.
func (f *FeedLink) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopDemoLocked()
	f.client.Stop()
}

func (f *FeedLink) startDemoLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	f.demoCancel, f.demoDone = cancel, done

	demo := feed.NewDemoSource()
	src := feed.SourceFunc(func() (feed.Sample, error) {
		s, err := demo.Next()
		if err == nil {
			f.demoLast.Store(&s)
			f.demoUpdated.Store(time.Now().UnixNano())
			f.demoSamples.Add(1)
		}
		return s, err
	})

	go func() {
		defer close(done)
		if err := feed.Pump(ctx, src, f.listener, demoInterval); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Demo source stopped: %v", err)
		}
	}()
}

func (f *FeedLink) stopDemoLocked() {
	if f.demoCancel == nil {
		return
	}
	f.demoCancel()
	<-f.demoDone
	f.demoCancel, f.demoDone = nil, nil
}
