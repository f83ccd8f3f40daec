// Package notify polls the unread inbound message count and turns it into
// a badge.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
)

// DefaultInterval is how often the unread count is refreshed.
const DefaultInterval = 20 * time.Second

// Tone is the color family of the inbound button.
type Tone int

const (
	Neutral Tone = iota
	Alert
)

func (t Tone) String() string {
	if t == Alert {
		return "alert"
	}
	return "neutral"
}

// Badge is the unread indicator. It depends only on the latest count.
type Badge struct {
	Count   int
	Visible bool
	Text    string
	Tone    Tone
}

// BadgeFor derives the badge for count.
func BadgeFor(count int) Badge {
	if count <= 0 {
		return Badge{Tone: Neutral}
	}
	return Badge{
		Count:   count,
		Visible: true,
		Text:    fmt.Sprintf("[%d]", count),
		Tone:    Alert,
	}
}

// Client is the slice of the API client the poller needs.
type Client interface {
	UnreadCount(ctx context.Context) (int, api.Result)
	MarkInboundRead(ctx context.Context) api.Result
	Inbound(ctx context.Context) ([]shop.InboundMessage, api.Result)
}

// Poller refreshes the badge once at Start and then every interval.
type Poller struct {
	client   Client
	interval time.Duration
	log      *slog.Logger

	running atomic.Bool

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	badge     Badge
	listeners []func(Badge)
}

// NewPoller returns a stopped poller.
func NewPoller(client Client, interval time.Duration, logger *slog.Logger) (*Poller, error) {
	if client == nil {
		return nil, errors.New("notify: client must not be nil")
	}
	if interval <= 0 {
		return nil, errors.New("notify: interval must be > 0")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		client:   client,
		interval: interval,
		log:      logger.With("component", "notify"),
		done:     make(chan struct{}),
		badge:    BadgeFor(0),
	}, nil
}

// Subscribe registers fn to receive every badge update. fn runs on the
// polling goroutine and must not block.
func (p *Poller) Subscribe(fn func(Badge)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Updates subscribes a channel that holds at most the latest badge. A badge
// not yet received is replaced by a newer one.
func (p *Poller) Updates() <-chan Badge {
	ch := make(chan Badge, 1)
	p.Subscribe(func(b Badge) {
		for {
			select {
			case ch <- b:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	})
	return ch
}

// Badge returns the latest badge.
func (p *Poller) Badge() Badge {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.badge
}

// Start begins polling. It reports false if already running.
func (p *Poller) Start() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running.Store(true)

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.log.Debug("poller started", "interval", p.interval.String())
		p.safePoll(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.safePoll(ctx)
			}
		}
	}()

	return true
}

// Stop halts polling and waits for the goroutine to exit.
func (p *Poller) Stop() bool {
	p.mu.Lock()
	if !p.running.Load() {
		p.mu.Unlock()
		return false
	}
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done
	p.running.Store(false)
	p.log.Debug("poller stopped")
	return true
}

func (p *Poller) IsRunning() bool {
	return p.running.Load()
}

func (p *Poller) safePoll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("poll panic recovered", "panic", r)
		}
	}()
	p.Poll(ctx)
}

// Poll fetches the count once and publishes the badge. A failed poll keeps
// the previous badge.
func (p *Poller) Poll(ctx context.Context) (Badge, api.Result) {
	count, res := p.client.UnreadCount(ctx)
	if !res.OK {
		p.log.Warn("unread count failed", "detail", res.Detail())
		return p.Badge(), res
	}
	b := BadgeFor(count)

	p.mu.Lock()
	p.badge = b
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(b)
	}
	return b, res
}

// OpenInbound marks everything read, re-polls so the badge clears without
// waiting for the next tick, and then lists the inbound messages.
func (p *Poller) OpenInbound(ctx context.Context) ([]shop.InboundMessage, api.Result) {
	if res := p.client.MarkInboundRead(ctx); !res.OK {
		p.log.Warn("mark inbound read failed", "detail", res.Detail())
	}
	p.Poll(ctx)
	return p.client.Inbound(ctx)
}
