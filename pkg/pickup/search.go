package pickup

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"tableflip.dev/pitstop/pkg/api"
	"tableflip.dev/pitstop/pkg/shop"
)

const (
	// SearchDelay is the quiet period before a search is issued.
	SearchDelay = 300 * time.Millisecond
	// MinSearchLen is the shortest trimmed query that is searched.
	MinSearchLen = 3
)

// ContactSearcher is the slice of the API client a Searcher needs.
type ContactSearcher interface {
	SearchContacts(ctx context.Context, q string) ([]shop.Contact, api.Result)
}

// SearchResult is delivered once per issued search, or immediately with
// Cleared set when the query is too short.
type SearchResult struct {
	Query    string
	Contacts []shop.Contact
	Cleared  bool
	Err      *api.Error
}

// Searcher debounces contact searches. Every Input restarts the quiet
// period; only the last query of a burst is searched.
type Searcher struct {
	ctx     context.Context
	client  ContactSearcher
	delay   time.Duration
	deliver func(SearchResult)

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	closed bool
}

// NewSearcher returns a Searcher that reports results to deliver. A zero
// delay uses SearchDelay.
func NewSearcher(ctx context.Context, client ContactSearcher, delay time.Duration, deliver func(SearchResult)) *Searcher {
	if delay <= 0 {
		delay = SearchDelay
	}
	return &Searcher{ctx: ctx, client: client, delay: delay, deliver: deliver}
}

// Input records a keystroke. Queries shorter than MinSearchLen cancel any
// pending search and clear the results without a request.
func (s *Searcher) Input(q string) {
	q = strings.TrimSpace(q)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if utf8.RuneCountInString(q) < MinSearchLen {
		s.mu.Unlock()
		s.deliver(SearchResult{Query: q, Cleared: true})
		return
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(seq, q)
	})
	s.mu.Unlock()
}

func (s *Searcher) run(seq uint64, q string) {
	if !s.latest(seq) {
		return
	}
	contacts, res := s.client.SearchContacts(s.ctx, q)
	// A keystroke during the request supersedes its result.
	if !s.latest(seq) {
		return
	}
	s.deliver(SearchResult{Query: q, Contacts: contacts, Err: res.Err})
}

func (s *Searcher) latest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && seq == s.seq
}

// Close cancels any pending search.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
