package selection

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Token correlates a request with the picker round trip that answers it.
type Token string

// None is the zero token; it never matches a pending request.
const None Token = ""

func (t Token) String() string { return string(t) }

type pending[R any] struct {
	token     Token
	fn        func(int64) R
	expiresAt time.Time
}

func (p *pending[R]) expired(now time.Time) bool {
	return !p.expiresAt.IsZero() && now.After(p.expiresAt)
}

// Channel holds at most one pending selection whose completion produces an R.
type Channel[R any] struct {
	mu    sync.Mutex
	slot  *pending[R]
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

// Option configures a [Channel].
type Option func(*options)

type options struct {
	ttl   time.Duration
	now   func() time.Time
	newID func() string
}

// WithTimeout expires pending requests after d. Zero disables expiry.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithClock replaces [time.Now], for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTokenSource replaces the uuid token generator.
func WithTokenSource(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// New creates an empty [Channel].
func New[R any](opts ...Option) *Channel[R] {
	o := options{now: time.Now, newID: func() string { return uuid.New().String() }}
	for _, opt := range opts {
		opt(&o)
	}
	return &Channel[R]{ttl: o.ttl, now: o.now, newID: o.newID}
}

// Request stores fn as the pending completion and returns its token, replacing whatever was pending.
func (c *Channel[R]) Request(fn func(id int64) R) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := &pending[R]{token: Token(c.newID()), fn: fn}
	if c.ttl > 0 {
		p.expiresAt = c.now().Add(c.ttl)
	}
	c.slot = p
	return p.token
}

// Resolve answers the pending request.
//
// A token that does not match leaves the slot untouched. A matching token clears the slot; fn runs only when id is
// positive and the request has not expired. The returned bool reports whether fn ran.
func (c *Channel[R]) Resolve(token Token, id int64) (R, bool) {
	var zero R

	c.mu.Lock()
	p := c.slot
	if p == nil || token == None || p.token != token {
		c.mu.Unlock()
		return zero, false
	}
	c.slot = nil
	expired := p.expired(c.now())
	c.mu.Unlock()

	if id <= 0 || expired || p.fn == nil {
		return zero, false
	}
	return p.fn(id), true
}

// Cancel clears the pending request if token matches it and reports whether it did.
func (c *Channel[R]) Cancel(token Token) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slot == nil || token == None || c.slot.token != token {
		return false
	}
	c.slot = nil
	return true
}

// Clear drops any pending request.
func (c *Channel[R]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slot = nil
}

// Pending returns the token of the pending request, or [None]. An expired request is cleared and reported as
// [None].
func (c *Channel[R]) Pending() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slot == nil {
		return None
	}
	if c.slot.expired(c.now()) {
		c.slot = nil
		return None
	}
	return c.slot.token
}
