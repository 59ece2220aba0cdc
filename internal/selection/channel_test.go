package selection

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func sequentialTokens() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("token-%d", n)
	}
}

func TestChannel(t *testing.T) {
	t.Run("Request", func(t *testing.T) {
		t.Run("allocates unique tokens", func(t *testing.T) {
			c := New[int64]()
			first := c.Request(func(id int64) int64 { return id })
			second := c.Request(func(id int64) int64 { return id })

			if first == None || second == None {
				t.Fatal("expected non-empty tokens")
			}
			if first == second {
				t.Errorf("expected distinct tokens, got %s twice", first)
			}
			if c.Pending() != second {
				t.Errorf("expected pending token %s, got %s", second, c.Pending())
			}
		})

		t.Run("replaces the pending completion", func(t *testing.T) {
			c := New[string](WithTokenSource(sequentialTokens()))
			firstCalls := 0
			first := c.Request(func(id int64) string { firstCalls++; return "first" })
			second := c.Request(func(id int64) string { return "second" })

			if got, ok := c.Resolve(first, 7); ok {
				t.Errorf("expected stale token to be ignored, got %q", got)
			}

			got, ok := c.Resolve(second, 7)
			if !ok || got != "second" {
				t.Errorf("expected second completion, got %q, %v", got, ok)
			}
			if firstCalls != 0 {
				t.Errorf("expected first completion never to run, ran %d times", firstCalls)
			}
		})
	})

	t.Run("Resolve", func(t *testing.T) {
		tt := []struct {
			name       string
			useToken   func(Token) Token
			id         int64
			wantCalled bool
			wantKept   bool
		}{
			{name: "matching token and valid id", useToken: func(t Token) Token { return t }, id: 7, wantCalled: true},
			{name: "matching token and zero id", useToken: func(t Token) Token { return t }, id: 0},
			{name: "matching token and negative id", useToken: func(t Token) Token { return t }, id: -1},
			{name: "mismatched token", useToken: func(Token) Token { return "other" }, id: 7, wantKept: true},
			{name: "empty token", useToken: func(Token) Token { return None }, id: 7, wantKept: true},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				c := New[int64]()
				calls := 0
				token := c.Request(func(id int64) int64 { calls++; return id * 10 })

				got, ok := c.Resolve(tc.useToken(token), tc.id)
				if ok != tc.wantCalled {
					t.Errorf("expected called=%v, got %v", tc.wantCalled, ok)
				}
				if tc.wantCalled && got != tc.id*10 {
					t.Errorf("expected result %d, got %d", tc.id*10, got)
				}
				if tc.wantCalled && calls != 1 {
					t.Errorf("expected exactly one call, got %d", calls)
				}

				kept := c.Pending() == token
				if kept != tc.wantKept {
					t.Errorf("expected pending kept=%v, got %v", tc.wantKept, kept)
				}
			})
		}

		t.Run("stale callback never fires later", func(t *testing.T) {
			c := New[int64]()
			calls := 0
			token := c.Request(func(id int64) int64 { calls++; return id })

			c.Resolve("other", 7)
			c.Resolve(token, 7)
			c.Resolve(token, 7)

			if calls != 1 {
				t.Errorf("expected exactly one call, got %d", calls)
			}
		})

		t.Run("with nothing pending", func(t *testing.T) {
			c := New[int64]()
			if _, ok := c.Resolve("token", 7); ok {
				t.Error("expected no completion")
			}
		})

		t.Run("expired request", func(t *testing.T) {
			now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
			c := New[int64](WithTimeout(time.Minute), WithClock(func() time.Time { return now }))
			token := c.Request(func(id int64) int64 { return id })

			now = now.Add(2 * time.Minute)
			if _, ok := c.Resolve(token, 7); ok {
				t.Error("expected expired request not to complete")
			}
			if c.Pending() != None {
				t.Error("expected expired request to be cleared")
			}
		})

		t.Run("expired request is no longer pending", func(t *testing.T) {
			now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
			c := New[int64](WithTimeout(time.Minute), WithClock(func() time.Time { return now }))
			token := c.Request(func(id int64) int64 { return id })

			now = now.Add(30 * time.Second)
			if c.Pending() != token {
				t.Error("expected request to be pending before its timeout")
			}

			now = now.Add(time.Minute)
			if c.Pending() != None {
				t.Error("expected expired request to be cleared")
			}
			if _, ok := c.Resolve(token, 7); ok {
				t.Error("expected expired request not to complete")
			}
		})

		t.Run("completion runs outside the lock", func(t *testing.T) {
			c := New[Token]()
			token := c.Request(func(id int64) Token {
				return c.Request(func(int64) Token { return None })
			})

			next, ok := c.Resolve(token, 1)
			if !ok || c.Pending() != next {
				t.Error("expected completion to be able to issue a new request")
			}
		})
	})

	t.Run("Cancel", func(t *testing.T) {
		c := New[int64]()
		token := c.Request(func(id int64) int64 { return id })

		if c.Cancel("other") {
			t.Error("expected mismatched cancel to be ignored")
		}
		if !c.Cancel(token) {
			t.Error("expected matching cancel to clear the request")
		}
		if _, ok := c.Resolve(token, 7); ok {
			t.Error("expected cancelled request not to complete")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		c := New[int64]()
		token := c.Request(func(id int64) int64 { return id })
		c.Clear()

		if c.Pending() != None {
			t.Error("expected no pending request")
		}
		if _, ok := c.Resolve(token, 7); ok {
			t.Error("expected cleared request not to complete")
		}
	})

	t.Run("concurrent resolution completes once", func(t *testing.T) {
		c := New[int64]()
		var mu sync.Mutex
		calls := 0
		token := c.Request(func(id int64) int64 {
			mu.Lock()
			calls++
			mu.Unlock()
			return id
		})

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Resolve(token, 3)
			}()
		}
		wg.Wait()

		if calls != 1 {
			t.Errorf("expected exactly one completion, got %d", calls)
		}
	})
}
