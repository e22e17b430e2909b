package news

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// TokenPool rotates through an ordered list of credentials. The cursor
// advances on every Next call, wrapping modulo the pool size, whether
// the attempt using the token succeeds or not. There is no penalty box
// for a failing token.
type TokenPool struct {
	mu     sync.Mutex
	tokens []string
	cursor int
}

func NewTokenPool(tokens ...string) *TokenPool {
	return &TokenPool{tokens: tokens}
}

// NewTokenPoolFromEnv builds a pool from a base environment variable
// plus any number of numbered suffixes: NAME, NAME_1, NAME_2, ...
func NewTokenPoolFromEnv(name string) *TokenPool {
	p := &TokenPool{}
	p.LoadEnv(name)
	return p
}

// LoadEnv populates the pool from the environment. A no-op once the
// pool is non-empty, so rotation state survives repeated calls.
func (p *TokenPool) LoadEnv(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tokens) > 0 {
		return
	}

	if token := os.Getenv(name); token != "" {
		p.tokens = append(p.tokens, token)
	}
	for i := 1; ; i++ {
		token := os.Getenv(fmt.Sprintf("%s_%d", name, i))
		if token == "" {
			break
		}
		p.tokens = append(p.tokens, token)
	}

	if len(p.tokens) > 0 {
		slog.Info("Token pool initialized", "name", name, "count", len(p.tokens))
	}
}

// Next returns the current token and advances the cursor. Returns ""
// when the pool is empty.
func (p *TokenPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tokens) == 0 {
		return ""
	}
	token := p.tokens[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.tokens)
	return token
}

func (p *TokenPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}

// Cursor returns the current rotation index.
func (p *TokenPool) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}
