package utils

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist holds revoked tokens until their expiry.
type TokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{tokens: make(map[string]time.Time), now: time.Now}
}

func (b *TokenBlacklist) Add(token string, expiry time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[token] = expiry
}

func (b *TokenBlacklist) Contains(token string) bool {
	b.mu.RLock()
	expiry, exists := b.tokens[token]
	b.mu.RUnlock()
	if !exists {
		return false
	}
	if b.now().Before(expiry) {
		return true
	}

	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
	return false
}

// Cleanup drops expired entries every interval until ctx is done.
func (b *TokenBlacklist) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.mu.Lock()
			now := b.now()
			for token, expiry := range b.tokens {
				if now.After(expiry) {
					delete(b.tokens, token)
				}
			}
			b.mu.Unlock()
		}
	}
}
