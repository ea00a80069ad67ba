// internal/app/system/auth/blacklist.go
package auth

import "sync"

// Blacklist is an in-memory set of revoked tokens. It resets on restart;
// tokens expire on their own anyway, so the set stays small.
type Blacklist struct {
	mu   sync.RWMutex
	toks map[string]struct{}
}

func NewBlacklist() *Blacklist {
	return &Blacklist{toks: make(map[string]struct{})}
}

func (b *Blacklist) Add(tok string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toks[tok] = struct{}{}
}

func (b *Blacklist) Has(tok string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.toks[tok]
	return ok
}
