package gateway

import (
	"strings"
	"sync"

	"golang.org/x/oauth2"
)

// TokenHolder is the single shared slot for the current bearer credential.
// The session store is its only writer; the gateway reads it on every
// request. The mutex preserves the single-writer invariant for
// multi-goroutine clients.
type TokenHolder struct {
	mu    sync.RWMutex
	token *oauth2.Token
}

func NewTokenHolder() *TokenHolder {
	return &TokenHolder{}
}

// Set replaces the held credential.
func (h *TokenHolder) Set(token *oauth2.Token) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

// Clear drops the held credential.
func (h *TokenHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = nil
}

// Token returns the held credential, reporting false when no usable access
// token is present (requests then go out without an Authorization header).
func (h *TokenHolder) Token() (*oauth2.Token, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.token == nil || strings.TrimSpace(h.token.AccessToken) == "" {
		return nil, false
	}
	return h.token, true
}
