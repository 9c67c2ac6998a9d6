package backend

import (
	"context"
	"sync"
)

// TokenStore holds the bearer and refresh tokens the client sends.
type TokenStore interface {
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
	SetAccessToken(ctx context.Context, token string)
	Clear(ctx context.Context)
}

// MemoryTokenStore keeps one pair of tokens for a single user.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func NewMemoryTokenStore(access, refresh string) *MemoryTokenStore {
	return &MemoryTokenStore{access: access, refresh: refresh}
}

func (s *MemoryTokenStore) AccessToken(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryTokenStore) RefreshToken(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryTokenStore) SetAccessToken(_ context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = token
}

func (s *MemoryTokenStore) Clear(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
}

// Credentials is a per-request token pair. The BFF stores one in each
// request context so a shared Client can act for many users.
type Credentials struct {
	mu        sync.Mutex
	Access    string
	Refresh   string
	refreshed bool
}

// Refreshed reports whether the access token was replaced during the request.
func (c *Credentials) Refreshed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshed
}

type credentialsKey struct{}

// WithCredentials attaches creds to ctx.
func WithCredentials(ctx context.Context, creds *Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the credentials attached to ctx, if any.
func CredentialsFrom(ctx context.Context) *Credentials {
	creds, _ := ctx.Value(credentialsKey{}).(*Credentials)
	return creds
}

// ContextTokenStore reads tokens from the request context.
type ContextTokenStore struct{}

func (ContextTokenStore) AccessToken(ctx context.Context) string {
	if c := CredentialsFrom(ctx); c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.Access
	}
	return ""
}

func (ContextTokenStore) RefreshToken(ctx context.Context) string {
	if c := CredentialsFrom(ctx); c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.Refresh
	}
	return ""
}

func (ContextTokenStore) SetAccessToken(ctx context.Context, token string) {
	if c := CredentialsFrom(ctx); c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.Access = token
		c.refreshed = true
	}
}

func (ContextTokenStore) Clear(ctx context.Context) {
	if c := CredentialsFrom(ctx); c != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.Access, c.Refresh = "", ""
	}
}
