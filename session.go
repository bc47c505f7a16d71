package pbimages

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	pathLogin    = "/api/login"
	pathRegister = "/api/register"
)

// Session manages the process-wide authentication session: the bearer token,
// the current user identity, and the persisted copy of the token.
//
// State transitions happen synchronously before any call that depends on
// them, so a successful Login guarantees that the very next request already
// carries the new token.
type Session struct {
	mu     sync.Mutex
	client *Client
	store  TokenStore

	status SessionStatus
	token  string
	user   *User
}

func newSession(c *Client, store TokenStore) *Session {
	return &Session{
		client: c,
		store:  store,
		status: StatusInitializing,
	}
}

// Initialize restores a persisted token, if any. A present, unexpired token
// is trusted optimistically: no validation round trip is made, and the user
// identity is recovered from the token claims. Initialize never performs
// network I/O and always leaves the Initializing state.
func (s *Session) Initialize() {
	token, err := s.store.Load()
	if err != nil || token == "" {
		s.setUnauthenticated()
		return
	}

	user, ok := userFromToken(token)
	if !ok {
		// Malformed or expired token: treat as absent.
		_ = s.store.Clear()
		s.setUnauthenticated()
		return
	}

	s.mu.Lock()
	s.status = StatusAuthenticated
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// Login authenticates with username and password. On success the returned
// token is stored, persisted, and attached to all subsequent requests. On
// failure the session state is left unchanged; use UserMessage on the
// returned error for display text.
func (s *Session) Login(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, pathLogin, map[string]string{
		"username": username,
		"password": password,
	})
}

// Register creates a new account. A successful registration behaves exactly
// like a successful login: the caller is authenticated afterwards.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	return s.authenticate(ctx, pathRegister, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (s *Session) authenticate(ctx context.Context, path string, body map[string]string) error {
	var resp authResponse
	if err := s.client.post(ctx, path, body, &resp); err != nil {
		return err
	}

	s.mu.Lock()
	s.status = StatusAuthenticated
	s.token = resp.AccessToken
	user := resp.User
	s.user = &user
	s.mu.Unlock()

	// Persistence is best effort: a failed write degrades restart behavior
	// but the live session is already valid.
	_ = s.store.Save(resp.AccessToken)
	return nil
}

// Logout clears the token, the user identity, and the persisted token.
// It always succeeds and has no failure path.
func (s *Session) Logout() {
	s.invalidate()
}

// invalidate drops the session. Also called when a request comes back 401
// while we believed the (possibly restored) token was still valid.
func (s *Session) invalidate() {
	s.mu.Lock()
	s.status = StatusUnauthenticated
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	_ = s.store.Clear()
}

func (s *Session) setUnauthenticated() {
	s.mu.Lock()
	s.status = StatusUnauthenticated
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// Status returns the current session status.
func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentUser returns the authenticated user, or nil when no session is
// active. The user is present if and only if Status is Authenticated.
func (s *Session) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// AuthHeader returns the Authorization header value to attach to outbound
// requests, or "" when not authenticated.
func (s *Session) AuthHeader() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusAuthenticated || s.token == "" {
		return ""
	}
	return "Bearer " + s.token
}

// userFromToken recovers the user identity from an access token without
// contacting the server. Returns false for tokens that are not well-formed
// JWTs, carry no subject, or have already expired.
func userFromToken(token string) (*User, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return nil, false
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil, false
	}

	return &User{Username: sub}, true
}
