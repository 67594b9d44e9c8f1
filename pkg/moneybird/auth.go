package moneybird

import "sync"

// Authentication is implemented by authentication strategies for the
// MoneyBird API. A strategy knows how to build a Session that carries
// valid credentials and can report whether it is able to do so yet.
type Authentication interface {
	// IsReady reports whether a request made with a Session from this
	// strategy is certain to carry credentials. A false result means a
	// request will not authenticate.
	IsReady() bool

	// Session builds a fresh Session with the strategy's credentials
	// applied as default headers. It has no side effects beyond session
	// construction.
	Session() *Session
}

// TokenAuthentication authenticates requests with a static bearer token.
// The token can be replaced after construction with SetToken, which is
// how OAuthAuthentication stores a token once an exchange completes.
type TokenAuthentication struct {
	mu    sync.RWMutex
	token string
}

// NewTokenAuthentication creates a token strategy. An empty token is
// allowed; the strategy is simply not ready until SetToken is called.
func NewTokenAuthentication(token string) *TokenAuthentication {
	return &TokenAuthentication{token: token}
}

// SetToken replaces the bearer token used for future sessions. Existing
// sessions are unaffected; call Client.RenewSession to pick up the change.
func (a *TokenAuthentication) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// Token returns the current bearer token, which may be empty.
func (a *TokenAuthentication) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// IsReady reports whether a non-empty token is held.
func (a *TokenAuthentication) IsReady() bool {
	return a.Token() != ""
}

// Session builds a session with the Authorization header applied.
func (a *TokenAuthentication) Session() *Session {
	s := NewSession()
	s.Header.Set("Authorization", "Bearer "+a.Token())
	return s
}
