package moneybird

import (
	"net/http"
	"time"
)

// Session is the HTTP execution context for API requests. It carries the
// default headers an authentication strategy applied (Authorization) plus
// the headers the client reapplies on renewal (User-Agent, Accept).
//
// Sessions are recreated rather than mutated: Client.RenewSession discards
// the current one and asks the strategy for a fresh replacement.
type Session struct {
	// Header holds default headers applied to every request that does not
	// already set them.
	Header http.Header

	// HTTPClient performs the actual requests.
	HTTPClient *http.Client
}

// NewSession creates an empty session with a default HTTP client.
func NewSession() *Session {
	return &Session{
		Header: make(http.Header),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Do applies the session's default headers to req and executes it.
// Headers already present on the request are left alone.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	for key, values := range s.Header {
		if req.Header.Get(key) != "" {
			continue
		}
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return s.HTTPClient.Do(req)
}
