package moneybird

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"
)

// Version is the SDK version reported in the default User-Agent header.
const Version = "0.1.0"

const (
	defaultBaseURL = "https://moneybird.com/api/"
	apiVersion     = "v2"
)

// AdministrationID identifies a tenant (an "administration") in the
// MoneyBird data model. Most resources are nested under one.
type AdministrationID int64

// NoAdministration requests a resource that is not scoped to an
// administration, e.g. the administrations listing itself.
const NoAdministration AdministrationID = 0

// Client is a client for the MoneyBird API. It owns a Session derived from
// its authentication strategy and rebuilds it on RenewSession.
//
// A Client is not safe for concurrent use while RenewSession may be called;
// issuing requests concurrently is as safe as the underlying *http.Client.
// Callers that need concurrency should use independent clients.
type Client struct {
	// BaseURL is the API root, default "https://moneybird.com/api/".
	BaseURL string

	// UserAgent is sent with every request.
	UserAgent string

	auth       Authentication
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	session    *Session
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Intended for test servers.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.BaseURL = baseURL }
}

// WithHTTPClient replaces the HTTP client used by the session, including
// after renewals.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

// WithLogger attaches a logger for request-level debug logging. The client
// is silent without one.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRateLimit paces outgoing requests to rps requests per second with the
// given burst, so a busy caller does not trip the API's throttling. This is
// client-side pacing only; a Throttled error is still surfaced, never
// retried.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// New creates a client for the given authentication strategy and
// immediately derives a session from it.
func New(auth Authentication, opts ...Option) *Client {
	c := &Client{
		BaseURL:   defaultBaseURL,
		UserAgent: "moneybird-go/" + Version,
		auth:      auth,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.RenewSession()
	return c
}

// RenewSession discards the current session and builds a new one from the
// same strategy, reapplying the default headers. Use it to pick up
// credential changes (e.g. after an OAuth exchange) or to drop
// transport-level state such as cookies.
func (c *Client) RenewSession() {
	s := c.auth.Session()
	s.Header.Set("User-Agent", c.UserAgent)
	s.Header.Set("Accept", "application/json")
	if c.httpClient != nil {
		s.HTTPClient = c.httpClient
	}
	c.session = s
}

// resourceURL builds the absolute URL for a resource path, optionally
// scoped to an administration:
//
//	<base>/v2/[<administrationID>/]<resourcePath>.json
func (c *Client) resourceURL(adminID AdministrationID, resourcePath string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(c.BaseURL, "/"))
	b.WriteString("/" + apiVersion + "/")
	if adminID != NoAdministration {
		b.WriteString(strconv.FormatInt(int64(adminID), 10))
		b.WriteString("/")
	}
	b.WriteString(strings.Trim(resourcePath, "/"))
	b.WriteString(".json")
	return b.String()
}
