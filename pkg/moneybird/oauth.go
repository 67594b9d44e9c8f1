package moneybird

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultOAuthBaseURL = "https://moneybird.com/oauth/"
	authorizePath       = "authorize/"
	tokenPath           = "token/"

	// stateSize is the number of random bytes in a generated state value,
	// 43 characters once base64url encoded.
	stateSize = 32
)

// OAuthAuthentication implements the OAuth2 authorization code flow for the
// MoneyBird API. Steady-state authentication is delegated to a wrapped
// TokenAuthentication; the strategy becomes ready once ObtainToken succeeds
// or when constructed with a token from an earlier authorization.
type OAuthAuthentication struct {
	redirectURL  string
	clientID     string
	clientSecret string

	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	token *TokenAuthentication
}

// OAuthOption configures an OAuthAuthentication.
type OAuthOption func(*OAuthAuthentication)

// WithOAuthBaseURL overrides the OAuth endpoint base URL. Intended for test
// servers.
func WithOAuthBaseURL(baseURL string) OAuthOption {
	return func(a *OAuthAuthentication) { a.baseURL = baseURL }
}

// WithOAuthHTTPClient replaces the HTTP client used for the token exchange.
func WithOAuthHTTPClient(hc *http.Client) OAuthOption {
	return func(a *OAuthAuthentication) { a.httpClient = hc }
}

// WithOAuthLogger attaches a logger. The strategy is silent without one.
func WithOAuthLogger(logger *slog.Logger) OAuthOption {
	return func(a *OAuthAuthentication) { a.logger = logger }
}

// NewOAuthAuthentication creates an OAuth strategy for the given client
// identity. token may carry a bearer token from an earlier authorization;
// leave it empty to start the flow from scratch.
func NewOAuthAuthentication(redirectURL, clientID, clientSecret, token string, opts ...OAuthOption) *OAuthAuthentication {
	a := &OAuthAuthentication{
		redirectURL:  redirectURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      defaultOAuthBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		token:  NewTokenAuthentication(token),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsReady reports whether a token has been obtained.
func (a *OAuthAuthentication) IsReady() bool {
	return a.token.IsReady()
}

// Session delegates to the wrapped token strategy.
func (a *OAuthAuthentication) Session() *Session {
	return a.token.Session()
}

// Token returns the obtained bearer token, or an empty string before the
// exchange has completed.
func (a *OAuthAuthentication) Token() string {
	return a.token.Token()
}

// AuthorizeURL returns the URL to redirect the user to so they can
// authorize the application, together with the state that was used. When
// state is empty a random value is generated; persist the returned state
// and pass it to ObtainToken for CSRF validation.
func (a *OAuthAuthentication) AuthorizeURL(scopes []string, state string) (authorizeURL, usedState string, err error) {
	if state == "" {
		state, err = generateState()
		if err != nil {
			return "", "", err
		}
		a.logger.Debug("generated oauth state", "state", state)
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", a.clientID)
	params.Set("redirect_uri", a.redirectURL)
	params.Set("scope", strings.Join(scopes, " "))
	params.Set("state", state)

	return a.endpoint(authorizePath) + "?" + params.Encode(), state, nil
}

// ObtainToken exchanges the authorization code for a bearer token. The code
// is extracted from redirectURL, the full URL the user was redirected back
// to; state must be the value used in AuthorizeURL (empty skips the check).
//
// On success the token is stored in the wrapped token strategy and
// returned: IsReady becomes true and new sessions authenticate with it.
func (a *OAuthAuthentication) ObtainToken(ctx context.Context, redirectURL, state string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect URL: %w", err)
	}
	query := u.Query()

	if errCode := query.Get("error"); errCode != "" {
		a.logger.Warn("error received in oauth authorization response", "error", errCode)
		return "", newOAuthError(errCode, query.Get("error_description"))
	}

	code := query.Get("code")
	if code == "" {
		a.logger.Error("redirect is not a valid oauth authorization response: no code")
		return "", ErrMissingCode
	}

	if state != "" && query.Get("state") != state {
		a.logger.Warn("oauth state mismatch, possible CSRF attack",
			"expected", state, "received", query.Get("state"))
		return "", ErrStateMismatch
	}

	tokenResp, err := a.exchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	a.token.SetToken(tokenResp)
	a.logger.Debug("obtained oauth access token", "state", state)
	return tokenResp, nil
}

func (a *OAuthAuthentication) exchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {a.redirectURL},
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		a.endpoint(tokenPath),
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var token struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		a.logger.Error("token endpoint returned an invalid response", "err", err)
		return "", fmt.Errorf("invalid token response: %w", err)
	}

	if token.Error != "" {
		a.logger.Warn("error while obtaining oauth token", "error", token.Error)
		return "", newOAuthError(token.Error, token.ErrorDescription)
	}
	if token.AccessToken == "" {
		a.logger.Error("token endpoint returned a response without an access token")
		return "", ErrNoAccessToken
	}

	return token.AccessToken, nil
}

func (a *OAuthAuthentication) endpoint(path string) string {
	return strings.TrimSuffix(a.baseURL, "/") + "/" + path
}

// generateState creates a random state value for CSRF protection.
func generateState() (string, error) {
	buf := make([]byte, stateSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
