package moneybird

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds for API failures. Every *APIError unwraps to exactly one of
// these sentinels, so callers can match narrowly with errors.Is or broadly
// with errors.As(&APIError{}).
var (
	// ErrUnauthorized covers 400 and 401 responses. The API uses 400 for
	// authentication failures as well; this mapping is part of the error
	// contract and is kept as-is.
	ErrUnauthorized = errors.New("moneybird: unauthorized")

	// ErrThrottled covers 403 and 429 responses: access is (temporarily)
	// denied, try again later.
	ErrThrottled = errors.New("moneybird: throttled")

	// ErrNotFound covers 404 and 406 responses.
	ErrNotFound = errors.New("moneybird: not found")

	// ErrInvalidData covers 422 responses: the API rejected the input.
	ErrInvalidData = errors.New("moneybird: invalid data")

	// ErrServerError covers 500 responses.
	ErrServerError = errors.New("moneybird: server error")

	// ErrUnknownStatus covers every status code outside the documented set.
	ErrUnknownStatus = errors.New("moneybird: unknown status code")
)

// Validation errors for the OAuth redirect and token exchange.
var (
	// ErrMissingCode is returned when the redirect URL carries no code
	// parameter and is therefore not a valid authorization response.
	ErrMissingCode = errors.New("moneybird: redirect is not a valid authorization response: no code")

	// ErrStateMismatch is returned when the state parameter in the redirect
	// does not equal the expected state. Treat this as a CSRF attempt.
	ErrStateMismatch = errors.New("moneybird: state in redirect does not match the expected state")

	// ErrNoAccessToken is returned when the token endpoint response carries
	// no access_token field.
	ErrNoAccessToken = errors.New("moneybird: token response contains no access token")
)

// APIError is the error returned for any non-success API response. All
// failure kinds share this one shape and differ only by the sentinel they
// unwrap to.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Method and URL identify the request that triggered the error.
	Method string
	URL    string

	// Body is the raw response body.
	Body []byte

	// Description is the human-readable message extracted from the JSON
	// error body, when one was present.
	Description string

	kind error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("moneybird: API error %d", e.StatusCode)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

// Unwrap returns the kind sentinel for this error (ErrUnauthorized,
// ErrThrottled, ErrNotFound, ErrInvalidData, ErrServerError or
// ErrUnknownStatus).
func (e *APIError) Unwrap() error { return e.kind }

// Request returns a short representation of the triggering request.
func (e *APIError) Request() string {
	return e.Method + " " + e.URL
}

// JSON returns the decoded response body, or nil when it is not valid JSON.
func (e *APIError) JSON() json.RawMessage {
	var raw json.RawMessage
	if err := json.Unmarshal(e.Body, &raw); err != nil {
		return nil
	}
	return raw
}

// errorKind maps a status code to its kind sentinel. Success codes never
// reach this function.
func errorKind(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden, http.StatusTooManyRequests:
		return ErrThrottled
	case http.StatusNotFound, http.StatusNotAcceptable:
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		return ErrInvalidData
	case http.StatusInternalServerError:
		return ErrServerError
	default:
		return ErrUnknownStatus
	}
}

// newAPIError builds an APIError from a response, extracting a description
// from the JSON error body when possible. A body that is not JSON or has no
// error field yields an empty description, never a secondary failure.
func newAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       body,
		kind:       errorKind(resp.StatusCode),
	}
	if resp.Request != nil {
		apiErr.Method = resp.Request.Method
		apiErr.URL = resp.Request.URL.String()
	}

	var payload struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		switch v := payload.Error.(type) {
		case string:
			apiErr.Description = v
		default:
			// Validation errors arrive as an object keyed by attribute.
			if b, err := json.Marshal(v); err == nil {
				apiErr.Description = string(b)
			}
		}
	}

	return apiErr
}

// OAuthError is returned when the authorization provider reports a protocol
// error, either as an error parameter in the redirect or as an error field
// in the token endpoint response.
type OAuthError struct {
	// Code is the provider's error code, e.g. "access_denied".
	Code string

	// Description is the provider's human-readable explanation.
	Description string
}

// Error implements the error interface.
func (e *OAuthError) Error() string {
	return fmt.Sprintf("moneybird: oauth error (%s): %s", e.Code, e.Description)
}

// newOAuthError builds an OAuthError, substituting defaults for fields the
// provider left out.
func newOAuthError(code, description string) *OAuthError {
	if code == "" {
		code = "unknown"
	}
	if description == "" {
		description = "Unknown reason"
	}
	return &OAuthError{Code: code, Description: description}
}
