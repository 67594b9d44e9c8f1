/*
Package moneybird provides a client for the MoneyBird accounting API.

# Overview

The package is a thin mapping from library calls to HTTP calls: it
authenticates requests, builds resource URLs, issues the four HTTP verbs and
classifies responses into a typed error taxonomy. Responses are returned as
raw JSON for the caller to decode; the package deliberately defines no
resource models.

# Authentication

Two strategies implement the Authentication interface. With a personal API
token, use TokenAuthentication:

	auth := moneybird.NewTokenAuthentication("your-token")
	client := moneybird.New(auth)

	raw, err := client.Get(ctx, "administrations", moneybird.NoAdministration)

For applications acting on behalf of a user, OAuthAuthentication performs
the authorization code flow:

	auth := moneybird.NewOAuthAuthentication(redirectURL, clientID, clientSecret, "")

	// Redirect the user here; persist state for the callback.
	authURL, state, err := auth.AuthorizeURL([]string{"sales_invoices"}, "")

	// In the callback handler, exchange the code for a token.
	token, err := auth.ObtainToken(ctx, callbackURL, state)

	client := moneybird.New(auth)

A client built from a not-yet-ready OAuth strategy starts working after
ObtainToken succeeds and Client.RenewSession is called.

# Requests

Resource paths map directly to the vendor's endpoints. Most resources are
scoped to an administration (tenant); pass its id, or NoAdministration for
global endpoints:

	raw, err := client.Post(ctx, "contacts", contact, 123)
	raw, err := client.Patch(ctx, "contacts/"+id, update, 123)
	raw, err := client.Delete(ctx, "contacts/"+id, 123)

Responses with no JSON body (a 204 after Delete, for instance) return a nil
json.RawMessage and no error.

# Error Handling

Every non-success response becomes an *APIError that unwraps to a kind
sentinel, so errors can be matched narrowly or broadly:

	_, err := client.Get(ctx, "contacts/"+id, 123)
	if errors.Is(err, moneybird.ErrNotFound) {
		// the contact is gone
	}

	var apiErr *moneybird.APIError
	if errors.As(err, &apiErr) {
		log.Printf("%s failed: %d", apiErr.Request(), apiErr.StatusCode)
	}

The OAuth flow returns *OAuthError for provider-reported errors and the
ErrMissingCode / ErrStateMismatch / ErrNoAccessToken sentinels for malformed
redirects and token responses.

No retries, backoff or pagination handling are performed; every failure is
surfaced to the caller synchronously.

# Concurrency

A Client is not safe for concurrent use while RenewSession may be called.
Use one client per goroutine, or synchronize externally.
*/
package moneybird
