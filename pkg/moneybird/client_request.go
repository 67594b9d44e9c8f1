package moneybird

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/moneybird/pkg/idx"
	"github.com/aussiebroadwan/moneybird/pkg/slogx"
)

// Get performs a GET request on the endpoint identified by the resource
// path and returns the decoded JSON response. Pass NoAdministration for
// resources that are not tenant-scoped.
//
// Example:
//
//	raw, err := client.Get(ctx, "administrations", moneybird.NoAdministration)
//	raw, err := client.Get(ctx, "contacts/synchronization", 123)
func (c *Client) Get(ctx context.Context, resourcePath string, adminID AdministrationID) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, resourcePath, adminID, nil)
}

// Post performs a POST request with data encoded as the JSON body. POST
// requests are usually used to add new data.
func (c *Client) Post(ctx context.Context, resourcePath string, data any, adminID AdministrationID) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, resourcePath, adminID, data)
}

// Patch performs a PATCH request with data encoded as the JSON body. PATCH
// requests are usually used to change existing data.
func (c *Client) Patch(ctx context.Context, resourcePath string, data any, adminID AdministrationID) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, resourcePath, adminID, data)
}

// Delete performs a DELETE request on the endpoint identified by the
// resource path. Deletion is usually permanent; use with caution.
func (c *Client) Delete(ctx context.Context, resourcePath string, adminID AdministrationID) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, resourcePath, adminID, nil)
}

func (c *Client) do(ctx context.Context, method, resourcePath string, adminID AdministrationID, data any) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	reqURL := c.resourceURL(adminID, resourcePath)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	reqID := idx.New().String()
	req.Header.Set("X-Request-Id", reqID)

	logger := c.logger
	if l, ok := slogx.Logger(ctx); ok {
		logger = l
	}
	logger = logger.With("req_id", reqID, "method", method, "url", reqURL)
	logger.Debug("api_request")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.Debug("api_response", "status", resp.StatusCode, "bytes", len(respBody))

	return processResponse(resp, respBody)
}

// processResponse classifies a response as success or a typed APIError.
// Success bodies that do not decode as JSON (e.g. an empty 204 body) yield
// a nil result, not an error.
func processResponse(resp *http.Response, body []byte) (json.RawMessage, error) {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		var raw json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, nil
		}
		return raw, nil
	}
	return nil, newAPIError(resp, body)
}
