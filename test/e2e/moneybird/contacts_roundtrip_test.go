package moneybird_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/moneybird/pkg/moneybird"
	"github.com/stretchr/testify/require"
)

// TestContactRoundTrip exercises the full lifecycle of a resource:
// create it, change one field, delete it, and observe the NotFound.
func TestContactRoundTrip(t *testing.T) {
	t.Parallel()

	mock := setupMockMoneyBird(t)
	client := moneybird.New(
		moneybird.NewTokenAuthentication(testToken),
		moneybird.WithBaseURL(mock.URL+"/api/"),
	)

	// Create.
	raw, err := client.Post(context.Background(), "contacts", map[string]any{
		"company_name": "Parkietje B.V.",
		"firstname":    "Piet",
	}, testAdminID)
	require.NoError(t, err)

	created := decodeContact(t, raw)
	require.NotEmpty(t, created["id"])
	require.Equal(t, "Parkietje B.V.", created["company_name"])
	require.Equal(t, "Piet", created["firstname"])

	id, ok := created["id"].(string)
	require.True(t, ok)

	// Patch one field; the others must persist.
	raw, err = client.Patch(context.Background(), "contacts/"+id, map[string]any{
		"company_name": "Parkietje Holding B.V.",
	}, testAdminID)
	require.NoError(t, err)

	updated := decodeContact(t, raw)
	require.Equal(t, "Parkietje Holding B.V.", updated["company_name"])
	require.Equal(t, "Piet", updated["firstname"])

	// A fresh GET observes the update.
	raw, err = client.Get(context.Background(), "contacts/"+id, testAdminID)
	require.NoError(t, err)
	require.Equal(t, "Parkietje Holding B.V.", decodeContact(t, raw)["company_name"])

	// Delete returns no body.
	raw, err = client.Delete(context.Background(), "contacts/"+id, testAdminID)
	require.NoError(t, err)
	require.Nil(t, raw)

	// The contact is gone.
	_, err = client.Get(context.Background(), "contacts/"+id, testAdminID)
	require.ErrorIs(t, err, moneybird.ErrNotFound)

	var apiErr *moneybird.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.StatusCode)
	require.Equal(t, "Record not found", apiErr.Description)
}

// TestBadTokenIsUnauthorized confirms the mock rejects wrong credentials
// the way the real service does, and that the client surfaces it.
func TestBadTokenIsUnauthorized(t *testing.T) {
	t.Parallel()

	mock := setupMockMoneyBird(t)
	client := moneybird.New(
		moneybird.NewTokenAuthentication("wrong-token"),
		moneybird.WithBaseURL(mock.URL+"/api/"),
	)

	_, err := client.Get(context.Background(), "contacts/1", testAdminID)
	require.ErrorIs(t, err, moneybird.ErrUnauthorized)
}

func decodeContact(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()

	var contact map[string]any
	require.NoError(t, json.Unmarshal(raw, &contact))
	return contact
}
