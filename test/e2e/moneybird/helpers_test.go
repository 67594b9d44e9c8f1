package moneybird_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	testToken   = "e2e-access-token"
	testAdminID = 123
)

// mockMoneyBird is an in-memory stand-in for the MoneyBird service. It
// serves a contacts resource under /api/v2/<admin>/contacts and the OAuth
// token endpoint under /oauth/token/.
type mockMoneyBird struct {
	URL string

	mu       sync.Mutex
	nextID   int64
	contacts map[string]map[string]any
}

// setupMockMoneyBird starts the mock service and registers its shutdown
// with the test's cleanup.
func setupMockMoneyBird(t *testing.T) *mockMoneyBird {
	t.Helper()

	m := &mockMoneyBird{
		nextID:   1,
		contacts: make(map[string]map[string]any),
	}
	srv := httptest.NewServer(http.HandlerFunc(m.handle))
	t.Cleanup(srv.Close)

	m.URL = srv.URL
	return m
}

func (m *mockMoneyBird) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/oauth/token/" {
		m.handleTokenExchange(w, r)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid access token"})
		return
	}

	adminPrefix := "/api/v2/" + strconv.Itoa(testAdminID) + "/"
	path, ok := strings.CutPrefix(r.URL.Path, adminPrefix)
	path, ok2 := strings.CutSuffix(path, ".json")
	if !ok || !ok2 {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Record not found"})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case path == "contacts" && r.Method == http.MethodPost:
		m.createContact(w, r)
	case strings.HasPrefix(path, "contacts/"):
		m.contactByID(w, r, strings.TrimPrefix(path, "contacts/"))
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Record not found"})
	}
}

func (m *mockMoneyBird) handleTokenExchange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "authorization_code" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	if r.PostForm.Get("code") == "" || r.PostForm.Get("client_id") == "" || r.PostForm.Get("client_secret") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": testToken, "token_type": "bearer"})
}

func (m *mockMoneyBird) createContact(w http.ResponseWriter, r *http.Request) {
	var contact map[string]any
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid body"})
		return
	}

	id := strconv.FormatInt(m.nextID, 10)
	m.nextID++
	contact["id"] = id
	m.contacts[id] = contact

	writeJSON(w, http.StatusCreated, contact)
}

func (m *mockMoneyBird) contactByID(w http.ResponseWriter, r *http.Request, id string) {
	contact, exists := m.contacts[id]
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Record not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, contact)
	case http.MethodPatch:
		var update map[string]any
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid body"})
			return
		}
		for key, value := range update {
			contact[key] = value
		}
		writeJSON(w, http.StatusOK, contact)
	case http.MethodDelete:
		delete(m.contacts, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Record not found"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
