package daemon

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"quill/internal/logging"
	"quill/internal/store"
)

type testHarness struct {
	server *httptest.Server
	repo   store.Repository
	signer *TokenSigner
	events *AuthEventBroker
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()
	repo, err := store.NewBboltRepository(filepath.Join(t.TempDir(), "quill.db"))
	if err != nil {
		t.Fatalf("NewBboltRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	signer, err := NewTokenSigner([]byte("test-secret-test-secret-test-sec"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenSigner: %v", err)
	}

	events := NewAuthEventBroker()
	api := &API{
		Version: "test",
		Auth:    NewAuthService(repo, signer, events),
		Notes:   NewNoteService(repo.Notes()),
		Admin:   NewAdminService(repo),
		Signer:  signer,
		Events:  events,
		Logger:  logging.Nop(),
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	server := httptest.NewServer(SessionAuthMiddleware(signer, mux))
	t.Cleanup(server.Close)

	return &testHarness{server: server, repo: repo, signer: signer, events: events}
}

func (h *testHarness) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (h *testHarness) signUp(t *testing.T, email string) AuthResponse {
	t.Helper()
	var resp AuthResponse
	status := h.do(t, http.MethodPost, "/v1/auth/signup", "", SignUpRequest{
		Email:    email,
		Password: "correct horse",
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d", email, status)
	}
	if resp.Token == "" || resp.Session == nil {
		t.Fatalf("signup %s: missing token or session", email)
	}
	return resp
}
