package daemon

import (
	"net/http"
	"testing"

	"quill/internal/types"
)

func TestSignUpAndSignIn(t *testing.T) {
	h := newTestHarness(t)

	created := h.signUp(t, "ada@example.com")
	if created.Session.Email != "ada@example.com" {
		t.Fatalf("unexpected session email: %q", created.Session.Email)
	}
	if created.Session.LastSignIn == nil {
		t.Fatalf("expected last sign-in to be set")
	}

	var signedIn AuthResponse
	status := h.do(t, http.MethodPost, "/v1/auth/signin", "", SignInRequest{
		Email:    "Ada@Example.com",
		Password: "correct horse",
	}, &signedIn)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if signedIn.Session.UserID != created.Session.UserID {
		t.Fatalf("sign-in resolved a different account")
	}
}

func TestFirstAccountBootstrapsAdmin(t *testing.T) {
	h := newTestHarness(t)

	first := h.signUp(t, "ada@example.com")
	if !first.Session.IsAdmin {
		t.Fatalf("expected the first account to be admin")
	}
	second := h.signUp(t, "bob@example.com")
	if second.Session.IsAdmin {
		t.Fatalf("expected later accounts to be regular users")
	}

	// The bootstrap claim is usable straight away.
	if status := h.do(t, http.MethodGet, "/v1/admin/stats", first.Token, nil, &types.UsageStats{}); status != http.StatusOK {
		t.Fatalf("expected 200 for the bootstrapped admin, got %d", status)
	}
	if status := h.do(t, http.MethodGet, "/v1/admin/stats", second.Token, nil, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for the second account, got %d", status)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	h := newTestHarness(t)
	h.signUp(t, "ada@example.com")

	status := h.do(t, http.MethodPost, "/v1/auth/signup", "", SignUpRequest{
		Email:    "ada@example.com",
		Password: "another pass",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	h := newTestHarness(t)
	h.signUp(t, "ada@example.com")

	status := h.do(t, http.MethodPost, "/v1/auth/signin", "", SignInRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestRefreshIssuesNewToken(t *testing.T) {
	h := newTestHarness(t)
	created := h.signUp(t, "ada@example.com")

	var refreshed AuthResponse
	status := h.do(t, http.MethodPost, "/v1/auth/refresh", created.Token, nil, &refreshed)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if refreshed.Token == "" {
		t.Fatalf("expected a token")
	}
	identity, err := h.signer.Verify(refreshed.Token)
	if err != nil {
		t.Fatalf("verify refreshed token: %v", err)
	}
	if identity.UserID != created.Session.UserID {
		t.Fatalf("refreshed token carries a different identity")
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	h := newTestHarness(t)
	if status := h.do(t, http.MethodGet, "/v1/notes", "", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if status := h.do(t, http.MethodGet, "/v1/notes", "not-a-token", nil, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", status)
	}
}

func TestSignOutPublishesEvent(t *testing.T) {
	h := newTestHarness(t)
	created := h.signUp(t, "ada@example.com")

	events, cancel := harnessEvents(h)
	defer cancel()

	status := h.do(t, http.MethodPost, "/v1/auth/signout", created.Token, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	event := <-events
	if event.Type != types.AuthEventSignedOut {
		t.Fatalf("expected signed_out event, got %s", event.Type)
	}
	if event.Session == nil || event.Session.UserID != created.Session.UserID {
		t.Fatalf("signed_out event missing session identity")
	}
}

// harnessEvents reaches into the running API's broker the same way the SSE
// handler does.
func harnessEvents(h *testHarness) (<-chan types.AuthEvent, func()) {
	return h.events.Subscribe()
}
