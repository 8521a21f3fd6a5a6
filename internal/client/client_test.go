package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quill/internal/types"
)

func TestListNotesSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(NotesResponse{Notes: []*types.Note{
			{ID: "n1", UserID: "u1", Title: "hello"},
		}})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok-123")
	notes, err := c.ListNotes(context.Background())
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if len(notes) != 1 || notes[0].ID != "n1" {
		t.Fatalf("unexpected notes: %+v", notes)
	}
}

func TestQueryErrorsWrapAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "stale")
	_, err := c.ListNotes(context.Background())
	if err == nil {
		t.Fatalf("expected an error")
	}
	var queryErr *RemoteQueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("expected RemoteQueryError, got %T", err)
	}
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized classification, got %v", err)
	}
}

func TestWriteErrorsWrapAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "note not found"})
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok")
	title := "t"
	_, err := c.UpdateNote(context.Background(), "missing", types.NotePatch{Title: &title})
	if err == nil {
		t.Fatalf("expected an error")
	}
	var writeErr *RemoteWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected RemoteWriteError, got %T", err)
	}
	if !IsNotFound(err) {
		t.Fatalf("expected not-found classification, got %v", err)
	}
}

func TestSignInPersistsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(AuthResponse{
			Token:   "fresh-token",
			Session: &types.Session{UserID: "u1", Email: "ada@example.com"},
		})
	}))
	defer server.Close()

	tokenPath := filepath.Join(t.TempDir(), "token")
	c := NewWithBaseURL(server.URL, "")
	c.tokenPath = tokenPath

	session, err := c.SignIn(context.Background(), "ada@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	data, err := os.ReadFile(tokenPath)
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	if string(data) != "fresh-token" {
		t.Fatalf("unexpected token file contents: %q", data)
	}
}

func TestSignOutClearsTokenEvenWhenDaemonFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer server.Close()

	tokenPath := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenPath, []byte("stale"), 0o600); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	c := NewWithBaseURL(server.URL, "stale")
	c.tokenPath = tokenPath

	if err := c.SignOut(context.Background()); err == nil {
		t.Fatalf("expected sign-out error")
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Fatalf("expected token file removed, got %v", err)
	}
	if c.HasToken() {
		t.Fatalf("expected in-memory token cleared")
	}
}

func TestAuthEventsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		payload, _ := json.Marshal(types.AuthEvent{
			Type:    types.AuthEventSignedOut,
			Session: &types.Session{UserID: "u1"},
		})
		w.Write([]byte("event: signed_out\ndata: " + string(payload) + "\n\n"))
		flusher.Flush()
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewWithBaseURL(server.URL, "tok")
	events, cancel, err := c.AuthEvents(context.Background())
	if err != nil {
		t.Fatalf("AuthEvents: %v", err)
	}
	defer cancel()

	select {
	case event := <-events:
		if event.Type != types.AuthEventSignedOut {
			t.Fatalf("unexpected event type %s", event.Type)
		}
		if event.Session == nil || event.Session.UserID != "u1" {
			t.Fatalf("unexpected event session: %+v", event.Session)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
}
