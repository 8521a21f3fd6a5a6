package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"quill/internal/types"
)

type fakeAuthAPI struct {
	session    *types.Session
	refreshErr error
	signOutErr error
	events     chan types.AuthEvent
	cancelled  bool
}

func (f *fakeAuthAPI) RefreshToken(ctx context.Context) (*types.Session, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.session, nil
}

func (f *fakeAuthAPI) SignOut(ctx context.Context) error {
	return f.signOutErr
}

func (f *fakeAuthAPI) AuthEvents(ctx context.Context) (<-chan types.AuthEvent, func(), error) {
	if f.events == nil {
		f.events = make(chan types.AuthEvent, 8)
	}
	return f.events, func() {
		if !f.cancelled {
			f.cancelled = true
			close(f.events)
		}
	}, nil
}

func TestStartRestoresSession(t *testing.T) {
	api := &fakeAuthAPI{session: &types.Session{UserID: "u1", Email: "ada@example.com"}}
	store := NewStore(api, nil)
	if err := store.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer store.Stop()

	if !store.SignedIn() {
		t.Fatalf("expected signed-in store")
	}
	if store.Current().UserID != "u1" {
		t.Fatalf("unexpected session: %+v", store.Current())
	}
}

func TestStartWithoutTokenIsSignedOut(t *testing.T) {
	api := &fakeAuthAPI{refreshErr: errors.New("not signed in")}
	store := NewStore(api, nil)
	if err := store.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer store.Stop()

	if store.SignedIn() {
		t.Fatalf("expected signed-out store")
	}
}

func TestStreamEventsUpdateSession(t *testing.T) {
	api := &fakeAuthAPI{session: &types.Session{UserID: "u1"}}
	store := NewStore(api, nil)
	if err := store.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer store.Stop()

	updates, cancel := store.Subscribe()
	defer cancel()

	api.events <- types.AuthEvent{Type: types.AuthEventSignedOut}
	waitForSession(t, updates, nil)
	if store.SignedIn() {
		t.Fatalf("expected signed-out after signed_out event")
	}

	api.events <- types.AuthEvent{
		Type:    types.AuthEventSignedIn,
		Session: &types.Session{UserID: "u2"},
	}
	waitForSession(t, updates, &types.Session{UserID: "u2"})
	if store.Current().UserID != "u2" {
		t.Fatalf("expected session for u2, got %+v", store.Current())
	}
}

func TestSignOutClearsSessionDespiteError(t *testing.T) {
	api := &fakeAuthAPI{
		session:    &types.Session{UserID: "u1"},
		signOutErr: errors.New("daemon down"),
	}
	store := NewStore(api, nil)
	if err := store.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer store.Stop()

	if err := store.SignOut(context.Background()); err == nil {
		t.Fatalf("expected sign-out error")
	}
	if store.SignedIn() {
		t.Fatalf("expected signed-out store after failed sign-out")
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	store := NewStore(&fakeAuthAPI{}, nil)
	updates, cancel := store.Subscribe()
	cancel()
	if _, ok := <-updates; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	// A second cancel is harmless.
	cancel()
}

func waitForSession(t *testing.T, updates <-chan *types.Session, want *types.Session) {
	t.Helper()
	select {
	case got := <-updates:
		if want == nil && got != nil {
			t.Fatalf("expected nil session, got %+v", got)
		}
		if want != nil && (got == nil || got.UserID != want.UserID) {
			t.Fatalf("expected session %+v, got %+v", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for session update")
	}
}
