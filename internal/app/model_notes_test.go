package app

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/client"
	"quill/internal/session"
	"quill/internal/types"
)

type fakeDaemonAPI struct {
	notes     []*types.Note
	updates   []types.NotePatch
	updateErr error
	deleted   []string
	created   int
	stats     *types.UsageStats
	profiles  []*types.Profile
	owners    []string
	adminErr  error
}

func (f *fakeDaemonAPI) ListNotes(ctx context.Context) ([]*types.Note, error) {
	return f.notes, nil
}

func (f *fakeDaemonAPI) CreateNote(ctx context.Context, title, content string) (*types.Note, error) {
	f.created++
	note := &types.Note{ID: "created", Title: title, Content: content}
	f.notes = append([]*types.Note{note}, f.notes...)
	return note, nil
}

func (f *fakeDaemonAPI) UpdateNote(ctx context.Context, id string, patch types.NotePatch) (*types.Note, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, patch)
	updated := &types.Note{ID: id}
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Content != nil {
		updated.Content = *patch.Content
	}
	return updated, nil
}

func (f *fakeDaemonAPI) DeleteNote(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDaemonAPI) SignUp(ctx context.Context, req client.SignUpRequest) (*types.Session, error) {
	return &types.Session{UserID: "u1", Email: req.Email}, nil
}

func (f *fakeDaemonAPI) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	return &types.Session{UserID: "u1", Email: email}, nil
}

func (f *fakeDaemonAPI) AdminStats(ctx context.Context) (*types.UsageStats, error) {
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.stats, nil
}

func (f *fakeDaemonAPI) AdminProfiles(ctx context.Context) ([]*types.Profile, error) {
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.profiles, nil
}

func (f *fakeDaemonAPI) NoteOwners(ctx context.Context) ([]string, error) {
	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.owners, nil
}

func newNotesModel(api *fakeDaemonAPI) *Model {
	m := NewModel(api, nil, Options{})
	m.mode = uiModeNotes
	m.Update(notesMsg{notes: api.notes})
	return m
}

// drain executes a command tree synchronously and feeds every resulting
// message back into the model.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	switch batch := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range batch {
			drain(t, m, sub)
		}
		return
	case nil:
		return
	}
	if _, isTick := msg.(autosaveFlushMsg); isTick {
		// Timers are driven explicitly by the tests.
		return
	}
	_, next := m.Update(msg)
	drain(t, m, next)
}

func TestModelAutosaveFlushSavesLatestDraft(t *testing.T) {
	api := &fakeDaemonAPI{notes: []*types.Note{{ID: "n1", Title: "Groceries", Content: "milk"}}}
	m := newNotesModel(api)

	m.contentInput.SetValue("milk and eggs")
	m.titleInput.SetValue("Groceries")
	m.onDraftEdited()
	seq := m.editor.RequestAutosave()

	_, cmd := m.Update(autosaveFlushMsg{seq: seq})
	drain(t, m, cmd)

	if len(api.updates) != 1 {
		t.Fatalf("expected 1 save, got %d", len(api.updates))
	}
	if api.updates[0].Content == nil || *api.updates[0].Content != "milk and eggs" {
		t.Fatalf("unexpected patch: %+v", api.updates[0])
	}
	if m.editor.Dirty() {
		t.Fatalf("expected clean editor after save")
	}
}

func TestModelStaleAutosaveFlushIgnored(t *testing.T) {
	api := &fakeDaemonAPI{notes: []*types.Note{{ID: "n1", Title: "Groceries", Content: "milk"}}}
	m := newNotesModel(api)

	m.contentInput.SetValue("v1")
	m.onDraftEdited()
	stale := m.editor.RequestAutosave()
	m.contentInput.SetValue("v2")
	m.onDraftEdited()
	m.editor.RequestAutosave()

	_, cmd := m.Update(autosaveFlushMsg{seq: stale})
	drain(t, m, cmd)

	if len(api.updates) != 0 {
		t.Fatalf("stale flush must not save, got %d saves", len(api.updates))
	}
}

func TestModelFailedSaveKeepsDraftForRetry(t *testing.T) {
	api := &fakeDaemonAPI{
		notes:     []*types.Note{{ID: "n1", Title: "Groceries", Content: "milk"}},
		updateErr: errors.New("daemon down"),
	}
	m := newNotesModel(api)

	m.contentInput.SetValue("milk and eggs")
	m.onDraftEdited()
	seq := m.editor.RequestAutosave()
	_, cmd := m.Update(autosaveFlushMsg{seq: seq})
	drain(t, m, cmd)

	if !m.editor.Dirty() {
		t.Fatalf("expected dirty editor after failed save")
	}
	if m.editor.DraftContent() != "milk and eggs" {
		t.Fatalf("draft was lost: %q", m.editor.DraftContent())
	}

	// Manual retry succeeds once the daemon is back.
	api.updateErr = nil
	drain(t, m, m.beginSaveCmd())
	if len(api.updates) != 1 {
		t.Fatalf("expected retry save, got %d", len(api.updates))
	}
}

func TestModelDeleteRefreshesAndReselects(t *testing.T) {
	api := &fakeDaemonAPI{notes: []*types.Note{
		{ID: "n1", Title: "First"},
		{ID: "n2", Title: "Second"},
	}}
	m := newNotesModel(api)
	m.collection.Select("n2")
	m.openSelectedNote()

	api.notes = []*types.Note{{ID: "n1", Title: "First"}}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	drain(t, m, cmd)

	if len(api.deleted) != 1 || api.deleted[0] != "n2" {
		t.Fatalf("expected delete of n2, got %v", api.deleted)
	}
	if m.collection.SelectedID() != "n1" {
		t.Fatalf("expected fallback selection, got %q", m.collection.SelectedID())
	}
	if m.editor.NoteID() != "n1" {
		t.Fatalf("expected editor to follow selection, got %q", m.editor.NoteID())
	}
}

type fakeSessionAuthAPI struct {
	events    chan types.AuthEvent
	cancelled bool
}

func (f *fakeSessionAuthAPI) RefreshToken(ctx context.Context) (*types.Session, error) {
	return &types.Session{UserID: "u1", Email: "ada@example.com"}, nil
}

func (f *fakeSessionAuthAPI) SignOut(ctx context.Context) error { return nil }

func (f *fakeSessionAuthAPI) AuthEvents(ctx context.Context) (<-chan types.AuthEvent, func(), error) {
	f.events = make(chan types.AuthEvent, 8)
	return f.events, func() {
		if !f.cancelled {
			f.cancelled = true
			close(f.events)
		}
	}, nil
}

func TestModelQuitReleasesSessionSubscription(t *testing.T) {
	api := &fakeDaemonAPI{notes: []*types.Note{{ID: "n1", Title: "Groceries"}}}
	sessions := session.NewStore(&fakeSessionAuthAPI{}, nil)
	if err := sessions.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer sessions.Stop()

	m := NewModel(api, sessions, Options{})
	m.Init()
	if m.sessionUpdates == nil {
		t.Fatalf("expected an armed session subscription")
	}
	m.mode = uiModeNotes

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	select {
	case _, open := <-m.sessionUpdates:
		if open {
			t.Fatalf("expected the subscription channel to be closed")
		}
	default:
		t.Fatalf("expected the subscription channel to be closed, not empty")
	}
}

func TestModelAdminFailureShowsErrorState(t *testing.T) {
	api := &fakeDaemonAPI{adminErr: errors.New("forbidden")}
	m := NewModel(api, nil, Options{})
	m.mode = uiModeAdmin

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	drain(t, m, cmd)

	if m.admin.Loaded() {
		t.Fatalf("expected unloaded admin state")
	}
	if m.admin.LoadError() == nil {
		t.Fatalf("expected page-level error")
	}
}
