package app

import (
	"errors"
	"testing"

	"quill/internal/types"
)

func openedEditor() *EditorController {
	e := NewEditorController()
	e.Open(&types.Note{ID: "n1", Title: "Groceries", Content: "milk"})
	return e
}

func TestEditorDirtyOnlyWhenDraftDiffers(t *testing.T) {
	e := openedEditor()
	if e.Dirty() {
		t.Fatalf("expected clean editor after open")
	}

	e.SetDraft("Groceries", "milk and eggs")
	if !e.Dirty() {
		t.Fatalf("expected dirty after edit")
	}

	e.SetDraft("Groceries", "milk")
	if e.Dirty() {
		t.Fatalf("expected clean after reverting to saved text")
	}
}

func TestEditorSingleSaveInFlight(t *testing.T) {
	e := openedEditor()
	e.SetDraft("Groceries", "milk and eggs")

	id, patch, seq, ok := e.BeginSave()
	if !ok {
		t.Fatalf("expected save to start")
	}
	if id != "n1" {
		t.Fatalf("unexpected note id %q", id)
	}
	if patch.Title != nil {
		t.Fatalf("title did not change, patch should omit it")
	}
	if patch.Content == nil || *patch.Content != "milk and eggs" {
		t.Fatalf("unexpected content patch: %+v", patch)
	}

	if _, _, _, ok := e.BeginSave(); ok {
		t.Fatalf("expected second save to be suppressed while one is in flight")
	}

	saved := &types.Note{ID: "n1", Title: "Groceries", Content: "milk and eggs"}
	if again := e.CompleteSave(seq, saved, nil); again {
		t.Fatalf("expected no follow-up save")
	}
	if e.Dirty() {
		t.Fatalf("expected clean after successful save")
	}
}

func TestEditorEditsDuringSaveTriggerFollowUp(t *testing.T) {
	e := openedEditor()
	e.SetDraft("Groceries", "milk and eggs")
	_, _, seq, ok := e.BeginSave()
	if !ok {
		t.Fatalf("expected save to start")
	}

	// The user keeps typing while the save runs.
	e.SetDraft("Groceries", "milk, eggs, bread")
	if !e.Saving() {
		t.Fatalf("expected editor to remain in saving state")
	}

	saved := &types.Note{ID: "n1", Title: "Groceries", Content: "milk and eggs"}
	if again := e.CompleteSave(seq, saved, nil); !again {
		t.Fatalf("expected a follow-up save for the newer draft")
	}
	if !e.Dirty() {
		t.Fatalf("expected dirty editor holding the newer draft")
	}
	if e.DraftContent() != "milk, eggs, bread" {
		t.Fatalf("draft was lost: %q", e.DraftContent())
	}
}

func TestEditorFailedSavePreservesDraft(t *testing.T) {
	e := openedEditor()
	e.SetDraft("Renamed", "milk and eggs")
	_, _, seq, ok := e.BeginSave()
	if !ok {
		t.Fatalf("expected save to start")
	}

	if again := e.CompleteSave(seq, nil, errors.New("daemon down")); again {
		t.Fatalf("failure must not auto-retry")
	}
	if !e.Dirty() {
		t.Fatalf("expected dirty after failed save")
	}
	if e.DraftTitle() != "Renamed" || e.DraftContent() != "milk and eggs" {
		t.Fatalf("draft was reverted: %q / %q", e.DraftTitle(), e.DraftContent())
	}

	// The draft can be retried as-is.
	if _, _, _, ok := e.BeginSave(); !ok {
		t.Fatalf("expected retry to start a new save")
	}
}

func TestEditorNormalizedSaveSettlesClean(t *testing.T) {
	e := openedEditor()

	// Blanking the title makes the daemon store the placeholder instead, so
	// the returned row never matches the draft verbatim.
	e.SetDraft("", "milk")
	_, patch, seq, ok := e.BeginSave()
	if !ok {
		t.Fatalf("expected save to start")
	}
	if patch.Title == nil || *patch.Title != "" {
		t.Fatalf("expected blank title in patch, got %+v", patch)
	}

	saved := &types.Note{ID: "n1", Title: types.DefaultNoteTitle, Content: "milk"}
	if again := e.CompleteSave(seq, saved, nil); again {
		t.Fatalf("normalized title must not trigger another save")
	}
	if e.Dirty() {
		t.Fatalf("expected clean editor after the save landed")
	}
	if _, _, _, ok := e.BeginSave(); ok {
		t.Fatalf("nothing left to save")
	}

	// A later content-only edit does not resend the title.
	e.SetDraft("", "milk and eggs")
	_, patch, seq, ok = e.BeginSave()
	if !ok {
		t.Fatalf("expected save to start")
	}
	if patch.Title != nil {
		t.Fatalf("title did not change again, patch should omit it: %+v", patch)
	}
	if again := e.CompleteSave(seq, &types.Note{ID: "n1", Title: types.DefaultNoteTitle, Content: "milk and eggs"}, nil); again {
		t.Fatalf("expected the save to settle")
	}
	if e.Dirty() {
		t.Fatalf("expected clean editor")
	}
}

func TestEditorAutosaveSequenceSuppression(t *testing.T) {
	e := openedEditor()
	e.SetDraft("Groceries", "v1")
	first := e.RequestAutosave()
	e.SetDraft("Groceries", "v2")
	second := e.RequestAutosave()

	if e.ShouldFlush(first) {
		t.Fatalf("stale timer must not flush")
	}
	if !e.ShouldFlush(second) {
		t.Fatalf("latest timer should flush")
	}

	e.SetDraft("Groceries", "milk")
	if e.ShouldFlush(second) {
		t.Fatalf("clean editor must not flush")
	}
}

func TestEditorSwitchNoteDiscardsDraft(t *testing.T) {
	e := openedEditor()
	e.SetDraft("Groceries", "unsaved edit")

	e.Open(&types.Note{ID: "n2", Title: "Ideas", Content: "a TUI"})
	if e.Dirty() {
		t.Fatalf("expected clean editor after switching notes")
	}
	if e.NoteID() != "n2" || e.DraftContent() != "a TUI" {
		t.Fatalf("expected the new note's stored content")
	}
}

func TestEditorStaleCompletionIgnored(t *testing.T) {
	e := openedEditor()
	e.SetDraft("Groceries", "milk and eggs")
	_, _, seq, _ := e.BeginSave()

	// A completion for a note that was swapped out mid-save is dropped.
	e.Open(&types.Note{ID: "n2", Title: "Ideas", Content: "a TUI"})
	if again := e.CompleteSave(seq, &types.Note{ID: "n1"}, nil); again {
		t.Fatalf("stale completion must be ignored")
	}
	if e.NoteID() != "n2" || e.Dirty() {
		t.Fatalf("stale completion corrupted the editor")
	}
}
