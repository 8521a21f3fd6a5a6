package app

import (
	"quill/internal/types"
)

type editorState int

const (
	editorClean editorState = iota
	editorDirty
	editorSaving
)

func (s editorState) String() string {
	switch s {
	case editorDirty:
		return "dirty"
	case editorSaving:
		return "saving"
	default:
		return "clean"
	}
}

// EditorController tracks the draft for the open note and the save state
// machine. At most one save is in flight; edits made while a save runs keep
// the controller dirty so a follow-up save is scheduled when the first one
// lands.
type EditorController struct {
	noteID       string
	lastSaved    types.Note
	draftTitle   string
	draftContent string
	state        editorState

	saveSeq     int
	inFlightSeq int
	sentTitle   string
	sentContent string
}

func NewEditorController() *EditorController {
	return &EditorController{}
}

// Open loads a note into the editor, discarding any prior draft. Switching
// notes never carries unsaved text across.
func (e *EditorController) Open(note *types.Note) {
	e.inFlightSeq = 0
	if note == nil {
		e.noteID = ""
		e.lastSaved = types.Note{}
		e.draftTitle = ""
		e.draftContent = ""
		e.state = editorClean
		return
	}
	e.noteID = note.ID
	e.lastSaved = *note
	e.draftTitle = note.Title
	e.draftContent = note.Content
	e.state = editorClean
}

func (e *EditorController) NoteID() string       { return e.noteID }
func (e *EditorController) DraftTitle() string   { return e.draftTitle }
func (e *EditorController) DraftContent() string { return e.draftContent }
func (e *EditorController) Dirty() bool          { return e.state != editorClean }
func (e *EditorController) Saving() bool         { return e.state == editorSaving }
func (e *EditorController) StateLabel() string   { return e.state.String() }

// SetDraft records an edit. The transition to dirty happens only when the
// draft actually differs from the last saved copy; during a save the state
// stays saving and the edit joins the in-flight draft's successor.
func (e *EditorController) SetDraft(title, content string) {
	if e.noteID == "" {
		return
	}
	e.draftTitle = title
	e.draftContent = content
	if e.state == editorSaving {
		return
	}
	if title == e.lastSaved.Title && content == e.lastSaved.Content {
		e.state = editorClean
		return
	}
	e.state = editorDirty
}

// RequestAutosave bumps the debounce sequence and returns it. A flush timer
// carrying an older sequence is stale and must be ignored.
func (e *EditorController) RequestAutosave() int {
	e.saveSeq++
	return e.saveSeq
}

// ShouldFlush reports whether a flush timer with the given sequence is the
// most recent one and there is something to save.
func (e *EditorController) ShouldFlush(seq int) bool {
	return seq == e.saveSeq && e.state == editorDirty
}

// BeginSave transitions to saving and returns the patch of changed fields.
// It returns false when no save should start: nothing dirty, no note open,
// or a save already in flight.
func (e *EditorController) BeginSave() (string, types.NotePatch, int, bool) {
	if e.noteID == "" || e.state != editorDirty {
		return "", types.NotePatch{}, 0, false
	}
	var patch types.NotePatch
	if e.draftTitle != e.lastSaved.Title {
		title := e.draftTitle
		patch.Title = &title
	}
	if e.draftContent != e.lastSaved.Content {
		content := e.draftContent
		patch.Content = &content
	}
	if patch.IsZero() {
		e.state = editorClean
		return "", types.NotePatch{}, 0, false
	}
	e.state = editorSaving
	e.saveSeq++
	e.inFlightSeq = e.saveSeq
	e.sentTitle = e.draftTitle
	e.sentContent = e.draftContent
	return e.noteID, patch, e.inFlightSeq, true
}

// CompleteSave lands the save result. On success the acknowledged draft
// becomes the new baseline; if the draft moved on during the save the editor
// is dirty again and the caller should schedule another save. On failure the
// draft is preserved untouched and the editor returns to dirty.
func (e *EditorController) CompleteSave(seq int, saved *types.Note, err error) (needsAnotherSave bool) {
	if seq != e.inFlightSeq || e.state != editorSaving {
		return false
	}
	e.inFlightSeq = 0
	if err != nil {
		e.state = editorDirty
		return false
	}
	if saved != nil && saved.ID == e.noteID {
		e.lastSaved = *saved
		// The daemon normalizes what it stores (blank titles become the
		// placeholder, whitespace is trimmed). The draft that was sent, not
		// the returned row, is the baseline for deciding whether edits are
		// still pending.
		e.lastSaved.Title = e.sentTitle
		e.lastSaved.Content = e.sentContent
	}
	if e.draftTitle == e.sentTitle && e.draftContent == e.sentContent {
		e.state = editorClean
		return false
	}
	e.state = editorDirty
	return true
}
