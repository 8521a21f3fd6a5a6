package app

import (
	"strings"

	"quill/internal/types"
)

// CollectionController owns the fetched note list, the search term, and the
// selection. It is pure state; fetching and debounce live in the update
// loop.
type CollectionController struct {
	notes      []*types.Note
	searchTerm string
	selectedID string
}

func NewCollectionController() *CollectionController {
	return &CollectionController{}
}

// SetNotes replaces the cached list wholesale and reconciles the selection
// against the new filtered view.
func (c *CollectionController) SetNotes(notes []*types.Note) {
	c.notes = notes
	c.reconcile()
}

func (c *CollectionController) Notes() []*types.Note {
	return c.notes
}

func (c *CollectionController) SearchTerm() string {
	return c.searchTerm
}

func (c *CollectionController) SetSearchTerm(term string) {
	c.searchTerm = term
	c.reconcile()
}

// Filtered returns the notes whose title or content contains the trimmed
// search term, case-insensitive. An empty term returns everything.
func (c *CollectionController) Filtered() []*types.Note {
	term := strings.ToLower(strings.TrimSpace(c.searchTerm))
	if term == "" {
		return c.notes
	}
	filtered := make([]*types.Note, 0, len(c.notes))
	for _, note := range c.notes {
		if note == nil {
			continue
		}
		if strings.Contains(strings.ToLower(note.Title), term) ||
			strings.Contains(strings.ToLower(note.Content), term) {
			filtered = append(filtered, note)
		}
	}
	return filtered
}

func (c *CollectionController) SelectedID() string {
	return c.selectedID
}

// SelectedNote resolves the selection against the filtered view, nil when
// nothing is selected.
func (c *CollectionController) SelectedNote() *types.Note {
	if c.selectedID == "" {
		return nil
	}
	for _, note := range c.Filtered() {
		if note != nil && note.ID == c.selectedID {
			return note
		}
	}
	return nil
}

// Select sets the selection when the id is visible in the filtered view;
// unknown ids fall back per the selection invariant.
func (c *CollectionController) Select(id string) {
	c.selectedID = id
	c.reconcile()
}

// SelectIndex moves the selection to the filtered view position, clamped.
func (c *CollectionController) SelectIndex(index int) {
	filtered := c.Filtered()
	if len(filtered) == 0 {
		c.selectedID = ""
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(filtered) {
		index = len(filtered) - 1
	}
	c.selectedID = filtered[index].ID
}

// SelectedIndex returns the position of the selection in the filtered view,
// -1 when nothing is selected.
func (c *CollectionController) SelectedIndex() int {
	if c.selectedID == "" {
		return -1
	}
	for i, note := range c.Filtered() {
		if note != nil && note.ID == c.selectedID {
			return i
		}
	}
	return -1
}

func (c *CollectionController) MoveSelection(delta int) {
	index := c.SelectedIndex()
	if index < 0 {
		c.SelectIndex(0)
		return
	}
	c.SelectIndex(index + delta)
}

// NoteCreated records a freshly created note: search is cleared so the note
// is visible, and it becomes the selection.
func (c *CollectionController) NoteCreated(note *types.Note) {
	if note == nil {
		return
	}
	c.searchTerm = ""
	c.notes = append([]*types.Note{note}, c.notes...)
	c.selectedID = note.ID
}

// NoteSaved folds an updated row back into the cache without waiting for
// the next refresh.
func (c *CollectionController) NoteSaved(note *types.Note) {
	if note == nil {
		return
	}
	for i, existing := range c.notes {
		if existing != nil && existing.ID == note.ID {
			c.notes[i] = note
			return
		}
	}
}

// NoteDeleted drops the row and lets the fallback pick the next selection.
func (c *CollectionController) NoteDeleted(id string) {
	if id == "" {
		return
	}
	kept := c.notes[:0]
	for _, note := range c.notes {
		if note != nil && note.ID == id {
			continue
		}
		kept = append(kept, note)
	}
	c.notes = kept
	c.reconcile()
}

// reconcile enforces the selection invariant: the selected id is either
// visible in the filtered view or replaced by the first filtered note, or
// cleared when the view is empty.
func (c *CollectionController) reconcile() {
	filtered := c.Filtered()
	if len(filtered) == 0 {
		c.selectedID = ""
		return
	}
	if c.selectedID != "" {
		for _, note := range filtered {
			if note != nil && note.ID == c.selectedID {
				return
			}
		}
	}
	c.selectedID = filtered[0].ID
}
