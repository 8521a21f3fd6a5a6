package daemon

import (
	"context"
	"strings"

	"quill/internal/store"
	"quill/internal/types"
)

// NoteService scopes every note operation to the calling identity. Owners
// are immutable; a note is only visible to, and mutable by, its owner.
type NoteService struct {
	notes store.NoteStore
}

func NewNoteService(notes store.NoteStore) *NoteService {
	return &NoteService{notes: notes}
}

func (s *NoteService) List(ctx context.Context, identity *Identity) ([]*types.Note, error) {
	if identity == nil {
		return nil, unauthorizedError("unauthorized", nil)
	}
	notes, err := s.notes.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, unavailableError("note list failed", err)
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, identity *Identity, title, content string) (*types.Note, error) {
	if identity == nil {
		return nil, unauthorizedError("unauthorized", nil)
	}
	created, err := s.notes.Create(ctx, &types.Note{
		UserID:  identity.UserID,
		Title:   title,
		Content: content,
	})
	if err != nil {
		return nil, unavailableError("note create failed", err)
	}
	return created, nil
}

func (s *NoteService) Update(ctx context.Context, identity *Identity, id string, patch types.NotePatch) (*types.Note, error) {
	if identity == nil {
		return nil, unauthorizedError("unauthorized", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, invalidError("note id is required", nil)
	}
	if patch.IsZero() {
		return nil, invalidError("patch must set title or content", nil)
	}
	existing, ok, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, unavailableError("note lookup failed", err)
	}
	if !ok || existing.UserID != identity.UserID {
		return nil, notFoundError("note not found", store.ErrNoteNotFound)
	}
	updated, err := s.notes.Update(ctx, id, patch)
	if err != nil {
		return nil, unavailableError("note update failed", err)
	}
	return updated, nil
}

// Delete reports success for an id that is already gone; the client does
// not distinguish "deleted" from "never existed".
func (s *NoteService) Delete(ctx context.Context, identity *Identity, id string) error {
	if identity == nil {
		return unauthorizedError("unauthorized", nil)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return invalidError("note id is required", nil)
	}
	existing, ok, err := s.notes.Get(ctx, id)
	if err != nil {
		return unavailableError("note lookup failed", err)
	}
	if ok && existing.UserID != identity.UserID {
		return notFoundError("note not found", store.ErrNoteNotFound)
	}
	if !ok {
		return nil
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return unavailableError("note delete failed", err)
	}
	return nil
}
