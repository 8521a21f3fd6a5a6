package store

import (
	"context"
	"errors"
	"time"

	"quill/internal/types"
)

var (
	ErrNoteNotFound    = errors.New("note not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// NoteStore is the copy of record for notes. List results are ordered by
// created timestamp descending and are always non-nil.
type NoteStore interface {
	ListByUser(ctx context.Context, userID string) ([]*types.Note, error)
	// ListOwnerIDs returns the owner id of every stored note, one entry
	// per note. The admin view counts occurrences client-side.
	ListOwnerIDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*types.Note, bool, error)
	Create(ctx context.Context, note *types.Note) (*types.Note, error)
	Update(ctx context.Context, id string, patch types.NotePatch) (*types.Note, error)
	// Delete removes the note. Deleting an id that does not exist is
	// treated as success.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountAuthorsSince(ctx context.Context, cutoff time.Time) (int, error)
}

type ProfileStore interface {
	List(ctx context.Context) ([]*types.Profile, error)
	Get(ctx context.Context, id string) (*types.Profile, bool, error)
	GetByEmail(ctx context.Context, email string) (*types.Profile, bool, error)
	Upsert(ctx context.Context, profile *types.Profile) (*types.Profile, error)
	Count(ctx context.Context) (int, error)
}

// CredentialStore keeps password hashes keyed by user id, apart from the
// reporting projection in ProfileStore.
type CredentialStore interface {
	Set(ctx context.Context, userID string, hash []byte) error
	Get(ctx context.Context, userID string) ([]byte, bool, error)
}

type Repository interface {
	Notes() NoteStore
	Profiles() ProfileStore
	Credentials() CredentialStore
	Close() error
}
