package app

import (
	"context"

	"quill/internal/client"
	"quill/internal/types"
)

// NotesAPI is the slice of the daemon client the note views depend on.
type NotesAPI interface {
	ListNotes(ctx context.Context) ([]*types.Note, error)
	CreateNote(ctx context.Context, title, content string) (*types.Note, error)
	UpdateNote(ctx context.Context, id string, patch types.NotePatch) (*types.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// AuthAPI covers the credential exchanges driven from the sign-in screens.
type AuthAPI interface {
	SignUp(ctx context.Context, req client.SignUpRequest) (*types.Session, error)
	SignIn(ctx context.Context, email, password string) (*types.Session, error)
}

// AdminAPI covers the dashboard's three aggregate fetches.
type AdminAPI interface {
	AdminStats(ctx context.Context) (*types.UsageStats, error)
	AdminProfiles(ctx context.Context) ([]*types.Profile, error)
	NoteOwners(ctx context.Context) ([]string, error)
}

// DaemonAPI is everything the TUI needs from the daemon client.
type DaemonAPI interface {
	NotesAPI
	AuthAPI
	AdminAPI
}
