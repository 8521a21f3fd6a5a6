package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"quill/internal/client"
	"quill/internal/session"
	"quill/internal/types"
)

func fetchNotesCmd(api NotesAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		notes, err := api.ListNotes(ctx)
		return notesMsg{notes: notes, err: err}
	}
}

func createNoteCmd(api NotesAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		note, err := api.CreateNote(ctx, types.DefaultNoteTitle, "")
		return noteCreatedMsg{note: note, err: err}
	}
}

func saveNoteCmd(api NotesAPI, id string, patch types.NotePatch, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		note, err := api.UpdateNote(ctx, id, patch)
		return noteSavedMsg{seq: seq, note: note, err: err}
	}
}

func deleteNoteCmd(api NotesAPI, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		err := api.DeleteNote(ctx, id)
		return noteDeletedMsg{id: id, err: err}
	}
}

func autosaveFlushCmd(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return autosaveFlushMsg{seq: seq}
	})
}

func signInCmd(api AuthAPI, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		session, err := api.SignIn(ctx, email, password)
		return signedInMsg{session: session, err: err}
	}
}

func signUpCmd(api AuthAPI, req client.SignUpRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		session, err := api.SignUp(ctx, req)
		return signedUpMsg{session: session, err: err}
	}
}

func signOutCmd(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		return signedOutMsg{err: store.SignOut(ctx)}
	}
}

// fetchAdminDataCmd runs the three dashboard fetches concurrently; any
// failure fails the whole page.
func fetchAdminDataCmd(api AdminAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()

		var (
			stats    *types.UsageStats
			profiles []*types.Profile
			owners   []string
		)
		group, ctx := errgroup.WithContext(ctx)
		group.Go(func() error {
			var err error
			stats, err = api.AdminStats(ctx)
			return err
		})
		group.Go(func() error {
			var err error
			profiles, err = api.AdminProfiles(ctx)
			return err
		})
		group.Go(func() error {
			var err error
			owners, err = api.NoteOwners(ctx)
			return err
		})
		if err := group.Wait(); err != nil {
			return adminDataMsg{err: err}
		}
		return adminDataMsg{stats: stats, profiles: profiles, owners: owners}
	}
}

// watchSessionCmd delivers the next session transition from the store's
// subscription channel; the update loop re-arms it after each message.
func watchSessionCmd(updates <-chan *types.Session) tea.Cmd {
	return func() tea.Msg {
		session, ok := <-updates
		return sessionChangedMsg{session: session, ok: ok}
	}
}

func copyToClipboardCmd(text, success string) tea.Cmd {
	return func() tea.Msg {
		_, err := copyTextToClipboard(text)
		return clipboardResultMsg{success: success, err: err}
	}
}
