package daemon

import "net/http"

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.Health)
	mux.HandleFunc("/v1/auth/signup", a.SignUp)
	mux.HandleFunc("/v1/auth/signin", a.SignIn)
	mux.HandleFunc("/v1/auth/signout", a.SignOut)
	mux.HandleFunc("/v1/auth/refresh", a.RefreshToken)
	mux.HandleFunc("/v1/auth/events", a.AuthEvents)
	mux.HandleFunc("/v1/notes", a.NotesCollection)
	mux.HandleFunc("/v1/notes/", a.NoteByID)
	mux.HandleFunc("/v1/admin/stats", a.AdminStats)
	mux.HandleFunc("/v1/admin/profiles", a.AdminProfiles)
	mux.HandleFunc("/v1/admin/note-owners", a.AdminNoteOwners)
}
