package client

import "quill/internal/types"

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
	PID     int    `json:"pid"`
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string         `json:"token"`
	Session *types.Session `json:"session"`
}

type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type NotesResponse struct {
	Notes []*types.Note `json:"notes"`
}

type NoteOwnersResponse struct {
	Owners []string `json:"owners"`
}

type ProfilesResponse struct {
	Profiles []*types.Profile `json:"profiles"`
}
