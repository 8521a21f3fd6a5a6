package types

import "time"

const DefaultNoteTitle = "Untitled Note"

type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotePatch is a partial update. Nil fields are left untouched; the store
// stamps UpdatedAt whenever a patch is applied.
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (p NotePatch) IsZero() bool {
	return p.Title == nil && p.Content == nil
}
