package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"quill/internal/types"
)

func (m *Model) View() string {
	switch m.mode {
	case uiModeSignIn, uiModeSignUp:
		return m.viewAuth()
	case uiModeAdmin:
		return m.viewAdmin()
	default:
		return m.viewNotes()
	}
}

func (m *Model) viewAuth() string {
	var b strings.Builder
	title := "quill · sign in"
	if m.mode == uiModeSignUp {
		title = "quill · create account"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString("email\n")
	b.WriteString(m.emailInput.View())
	b.WriteString("\n\npassword\n")
	b.WriteString(m.passwordInput.View())
	if m.mode == uiModeSignUp {
		b.WriteString("\n\nusername\n")
		b.WriteString(m.usernameInput.View())
		b.WriteString("\n\ndisplay name\n")
		b.WriteString(m.displayInput.View())
	}
	b.WriteString("\n\n")
	if m.authBusy {
		b.WriteString(m.spin.View() + " ")
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n\n")
	toggle := "ctrl+u sign up"
	if m.mode == uiModeSignUp {
		toggle = "ctrl+u sign in"
	}
	b.WriteString(helpStyle.Render("enter next/submit · tab move · " + toggle + " · esc quit"))
	if toast := m.toastLine(m.width); toast != "" {
		b.WriteString("\n" + toast)
	}
	return b.String()
}

func (m *Model) viewNotes() string {
	if m.fetchErr != nil {
		return m.viewFullScreenError("could not load notes", m.fetchErr.Error(), "ctrl+r retry · ctrl+l sign out · q quit")
	}

	list := m.viewNoteList()
	editor := m.viewEditor()
	panes := lipgloss.JoinHorizontal(lipgloss.Top, list, editor)

	var b strings.Builder
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(m.viewStatusLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.notesHelpLine()))
	if toast := m.toastLine(m.width); toast != "" {
		b.WriteString("\n" + toast)
	}
	return b.String()
}

func (m *Model) viewNoteList() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("notes"))
	if m.loadingNotes {
		b.WriteString(" " + m.spin.View())
	}
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	filtered := m.collection.Filtered()
	if len(filtered) == 0 {
		if strings.TrimSpace(m.collection.SearchTerm()) != "" {
			b.WriteString(listMetaStyle.Render("no notes match the search"))
		} else {
			b.WriteString(listMetaStyle.Render("no notes yet · press n"))
		}
	}
	selected := m.collection.SelectedID()
	maxTitle := listPaneWidth - 6
	for _, note := range filtered {
		line := truncateToWidth(noteListTitle(note), maxTitle)
		if note.ID == selected {
			b.WriteString(listSelectedStyle.Render("› " + line))
		} else {
			b.WriteString(listItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
		b.WriteString(listMetaStyle.Render("  " + relativeTime(note.UpdatedAt)))
		b.WriteString("\n")
	}

	height := m.height - 5
	if height < 5 {
		height = 5
	}
	return listPaneStyle.Width(listPaneWidth).Height(height).Render(b.String())
}

func (m *Model) viewEditor() string {
	width := m.width - listPaneWidth - 6
	if width < 24 {
		width = 24
	}
	height := m.height - 5
	if height < 5 {
		height = 5
	}

	note := m.collection.SelectedNote()
	if note == nil {
		return editorPaneStyle.Width(width).Height(height).Render(
			listMetaStyle.Render("select a note, or press n to create one"))
	}

	var b strings.Builder
	b.WriteString(m.titleInput.View())
	b.WriteString("  ")
	b.WriteString(m.editorBadge())
	b.WriteString("\n\n")
	if m.previewOpen {
		b.WriteString(renderMarkdown(m.editor.DraftContent(), width-2))
	} else {
		b.WriteString(m.contentInput.View())
	}
	return editorPaneStyle.Width(width).Height(height).Render(b.String())
}

func (m *Model) editorBadge() string {
	switch {
	case m.editor.Saving():
		return savingBadgeStyle.Render("● saving")
	case m.editor.Dirty():
		return dirtyBadgeStyle.Render("● unsaved")
	default:
		return cleanBadgeStyle.Render("● saved")
	}
}

func (m *Model) viewStatusLine() string {
	parts := []string{}
	if m.sessions != nil && m.sessions.Current() != nil {
		parts = append(parts, m.sessions.Current().Email)
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return statusStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) notesHelpLine() string {
	switch m.focus {
	case focusSearch:
		return "type to filter · enter done · esc clear"
	case focusTitle, focusContent:
		return "tab title/body · ctrl+s save · ctrl+p preview · esc back"
	default:
		help := "j/k move · enter edit · n new · d delete · / search · p preview · ctrl+y copy · ctrl+l sign out · q quit"
		if m.sessions != nil && m.sessions.IsAdmin() {
			help = "a admin · " + help
		}
		return help
	}
}

func (m *Model) viewAdmin() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("quill · admin dashboard"))
	if m.loadingAdmin {
		b.WriteString(" " + m.spin.View())
	}
	b.WriteString("\n\n")

	if err := m.admin.LoadError(); err != nil {
		return m.viewFullScreenError("dashboard unavailable", err.Error(), "r retry · esc back · q quit")
	}
	if !m.admin.Loaded() {
		b.WriteString(statusStyle.Render("loading aggregates..."))
		return b.String()
	}

	stats := m.admin.Stats()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statsCard("users", stats.TotalUsers),
		" ",
		statsCard("notes", stats.TotalNotes),
		" ",
		statsCard("active authors (30d)", stats.ActiveAuthors),
	)
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(m.adminFilter.View())
	b.WriteString("   ")
	b.WriteString(statusStyle.Render("sort: " + m.admin.SortLabel()))
	b.WriteString("\n\n")
	b.WriteString(m.viewAdminTable())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1 name · 2 username · 3 notes · 4 created · 5 last sign-in (again flips) · / filter · r refresh · esc back"))
	if toast := m.toastLine(m.width); toast != "" {
		b.WriteString("\n" + toast)
	}
	return b.String()
}

func (m *Model) viewAdminTable() string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-24s %-16s %6s %12s %14s", "name", "username", "notes", "created", "last sign-in")))
	b.WriteString("\n")
	for _, row := range m.admin.Rows() {
		profile := row.Profile
		b.WriteString(fmt.Sprintf("%-24s %-16s %6d %12s %14s\n",
			truncateToWidth(displayName(profile), 24),
			truncateToWidth(profile.Username, 16),
			row.NoteCount,
			profile.CreatedAt.Local().Format("2006-01-02"),
			lastSignInLabel(profile.LastSignIn),
		))
	}
	return b.String()
}

func (m *Model) viewFullScreenError(title, detail, help string) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(detail)
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(help))
	return b.String()
}

func statsCard(label string, value int) string {
	body := statsValueStyle.Render(fmt.Sprintf("%d", value)) + "\n" + statusStyle.Render(label)
	return statsCardStyle.Render(body)
}

func noteListTitle(note *types.Note) string {
	title := strings.TrimSpace(note.Title)
	if title == "" {
		return types.DefaultNoteTitle
	}
	return title
}

func displayName(profile *types.Profile) string {
	if strings.TrimSpace(profile.DisplayName) != "" {
		return profile.DisplayName
	}
	return profile.Username
}

func lastSignInLabel(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02")
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Local().Format("Jan 2")
	}
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
