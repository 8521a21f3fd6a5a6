package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/client"
)

func (m *Model) reduceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}
	switch m.mode {
	case uiModeSignIn, uiModeSignUp:
		return m.reduceAuthKey(msg)
	case uiModeAdmin:
		return m.reduceAdminKey(msg)
	default:
		return m.reduceNotesKey(msg)
	}
}

func (m *Model) authInputs() []*textinput.Model {
	if m.mode == uiModeSignUp {
		return []*textinput.Model{&m.emailInput, &m.passwordInput, &m.usernameInput, &m.displayInput}
	}
	return []*textinput.Model{&m.emailInput, &m.passwordInput}
}

func (m *Model) reduceAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inputs := m.authInputs()
	switch msg.String() {
	case "ctrl+u":
		if m.mode == uiModeSignIn {
			m.mode = uiModeSignUp
			m.status = "create an account"
		} else {
			m.mode = uiModeSignIn
			m.status = "sign in"
		}
		m.authField = 0
		m.focusAuthField()
		return m, nil
	case "tab", "down":
		m.authField = (m.authField + 1) % len(inputs)
		m.focusAuthField()
		return m, nil
	case "shift+tab", "up":
		m.authField = (m.authField - 1 + len(inputs)) % len(inputs)
		m.focusAuthField()
		return m, nil
	case "enter":
		if m.authField < len(inputs)-1 {
			m.authField++
			m.focusAuthField()
			return m, nil
		}
		return m, m.submitAuth()
	case "esc", "ctrl+q":
		return m, m.quit()
	}
	var cmd tea.Cmd
	*inputs[m.authField], cmd = inputs[m.authField].Update(msg)
	return m, cmd
}

func (m *Model) focusAuthField() {
	m.blurAuthInputs()
	inputs := m.authInputs()
	if m.authField >= len(inputs) {
		m.authField = 0
	}
	inputs[m.authField].Focus()
}

func (m *Model) submitAuth() tea.Cmd {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	if email == "" || password == "" {
		m.showErrorToast("email and password are required")
		return nil
	}
	if m.authBusy {
		return nil
	}
	m.authBusy = true
	m.status = "contacting daemon"
	if m.mode == uiModeSignUp {
		return signUpCmd(m.authAPI, client.SignUpRequest{
			Email:       email,
			Password:    password,
			Username:    strings.TrimSpace(m.usernameInput.Value()),
			DisplayName: strings.TrimSpace(m.displayInput.Value()),
		})
	}
	return signInCmd(m.authAPI, email, password)
}

func (m *Model) reduceNotesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Mode-wide chords work regardless of focus.
	switch msg.String() {
	case "ctrl+s":
		return m, m.beginSaveCmd()
	case "ctrl+r":
		m.loadingNotes = true
		m.status = "refreshing"
		return m, fetchNotesCmd(m.notesAPI)
	case "ctrl+n":
		m.status = "creating note"
		return m, createNoteCmd(m.notesAPI)
	case "ctrl+p":
		m.previewOpen = !m.previewOpen
		if m.previewOpen && m.focus == focusContent {
			m.setNotesFocus(focusList)
		}
		return m, nil
	case "ctrl+y":
		if note := m.collection.SelectedNote(); note != nil {
			return m, copyToClipboardCmd(m.editor.DraftContent(), "note copied")
		}
		return m, nil
	case "ctrl+l":
		if m.sessions == nil {
			return m, nil
		}
		return m, signOutCmd(m.sessions)
	}

	switch m.focus {
	case focusSearch:
		return m.reduceSearchKey(msg)
	case focusTitle, focusContent:
		return m.reduceEditorKey(msg)
	default:
		return m.reduceListKey(msg)
	}
}

func (m *Model) reduceListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+q":
		return m, m.quit()
	case "/":
		m.setNotesFocus(focusSearch)
		return m, nil
	case "up", "k":
		m.collection.MoveSelection(-1)
		m.openSelectedNote()
		return m, nil
	case "down", "j":
		m.collection.MoveSelection(1)
		m.openSelectedNote()
		return m, nil
	case "enter", "i":
		if m.collection.SelectedNote() != nil {
			m.previewOpen = false
			m.setNotesFocus(focusContent)
		}
		return m, nil
	case "t":
		if m.collection.SelectedNote() != nil {
			m.setNotesFocus(focusTitle)
		}
		return m, nil
	case "n":
		m.status = "creating note"
		return m, createNoteCmd(m.notesAPI)
	case "d":
		if note := m.collection.SelectedNote(); note != nil {
			m.status = "deleting " + noteListTitle(note)
			return m, deleteNoteCmd(m.notesAPI, note.ID)
		}
		return m, nil
	case "p":
		m.previewOpen = !m.previewOpen
		return m, nil
	case "a":
		return m, m.enterAdmin()
	case "r":
		m.loadingNotes = true
		return m, fetchNotesCmd(m.notesAPI)
	}
	return m, nil
}

func (m *Model) reduceSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.SetValue("")
		m.collection.SetSearchTerm("")
		m.openSelectedNote()
		m.setNotesFocus(focusList)
		return m, nil
	case "enter", "tab":
		m.setNotesFocus(focusList)
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.collection.SetSearchTerm(m.searchInput.Value())
	m.openSelectedNote()
	return m, cmd
}

func (m *Model) reduceEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setNotesFocus(focusList)
		return m, nil
	case "tab":
		if m.focus == focusTitle {
			m.setNotesFocus(focusContent)
		} else {
			m.setNotesFocus(focusTitle)
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.contentInput, cmd = m.contentInput.Update(msg)
	}
	return m, tea.Batch(cmd, m.onDraftEdited())
}

func (m *Model) reduceAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adminFilter.Focused() {
		switch msg.String() {
		case "esc":
			m.adminFilter.SetValue("")
			m.admin.SetFilter("")
			m.adminFilter.Blur()
			return m, nil
		case "enter", "tab":
			m.adminFilter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.adminFilter, cmd = m.adminFilter.Update(msg)
		m.admin.SetFilter(m.adminFilter.Value())
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+q":
		return m, m.quit()
	case "esc":
		return m, m.enterNotes()
	case "/":
		m.adminFilter.Focus()
		return m, nil
	case "r":
		m.loadingAdmin = true
		return m, fetchAdminDataCmd(m.adminAPI)
	case "1":
		m.admin.SortBy(adminSortName)
	case "2":
		m.admin.SortBy(adminSortUsername)
	case "3":
		m.admin.SortBy(adminSortNoteCount)
	case "4":
		m.admin.SortBy(adminSortCreated)
	case "5":
		m.admin.SortBy(adminSortLastSignIn)
	}
	return m, nil
}
