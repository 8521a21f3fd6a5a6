package app

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/logging"
	"quill/internal/session"
	"quill/internal/types"
)

const (
	defaultAutosaveIdle = 10 * time.Second
	listPaneWidth       = 34
)

type uiMode int

const (
	uiModeSignIn uiMode = iota
	uiModeSignUp
	uiModeNotes
	uiModeAdmin
)

type notesFocus int

const (
	focusList notesFocus = iota
	focusSearch
	focusTitle
	focusContent
)

// Model is the top-level bubbletea model for the quill TUI.
type Model struct {
	notesAPI NotesAPI
	authAPI  AuthAPI
	adminAPI AdminAPI
	sessions *session.Store
	logger   logging.Logger

	collection *CollectionController
	editor     *EditorController
	admin      *AdminController

	mode  uiMode
	focus notesFocus

	width  int
	height int

	searchInput   textinput.Model
	titleInput    textinput.Model
	contentInput  textarea.Model
	emailInput    textinput.Model
	passwordInput textinput.Model
	usernameInput textinput.Model
	displayInput  textinput.Model
	adminFilter   textinput.Model
	spin          spinner.Model

	autosaveIdle time.Duration
	previewOpen  bool

	loadingNotes bool
	loadingAdmin bool
	authBusy     bool
	fetchErr     error

	status     string
	toastText  string
	toastLevel toastLevel
	toastUntil time.Time

	authField int

	sessionUpdates <-chan *types.Session
	cancelUpdates  func()
}

// Options tune the model beyond its API dependencies.
type Options struct {
	AutosaveIdle time.Duration
	DarkMarkdown bool
	StartInAdmin bool
	Logger       logging.Logger
}

func NewModel(api DaemonAPI, sessions *session.Store, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.AutosaveIdle <= 0 {
		opts.AutosaveIdle = defaultAutosaveIdle
	}
	setMarkdownBackgroundDark(opts.DarkMarkdown)

	search := textinput.New()
	search.Placeholder = "search notes"
	search.Prompt = "/ "
	search.CharLimit = 200

	title := textinput.New()
	title.Placeholder = types.DefaultNoteTitle
	title.Prompt = ""
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write in markdown..."
	content.ShowLineNumbers = false

	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "> "

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.EchoMode = textinput.EchoPassword

	username := textinput.New()
	username.Placeholder = "username (optional)"
	username.Prompt = "> "

	display := textinput.New()
	display.Placeholder = "display name (optional)"
	display.Prompt = "> "

	filter := textinput.New()
	filter.Placeholder = "filter by name or username"
	filter.Prompt = "/ "

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := &Model{
		notesAPI:      api,
		authAPI:       api,
		adminAPI:      api,
		sessions:      sessions,
		logger:        opts.Logger,
		collection:    NewCollectionController(),
		editor:        NewEditorController(),
		admin:         NewAdminController(),
		searchInput:   search,
		titleInput:    title,
		contentInput:  content,
		emailInput:    email,
		passwordInput: password,
		usernameInput: username,
		displayInput:  display,
		adminFilter:   filter,
		spin:          spin,
		autosaveIdle:  opts.AutosaveIdle,
	}

	if sessions != nil && sessions.SignedIn() {
		m.mode = uiModeNotes
		if opts.StartInAdmin && sessions.IsAdmin() {
			m.mode = uiModeAdmin
		}
	} else {
		m.mode = uiModeSignIn
		m.emailInput.Focus()
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.sessions != nil {
		updates, cancel := m.sessions.Subscribe()
		m.sessionUpdates = updates
		m.cancelUpdates = cancel
		cmds = append(cmds, watchSessionCmd(updates))
	}
	switch m.mode {
	case uiModeNotes:
		m.loadingNotes = true
		cmds = append(cmds, fetchNotesCmd(m.notesAPI))
	case uiModeAdmin:
		m.loadingAdmin = true
		cmds = append(cmds, fetchAdminDataCmd(m.adminAPI))
	}
	return tea.Batch(cmds...)
}

// quit tears down the session subscription before handing control back to
// bubbletea.
func (m *Model) quit() tea.Cmd {
	if m.cancelUpdates != nil {
		m.cancelUpdates()
		m.cancelUpdates = nil
	}
	return tea.Quit
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case sessionChangedMsg:
		return m.reduceSessionChanged(msg)
	case notesMsg:
		return m.reduceNotes(msg)
	case noteCreatedMsg:
		return m.reduceNoteCreated(msg)
	case noteSavedMsg:
		return m.reduceNoteSaved(msg)
	case noteDeletedMsg:
		return m.reduceNoteDeleted(msg)
	case autosaveFlushMsg:
		return m.reduceAutosaveFlush(msg)
	case signedInMsg:
		return m.reduceSignedIn(msg.session, msg.err)
	case signedUpMsg:
		return m.reduceSignedIn(msg.session, msg.err)
	case signedOutMsg:
		if msg.err != nil {
			m.showErrorToast("sign out: " + msg.err.Error())
		}
		m.enterSignIn("signed out")
		return m, nil
	case adminDataMsg:
		return m.reduceAdminData(msg)
	case clipboardResultMsg:
		if msg.err != nil {
			m.showErrorToast("copy failed: " + msg.err.Error())
		} else {
			m.showInfoToast(msg.success)
		}
		return m, nil
	case tea.KeyMsg:
		return m.reduceKey(msg)
	}
	return m, nil
}

func (m *Model) reduceSessionChanged(msg sessionChangedMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		return m, nil
	}
	rearm := watchSessionCmd(m.sessionUpdates)
	if msg.session == nil {
		if m.mode == uiModeNotes || m.mode == uiModeAdmin {
			m.enterSignIn("session ended")
		}
		return m, rearm
	}
	if m.mode == uiModeSignIn || m.mode == uiModeSignUp {
		return m, tea.Batch(rearm, m.enterNotes())
	}
	return m, rearm
}

func (m *Model) reduceNotes(msg notesMsg) (tea.Model, tea.Cmd) {
	m.loadingNotes = false
	if msg.err != nil {
		// Keep whatever list is already on screen; first fetch failures
		// block the page instead.
		if len(m.collection.Notes()) == 0 {
			m.fetchErr = msg.err
		}
		m.showErrorToast("load notes: " + msg.err.Error())
		m.logger.Warn("note list fetch failed", logging.F("error", msg.err.Error()))
		return m, nil
	}
	m.fetchErr = nil
	previous := m.collection.SelectedID()
	m.collection.SetNotes(msg.notes)
	if m.collection.SelectedID() != previous || m.editor.NoteID() != m.collection.SelectedID() {
		m.openSelectedNote()
	}
	return m, nil
}

func (m *Model) reduceNoteCreated(msg noteCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.showErrorToast("create note: " + msg.err.Error())
		return m, nil
	}
	m.collection.NoteCreated(msg.note)
	m.searchInput.SetValue("")
	m.openSelectedNote()
	m.setNotesFocus(focusTitle)
	m.showInfoToast("note created")
	return m, fetchNotesCmd(m.notesAPI)
}

func (m *Model) reduceNoteSaved(msg noteSavedMsg) (tea.Model, tea.Cmd) {
	needsAnother := m.editor.CompleteSave(msg.seq, msg.note, msg.err)
	if msg.err != nil {
		m.showErrorToast("save failed: " + msg.err.Error())
		m.logger.Warn("note save failed", logging.F("error", msg.err.Error()))
		return m, nil
	}
	m.collection.NoteSaved(msg.note)
	if needsAnother {
		return m, m.beginSaveCmd()
	}
	m.status = "saved"
	return m, fetchNotesCmd(m.notesAPI)
}

func (m *Model) reduceNoteDeleted(msg noteDeletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The list stays untouched so the user can retry.
		m.showErrorToast("delete failed: " + msg.err.Error())
		return m, nil
	}
	m.collection.NoteDeleted(msg.id)
	m.openSelectedNote()
	m.showInfoToast("note deleted")
	return m, fetchNotesCmd(m.notesAPI)
}

func (m *Model) reduceAutosaveFlush(msg autosaveFlushMsg) (tea.Model, tea.Cmd) {
	if !m.editor.ShouldFlush(msg.seq) {
		return m, nil
	}
	return m, m.beginSaveCmd()
}

func (m *Model) reduceSignedIn(sess *types.Session, err error) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if err != nil {
		m.showErrorToast(err.Error())
		return m, nil
	}
	if m.sessions != nil {
		m.sessions.RecordSignIn(sess)
	}
	return m, m.enterNotes()
}

func (m *Model) reduceAdminData(msg adminDataMsg) (tea.Model, tea.Cmd) {
	m.loadingAdmin = false
	if msg.err != nil {
		m.admin.SetError(msg.err)
		m.logger.Warn("admin fetch failed", logging.F("error", msg.err.Error()))
		return m, nil
	}
	m.admin.SetData(msg.stats, msg.profiles, msg.owners)
	return m, nil
}

// beginSaveCmd starts a save for the current draft when the editor allows
// one.
func (m *Model) beginSaveCmd() tea.Cmd {
	id, patch, seq, ok := m.editor.BeginSave()
	if !ok {
		return nil
	}
	return saveNoteCmd(m.notesAPI, id, patch, seq)
}

func (m *Model) enterNotes() tea.Cmd {
	m.mode = uiModeNotes
	m.fetchErr = nil
	m.loadingNotes = true
	m.setNotesFocus(focusList)
	m.status = "loading notes"
	return fetchNotesCmd(m.notesAPI)
}

func (m *Model) enterAdmin() tea.Cmd {
	if m.sessions == nil || !m.sessions.IsAdmin() {
		m.showErrorToast("admin access required")
		return nil
	}
	m.mode = uiModeAdmin
	m.loadingAdmin = true
	m.adminFilter.Blur()
	m.status = "loading dashboard"
	return fetchAdminDataCmd(m.adminAPI)
}

func (m *Model) enterSignIn(status string) {
	m.mode = uiModeSignIn
	m.authField = 0
	m.passwordInput.SetValue("")
	m.blurAuthInputs()
	m.emailInput.Focus()
	if status != "" {
		m.status = status
	}
}

func (m *Model) blurAuthInputs() {
	m.emailInput.Blur()
	m.passwordInput.Blur()
	m.usernameInput.Blur()
	m.displayInput.Blur()
}

// openSelectedNote loads the collection's selection into the editor and the
// edit widgets, discarding any draft for the note that was open before.
func (m *Model) openSelectedNote() {
	note := m.collection.SelectedNote()
	if note != nil && note.ID == m.editor.NoteID() {
		return
	}
	m.editor.Open(note)
	if note == nil {
		m.titleInput.SetValue("")
		m.contentInput.SetValue("")
		return
	}
	m.titleInput.SetValue(note.Title)
	m.contentInput.SetValue(note.Content)
}

func (m *Model) setNotesFocus(focus notesFocus) {
	m.focus = focus
	m.searchInput.Blur()
	m.titleInput.Blur()
	m.contentInput.Blur()
	switch focus {
	case focusSearch:
		m.searchInput.Focus()
	case focusTitle:
		m.titleInput.Focus()
	case focusContent:
		m.contentInput.Focus()
	}
}

func (m *Model) resize() {
	editorWidth := m.width - listPaneWidth - 6
	if editorWidth < 20 {
		editorWidth = 20
	}
	contentHeight := m.height - 8
	if contentHeight < 3 {
		contentHeight = 3
	}
	m.contentInput.SetWidth(editorWidth)
	m.contentInput.SetHeight(contentHeight)
	m.searchInput.Width = listPaneWidth - 4
	m.titleInput.Width = editorWidth
	m.adminFilter.Width = min(60, m.width-6)
}

// onDraftEdited records the widget values into the editor and arms the
// autosave timer when the draft went dirty.
func (m *Model) onDraftEdited() tea.Cmd {
	m.editor.SetDraft(m.titleInput.Value(), m.contentInput.Value())
	if !m.editor.Dirty() || m.editor.Saving() {
		return nil
	}
	seq := m.editor.RequestAutosave()
	return autosaveFlushCmd(seq, m.autosaveIdle)
}
