package app

import (
	"quill/internal/types"
)

type notesMsg struct {
	notes []*types.Note
	err   error
}

type noteCreatedMsg struct {
	note *types.Note
	err  error
}

type noteSavedMsg struct {
	seq  int
	note *types.Note
	err  error
}

type noteDeletedMsg struct {
	id  string
	err error
}

type autosaveFlushMsg struct {
	seq int
}

type signedInMsg struct {
	session *types.Session
	err     error
}

type signedUpMsg struct {
	session *types.Session
	err     error
}

type signedOutMsg struct {
	err error
}

type sessionChangedMsg struct {
	session *types.Session
	ok      bool
}

type adminDataMsg struct {
	stats    *types.UsageStats
	profiles []*types.Profile
	owners   []string
	err      error
}

type clipboardResultMsg struct {
	success string
	err     error
}
