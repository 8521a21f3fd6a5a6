package app

import (
	"sort"
	"strings"
	"time"

	"quill/internal/types"
)

type adminSortField int

const (
	adminSortName adminSortField = iota
	adminSortUsername
	adminSortNoteCount
	adminSortCreated
	adminSortLastSignIn
)

func (f adminSortField) Label() string {
	switch f {
	case adminSortUsername:
		return "username"
	case adminSortNoteCount:
		return "notes"
	case adminSortCreated:
		return "created"
	case adminSortLastSignIn:
		return "last sign-in"
	default:
		return "name"
	}
}

// AdminRow is one profile joined with its note count.
type AdminRow struct {
	Profile   *types.Profile
	NoteCount int
}

// AdminController holds the dashboard aggregates. The three fetches are
// all-or-nothing: a failure on any of them puts the whole page into an
// error state and nothing partial is rendered.
type AdminController struct {
	stats    *types.UsageStats
	rows     []AdminRow
	loaded   bool
	loadErr  error
	sortBy   adminSortField
	sortDesc bool
	filter   string
}

func NewAdminController() *AdminController {
	return &AdminController{sortBy: adminSortName}
}

// SetData installs a complete fetch result: the aggregate stats plus the
// per-user counts joined from the profile list and the raw note owner ids.
func (a *AdminController) SetData(stats *types.UsageStats, profiles []*types.Profile, noteOwners []string) {
	counts := make(map[string]int, len(profiles))
	for _, owner := range noteOwners {
		counts[owner]++
	}
	rows := make([]AdminRow, 0, len(profiles))
	for _, profile := range profiles {
		if profile == nil {
			continue
		}
		rows = append(rows, AdminRow{Profile: profile, NoteCount: counts[profile.ID]})
	}
	a.stats = stats
	a.rows = rows
	a.loaded = true
	a.loadErr = nil
}

// SetError drops any previously rendered data and records the page-level
// failure.
func (a *AdminController) SetError(err error) {
	a.stats = nil
	a.rows = nil
	a.loaded = false
	a.loadErr = err
}

func (a *AdminController) Loaded() bool     { return a.loaded }
func (a *AdminController) LoadError() error { return a.loadErr }

func (a *AdminController) Stats() *types.UsageStats {
	return a.stats
}

func (a *AdminController) Filter() string {
	return a.filter
}

func (a *AdminController) SetFilter(filter string) {
	a.filter = filter
}

func (a *AdminController) SortLabel() string {
	direction := "asc"
	if a.sortDesc {
		direction = "desc"
	}
	return a.sortBy.Label() + " " + direction
}

// SortBy selects the sort field; selecting the field already in effect
// flips the direction instead.
func (a *AdminController) SortBy(field adminSortField) {
	if a.sortBy == field {
		a.sortDesc = !a.sortDesc
		return
	}
	a.sortBy = field
	a.sortDesc = false
}

// Rows returns the joined rows sorted by the active field, then narrowed by
// the free-text filter over display name and username.
func (a *AdminController) Rows() []AdminRow {
	rows := make([]AdminRow, len(a.rows))
	copy(rows, a.rows)

	sort.SliceStable(rows, func(i, j int) bool {
		if a.sortDesc {
			return a.less(rows[j], rows[i])
		}
		return a.less(rows[i], rows[j])
	})

	filter := strings.ToLower(strings.TrimSpace(a.filter))
	if filter == "" {
		return rows
	}
	narrowed := rows[:0]
	for _, row := range rows {
		name := strings.ToLower(row.Profile.DisplayName)
		username := strings.ToLower(row.Profile.Username)
		if strings.Contains(name, filter) || strings.Contains(username, filter) {
			narrowed = append(narrowed, row)
		}
	}
	return narrowed
}

func (a *AdminController) less(x, y AdminRow) bool {
	switch a.sortBy {
	case adminSortUsername:
		return strings.ToLower(x.Profile.Username) < strings.ToLower(y.Profile.Username)
	case adminSortNoteCount:
		return x.NoteCount < y.NoteCount
	case adminSortCreated:
		return x.Profile.CreatedAt.Before(y.Profile.CreatedAt)
	case adminSortLastSignIn:
		return beforePtr(x.Profile.LastSignIn, y.Profile.LastSignIn)
	default:
		return strings.ToLower(x.Profile.DisplayName) < strings.ToLower(y.Profile.DisplayName)
	}
}

// beforePtr orders nil last-sign-in timestamps first.
func beforePtr(x, y *time.Time) bool {
	if x == nil {
		return y != nil
	}
	if y == nil {
		return false
	}
	return x.Before(*y)
}
