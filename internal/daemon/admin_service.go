package daemon

import (
	"context"
	"time"

	"quill/internal/store"
	"quill/internal/types"
)

const activeAuthorWindow = 30 * 24 * time.Hour

// AdminService serves the read-only reporting queries backing the admin
// dashboard. The per-user join stays client-side; the daemon only hands
// out raw owner ids alongside the profile list.
type AdminService struct {
	notes    store.NoteStore
	profiles store.ProfileStore
	now      func() time.Time
}

func NewAdminService(repo store.Repository) *AdminService {
	return &AdminService{
		notes:    repo.Notes(),
		profiles: repo.Profiles(),
		now:      time.Now,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*types.UsageStats, error) {
	users, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, unavailableError("user count failed", err)
	}
	notes, err := s.notes.Count(ctx)
	if err != nil {
		return nil, unavailableError("note count failed", err)
	}
	cutoff := s.now().UTC().Add(-activeAuthorWindow)
	active, err := s.notes.CountAuthorsSince(ctx, cutoff)
	if err != nil {
		return nil, unavailableError("active author count failed", err)
	}
	return &types.UsageStats{
		TotalUsers:    users,
		TotalNotes:    notes,
		ActiveAuthors: active,
	}, nil
}

func (s *AdminService) Profiles(ctx context.Context) ([]*types.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, unavailableError("profile list failed", err)
	}
	return profiles, nil
}

func (s *AdminService) NoteOwners(ctx context.Context) ([]string, error) {
	owners, err := s.notes.ListOwnerIDs(ctx)
	if err != nil {
		return nil, unavailableError("note owner list failed", err)
	}
	return owners, nil
}
