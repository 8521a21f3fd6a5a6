package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"quill/internal/types"
)

var (
	bucketNotes       = []byte("notes")
	bucketProfiles    = []byte("profiles")
	bucketCredentials = []byte("credentials")
)

type bboltRepository struct {
	db          *bolt.DB
	notes       NoteStore
	profiles    ProfileStore
	credentials CredentialStore
}

func NewBboltRepository(path string) (Repository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("repository db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := initBboltSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &bboltRepository{
		db:          db,
		notes:       &bboltNoteStore{db: db},
		profiles:    &bboltProfileStore{db: db},
		credentials: &bboltCredentialStore{db: db},
	}, nil
}

func (r *bboltRepository) Notes() NoteStore {
	return r.notes
}

func (r *bboltRepository) Profiles() ProfileStore {
	return r.profiles
}

func (r *bboltRepository) Credentials() CredentialStore {
	return r.credentials
}

func (r *bboltRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func initBboltSchema(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketNotes); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketProfiles); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketCredentials); err != nil {
			return err
		}
		return nil
	})
}

type bboltNoteStore struct {
	db *bolt.DB
}

func (s *bboltNoteStore) ListByUser(ctx context.Context, userID string) ([]*types.Note, error) {
	userID = strings.TrimSpace(userID)
	out := make([]*types.Note, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(k, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			if userID != "" && note.UserID != userID {
				return nil
			}
			out = append(out, &note)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *bboltNoteStore) ListOwnerIDs(ctx context.Context) ([]string, error) {
	out := make([]string, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(k, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			out = append(out, note.UserID)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *bboltNoteStore) Get(ctx context.Context, id string) (*types.Note, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}
	var note *types.Note
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketNotes).Get([]byte(id))
		if raw == nil {
			return nil
		}
		var decoded types.Note
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		note = &decoded
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return note, note != nil, nil
}

func (s *bboltNoteStore) Create(ctx context.Context, note *types.Note) (*types.Note, error) {
	if note == nil {
		return nil, errors.New("note is required")
	}
	if strings.TrimSpace(note.UserID) == "" {
		return nil, errors.New("note owner is required")
	}
	created := *note
	created.ID = uuid.NewString()
	created.Title = strings.TrimSpace(created.Title)
	if created.Title == "" {
		created.Title = types.DefaultNoteTitle
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now
	if err := s.put(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *bboltNoteStore) Update(ctx context.Context, id string, patch types.NotePatch) (*types.Note, error) {
	existing, ok, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoteNotFound
	}
	merged := *existing
	if patch.Title != nil {
		merged.Title = strings.TrimSpace(*patch.Title)
		if merged.Title == "" {
			merged.Title = types.DefaultNoteTitle
		}
	}
	if patch.Content != nil {
		merged.Content = *patch.Content
	}
	merged.UpdatedAt = time.Now().UTC()
	if err := s.put(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *bboltNoteStore) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).Delete([]byte(id))
	})
}

func (s *bboltNoteStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketNotes).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *bboltNoteStore) CountAuthorsSince(ctx context.Context, cutoff time.Time) (int, error) {
	authors := map[string]struct{}{}
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).ForEach(func(k, v []byte) error {
			var note types.Note
			if err := json.Unmarshal(v, &note); err != nil {
				return err
			}
			if note.CreatedAt.Before(cutoff) {
				return nil
			}
			authors[note.UserID] = struct{}{}
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return len(authors), nil
}

func (s *bboltNoteStore) put(note *types.Note) error {
	raw, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNotes).Put([]byte(note.ID), raw)
	})
}

type bboltProfileStore struct {
	db *bolt.DB
}

func (s *bboltProfileStore) List(ctx context.Context) ([]*types.Profile, error) {
	out := make([]*types.Profile, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfiles).ForEach(func(k, v []byte) error {
			var profile types.Profile
			if err := json.Unmarshal(v, &profile); err != nil {
				return err
			}
			out = append(out, &profile)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *bboltProfileStore) Get(ctx context.Context, id string) (*types.Profile, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, nil
	}
	var profile *types.Profile
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketProfiles).Get([]byte(id))
		if raw == nil {
			return nil
		}
		var decoded types.Profile
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		profile = &decoded
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return profile, profile != nil, nil
}

func (s *bboltProfileStore) GetByEmail(ctx context.Context, email string) (*types.Profile, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, nil
	}
	var profile *types.Profile
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfiles).ForEach(func(k, v []byte) error {
			if profile != nil {
				return nil
			}
			var decoded types.Profile
			if err := json.Unmarshal(v, &decoded); err != nil {
				return err
			}
			if strings.ToLower(decoded.Email) == email {
				profile = &decoded
			}
			return nil
		})
	})
	if err != nil {
		return nil, false, err
	}
	return profile, profile != nil, nil
}

func (s *bboltProfileStore) Upsert(ctx context.Context, profile *types.Profile) (*types.Profile, error) {
	if profile == nil {
		return nil, errors.New("profile is required")
	}
	saved := *profile
	if strings.TrimSpace(saved.ID) == "" {
		saved.ID = uuid.NewString()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}
	raw, err := json.Marshal(&saved)
	if err != nil {
		return nil, err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProfiles).Put([]byte(saved.ID), raw)
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *bboltProfileStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketProfiles).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

type bboltCredentialStore struct {
	db *bolt.DB
}

func (s *bboltCredentialStore) Set(ctx context.Context, userID string, hash []byte) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("user id is required")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCredentials).Put([]byte(userID), hash)
	})
}

func (s *bboltCredentialStore) Get(ctx context.Context, userID string) ([]byte, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, false, nil
	}
	var hash []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketCredentials).Get([]byte(userID))
		if raw != nil {
			hash = append([]byte(nil), raw...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return hash, hash != nil, nil
}
