// Package session tracks the signed-in identity on the client side and fans
// auth transitions out to interested views.
package session

import (
	"context"
	"sync"

	"quill/internal/logging"
	"quill/internal/types"
)

// AuthAPI is the slice of the daemon client the store needs.
type AuthAPI interface {
	RefreshToken(ctx context.Context) (*types.Session, error)
	SignOut(ctx context.Context) error
	AuthEvents(ctx context.Context) (<-chan types.AuthEvent, func(), error)
}

// Store caches the current session and keeps it in sync with the daemon's
// auth event stream. Zero value is not usable; construct with NewStore.
type Store struct {
	api    AuthAPI
	logger logging.Logger

	mu          sync.RWMutex
	current     *types.Session
	subscribers map[int]chan *types.Session
	nextSubID   int

	cancelStream func()
	streamDone   chan struct{}
}

func NewStore(api AuthAPI, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{
		api:         api,
		logger:      logger,
		subscribers: make(map[int]chan *types.Session),
	}
}

// Start resolves the persisted token into a session and begins following the
// auth event stream. Call Stop to tear the stream down. A missing or expired
// token is not an error; the store just starts signed out.
func (s *Store) Start(ctx context.Context) error {
	session, err := s.api.RefreshToken(ctx)
	if err != nil {
		s.logger.Debug("session restore failed", logging.F("error", err.Error()))
		s.setCurrent(nil)
	} else {
		s.setCurrent(session)
	}

	events, cancel, err := s.api.AuthEvents(ctx)
	if err != nil {
		// The store still works without the stream; transitions made
		// through this process update it directly.
		s.logger.Debug("auth event stream unavailable", logging.F("error", err.Error()))
		return nil
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.cancelStream = cancel
	s.streamDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for event := range events {
			s.apply(event)
		}
	}()
	return nil
}

// Stop closes the auth event stream and waits for the follower to exit.
func (s *Store) Stop() {
	s.mu.Lock()
	cancel := s.cancelStream
	done := s.streamDone
	s.cancelStream = nil
	s.streamDone = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Current returns the session as last observed, or nil when signed out.
func (s *Store) Current() *types.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) SignedIn() bool {
	return s.Current() != nil
}

func (s *Store) IsAdmin() bool {
	session := s.Current()
	return session != nil && session.IsAdmin
}

// Subscribe returns a channel that receives the session after every
// transition, nil meaning signed out. The cancel func releases the
// subscription.
func (s *Store) Subscribe() (<-chan *types.Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	ch := make(chan *types.Session, 8)
	s.subscribers[id] = ch
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(existing)
		}
	}
}

// SignedIn records a session established by this process, for example after
// an interactive sign-in, without waiting for the event stream echo.
func (s *Store) RecordSignIn(session *types.Session) {
	s.setCurrent(session)
}

// SignOut retires the session at the daemon and clears local state. Local
// state is cleared even when the daemon call fails.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.api.SignOut(ctx)
	s.setCurrent(nil)
	return err
}

func (s *Store) apply(event types.AuthEvent) {
	switch event.Type {
	case types.AuthEventSignedIn, types.AuthEventTokenRefreshed:
		s.setCurrent(event.Session)
	case types.AuthEventSignedOut:
		s.setCurrent(nil)
	}
}

func (s *Store) setCurrent(session *types.Session) {
	s.mu.Lock()
	s.current = session
	subscribers := make([]chan *types.Session, 0, len(s.subscribers))
	for _, ch := range s.subscribers {
		subscribers = append(subscribers, ch)
	}
	s.mu.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- session:
		default:
		}
	}
}
