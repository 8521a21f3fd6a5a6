package daemon

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quill/internal/store"
	"quill/internal/types"
)

// AuthService owns the account lifecycle: sign-up, sign-in, refresh and
// sign-out. Every transition is published on the event broker so connected
// clients can react.
type AuthService struct {
	profiles    store.ProfileStore
	credentials store.CredentialStore
	signer      *TokenSigner
	events      *AuthEventBroker
}

func NewAuthService(repo store.Repository, signer *TokenSigner, events *AuthEventBroker) *AuthService {
	return &AuthService{
		profiles:    repo.Profiles(),
		credentials: repo.Credentials(),
		signer:      signer,
		events:      events,
	}
}

type AuthResult struct {
	Token   string
	Session *types.Session
}

func (s *AuthService) SignUp(ctx context.Context, email, password, username, displayName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalidError("a valid email is required", nil)
	}
	if len(password) < 8 {
		return nil, invalidError("password must be at least 8 characters", nil)
	}
	if _, exists, err := s.profiles.GetByEmail(ctx, email); err != nil {
		return nil, unavailableError("profile lookup failed", err)
	} else if exists {
		return nil, conflictError("an account with this email already exists", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, unavailableError("password hashing failed", err)
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = email[:strings.Index(email, "@")]
	}
	// The first account on a fresh store becomes the admin; everyone after
	// that signs up as a regular user.
	existing, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, unavailableError("profile count failed", err)
	}
	now := time.Now().UTC()
	profile, err := s.profiles.Upsert(ctx, &types.Profile{
		Email:       email,
		Username:    username,
		DisplayName: strings.TrimSpace(displayName),
		IsAdmin:     existing == 0,
		CreatedAt:   now,
		LastSignIn:  &now,
	})
	if err != nil {
		return nil, unavailableError("profile create failed", err)
	}
	if err := s.credentials.Set(ctx, profile.ID, hash); err != nil {
		return nil, unavailableError("credential store failed", err)
	}
	return s.issue(profile, types.AuthEventSignedIn)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, ok, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return nil, unavailableError("profile lookup failed", err)
	}
	if !ok {
		return nil, unauthorizedError("invalid email or password", nil)
	}
	hash, ok, err := s.credentials.Get(ctx, profile.ID)
	if err != nil {
		return nil, unavailableError("credential lookup failed", err)
	}
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return nil, unauthorizedError("invalid email or password", nil)
	}

	now := time.Now().UTC()
	profile.LastSignIn = &now
	if profile, err = s.profiles.Upsert(ctx, profile); err != nil {
		return nil, unavailableError("profile update failed", err)
	}
	return s.issue(profile, types.AuthEventSignedIn)
}

// Refresh exchanges a valid (possibly near-expiry) token for a fresh one.
func (s *AuthService) Refresh(ctx context.Context, identity *Identity) (*AuthResult, error) {
	if identity == nil {
		return nil, unauthorizedError("unauthorized", nil)
	}
	profile, ok, err := s.profiles.Get(ctx, identity.UserID)
	if err != nil {
		return nil, unavailableError("profile lookup failed", err)
	}
	if !ok {
		return nil, unauthorizedError("account no longer exists", nil)
	}
	return s.issue(profile, types.AuthEventTokenRefreshed)
}

func (s *AuthService) SignOut(ctx context.Context, identity *Identity) {
	session := &types.Session{}
	if identity != nil {
		session.UserID = identity.UserID
		session.Email = identity.Email
		session.IsAdmin = identity.Admin
	}
	s.events.Publish(types.AuthEvent{Type: types.AuthEventSignedOut, Session: session})
}

func (s *AuthService) issue(profile *types.Profile, eventType types.AuthEventType) (*AuthResult, error) {
	token, expires, err := s.signer.Issue(profile.ID, profile.Email, profile.IsAdmin)
	if err != nil {
		return nil, unavailableError("token issue failed", err)
	}
	session := &types.Session{
		UserID:     profile.ID,
		Email:      profile.Email,
		IsAdmin:    profile.IsAdmin,
		ExpiresAt:  expires,
		LastSignIn: profile.LastSignIn,
	}
	s.events.Publish(types.AuthEvent{Type: eventType, Session: session})
	return &AuthResult{Token: token, Session: session}, nil
}
