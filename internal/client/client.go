package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quill/internal/config"
	"quill/internal/types"
)

// Client is the typed HTTP adapter over the quill daemon. It owns the
// persisted session token; every remote call either carries it or is one of
// the credential exchanges that produce it.
type Client struct {
	baseURL   string
	tokenPath string
	token     string
	http      *http.Client
}

func New() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	tokenPath, err := config.TokenPath()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   cfg.DaemonBaseURL(),
		tokenPath: tokenPath,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	_ = c.loadToken()
	return c, nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokenPath: "",
		token:     token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HasToken reports whether a session token is loaded or persisted. It does
// not verify the token against the daemon.
func (c *Client) HasToken() bool {
	if strings.TrimSpace(c.token) != "" {
		return true
	}
	_ = c.loadToken()
	return strings.TrimSpace(c.token) != ""
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*types.Session, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/signup", req, false, &resp); err != nil {
		return nil, &AuthError{Op: "sign up", Err: err}
	}
	if err := c.adoptToken(resp.Token); err != nil {
		return nil, &AuthError{Op: "sign up", Err: err}
	}
	return resp.Session, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*types.Session, error) {
	var resp AuthResponse
	req := SignInRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/signin", req, false, &resp); err != nil {
		return nil, &AuthError{Op: "sign in", Err: err}
	}
	if err := c.adoptToken(resp.Token); err != nil {
		return nil, &AuthError{Op: "sign in", Err: err}
	}
	return resp.Session, nil
}

// SignOut tells the daemon to retire the session and drops the local token.
// The token is cleared even when the daemon is unreachable.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/v1/auth/signout", nil, true, nil)
	if clearErr := c.clearToken(); clearErr != nil && err == nil {
		err = clearErr
	}
	if err != nil {
		return &AuthError{Op: "sign out", Err: err}
	}
	return nil
}

func (c *Client) RefreshToken(ctx context.Context) (*types.Session, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/refresh", nil, true, &resp); err != nil {
		return nil, &AuthError{Op: "refresh", Err: err}
	}
	if err := c.adoptToken(resp.Token); err != nil {
		return nil, &AuthError{Op: "refresh", Err: err}
	}
	return resp.Session, nil
}

func (c *Client) ListNotes(ctx context.Context) ([]*types.Note, error) {
	var resp NotesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notes", nil, true, &resp); err != nil {
		return nil, &RemoteQueryError{Op: "list notes", Err: err}
	}
	return resp.Notes, nil
}

func (c *Client) CreateNote(ctx context.Context, title, content string) (*types.Note, error) {
	var note types.Note
	req := CreateNoteRequest{Title: title, Content: content}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/notes", req, true, &note); err != nil {
		return nil, &RemoteWriteError{Op: "create note", Err: err}
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, patch types.NotePatch) (*types.Note, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &RemoteWriteError{Op: "update note", Err: errors.New("note id is required")}
	}
	var note types.Note
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/notes/"+id, patch, true, &note); err != nil {
		return nil, &RemoteWriteError{Op: "update note", Err: err}
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &RemoteWriteError{Op: "delete note", Err: errors.New("note id is required")}
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/v1/notes/"+id, nil, true, nil); err != nil {
		return &RemoteWriteError{Op: "delete note", Err: err}
	}
	return nil
}

func (c *Client) AdminStats(ctx context.Context) (*types.UsageStats, error) {
	var stats types.UsageStats
	if err := c.doJSON(ctx, http.MethodGet, "/v1/admin/stats", nil, true, &stats); err != nil {
		return nil, &RemoteQueryError{Op: "admin stats", Err: err}
	}
	return &stats, nil
}

func (c *Client) AdminProfiles(ctx context.Context) ([]*types.Profile, error) {
	var resp ProfilesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/admin/profiles", nil, true, &resp); err != nil {
		return nil, &RemoteQueryError{Op: "admin profiles", Err: err}
	}
	return resp.Profiles, nil
}

func (c *Client) NoteOwners(ctx context.Context) ([]string, error) {
	var resp NoteOwnersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/admin/note-owners", nil, true, &resp); err != nil {
		return nil, &RemoteQueryError{Op: "note owners", Err: err}
	}
	return resp.Owners, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, requireAuth bool, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requireAuth {
		if err := c.ensureToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) ensureToken() error {
	if strings.TrimSpace(c.token) == "" {
		if err := c.loadToken(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.token) == "" {
		return errors.New("not signed in")
	}
	return nil
}

func (c *Client) loadToken() error {
	if c.tokenPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.token = ""
			return nil
		}
		return err
	}
	c.token = strings.TrimSpace(string(data))
	return nil
}

func (c *Client) adoptToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("daemon returned an empty token")
	}
	c.token = token
	if c.tokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.tokenPath, []byte(token), 0o600)
}

func (c *Client) clearToken() error {
	c.token = ""
	if c.tokenPath == "" {
		return nil
	}
	if err := os.Remove(c.tokenPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

// EnsureDaemon verifies a healthy daemon is reachable at the configured
// address and reports a descriptive error when it is not.
func (c *Client) EnsureDaemon(ctx context.Context) error {
	resp, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w (run `quill daemon` first)", c.baseURL, err)
	}
	if !resp.OK {
		return fmt.Errorf("daemon at %s reported unhealthy", c.baseURL)
	}
	return nil
}
