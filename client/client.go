// Package client talks to the notes HTTP API and keeps a local copy of the
// caller's notes that is rebuilt from the server after every change.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const maxResponseBytes = 4 << 20

// Client is a thin, stateless wrapper over the REST contract. Only the token store
// carries state between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     NewMemoryTokenStore(""),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() TokenStore {
	return c.tokens
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// errorMessage extracts {"error": "..."} from a failed response.
func (r response) errorMessage() string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(r.body, &payload); err == nil {
		return payload.Error
	}
	return ""
}

func (c *Client) do(ctx context.Context, op, method, path string, body interface{}, authenticated bool) (response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return response{}, &Error{Kind: ErrValidation, Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return response{}, &Error{Kind: ErrNetwork, Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authenticated {
		token, err := c.tokens.Token()
		if err != nil {
			return response{}, &Error{Kind: ErrAuth, Op: op, Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Msg("request failed")
		return response{}, &Error{Kind: ErrNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return response{}, &Error{Kind: ErrNetwork, Op: op, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug().Str("op", op).Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("response")
	return response{status: resp.StatusCode, body: data}, nil
}

// fail turns a non-2xx response into an *Error. 401 is always ErrAuth; otherwise
// kind is used when set, falling back to validation (4xx) or server (5xx).
func fail(op string, resp response, kind error) error {
	e := &Error{Op: op, Status: resp.status, Message: resp.errorMessage()}
	switch {
	case resp.status == http.StatusUnauthorized:
		e.Kind = ErrAuth
	case kind != nil:
		e.Kind = kind
	case resp.status >= 500:
		e.Kind = ErrServer
	default:
		e.Kind = ErrValidation
	}
	return e
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and stores it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.do(ctx, "login", http.MethodPost, "/login", credentials{username, password}, false)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", fail("login", resp, ErrAuth)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil || payload.Token == "" {
		return "", &Error{Kind: ErrAuth, Op: "login", Status: resp.status, Message: "Login response carried no token"}
	}
	if err := c.tokens.SetToken(payload.Token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return payload.Token, nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	resp, err := c.do(ctx, "register", http.MethodPost, "/register", credentials{username, password}, false)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fail("register", resp, ErrValidation)
	}
	return nil
}

// Logout asks the server to revoke the session and always forgets the local token.
func (c *Client) Logout(ctx context.Context) error {
	if token, err := c.tokens.Token(); err == nil && token != "" {
		resp, err := c.do(ctx, "logout", http.MethodPost, "/logout", nil, true)
		if err != nil {
			c.logger.Debug().Err(err).Msg("remote logout failed")
		} else if !resp.ok() {
			c.logger.Debug().Int("status", resp.status).Msg("remote logout rejected")
		}
	}
	return c.tokens.ClearToken()
}

// ListNotes returns the caller's notes. A 2xx body that is not a JSON array of notes
// yields an empty list and no error. The returned slice is never nil.
func (c *Client) ListNotes(ctx context.Context) ([]Note, error) {
	resp, err := c.do(ctx, "list notes", http.MethodGet, "/notes", nil, true)
	if err != nil {
		return []Note{}, err
	}
	if !resp.ok() {
		return []Note{}, fail("list notes", resp, nil)
	}

	var notes []Note
	if err := json.Unmarshal(resp.body, &notes); err != nil || notes == nil {
		if err != nil {
			c.logger.Debug().Err(err).Msg("notes response is not a list, using empty list")
		}
		return []Note{}, nil
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, note NewNote) (Note, error) {
	resp, err := c.do(ctx, "create note", http.MethodPost, "/notes", note.withDefaults(), true)
	if err != nil {
		return Note{}, err
	}
	if !resp.ok() {
		return Note{}, fail("create note", resp, nil)
	}

	var created Note
	_ = json.Unmarshal(resp.body, &created)
	return created, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, update NoteUpdate) (Note, error) {
	resp, err := c.do(ctx, "update note", http.MethodPut, "/notes/"+url.PathEscape(id), update, true)
	if err != nil {
		return Note{}, err
	}
	if !resp.ok() {
		return Note{}, fail("update note", resp, nil)
	}

	var updated Note
	_ = json.Unmarshal(resp.body, &updated)
	return updated, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	resp, err := c.do(ctx, "delete note", http.MethodDelete, "/notes/"+url.PathEscape(id), nil, true)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fail("delete note", resp, nil)
	}
	return nil
}

// GenerateShareToken issues a new share token for a note the caller owns. Any
// previous token for the note stops working.
func (c *Client) GenerateShareToken(ctx context.Context, noteID string) (string, error) {
	path := "/notes/" + url.PathEscape(noteID) + "/generate_share_token"
	resp, err := c.do(ctx, "share note", http.MethodPost, path, nil, true)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", fail("share note", resp, ErrShare)
	}

	var payload struct {
		ShareToken string `json:"share_token"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil || payload.ShareToken == "" {
		return "", &Error{Kind: ErrShare, Op: "share note", Status: resp.status, Message: "Share response carried no token"}
	}
	return payload.ShareToken, nil
}

func (c *Client) JoinByToken(ctx context.Context, shareToken string) error {
	body := struct {
		Token string `json:"token"`
	}{shareToken}
	resp, err := c.do(ctx, "join note", http.MethodPost, "/notes/join", body, true)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fail("join note", resp, ErrJoin)
	}
	return nil
}

type titlePayload struct {
	Title string `json:"title"`
}

func (c *Client) GetTitle(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, "get title", http.MethodGet, "/title", nil, true)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", fail("get title", resp, nil)
	}

	var payload titlePayload
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return "", &Error{Kind: ErrServer, Op: "get title", Status: resp.status, Err: err}
	}
	return payload.Title, nil
}

func (c *Client) SetTitle(ctx context.Context, title string) error {
	resp, err := c.do(ctx, "set title", http.MethodPut, "/title", titlePayload{Title: title}, true)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return fail("set title", resp, nil)
	}
	return nil
}
