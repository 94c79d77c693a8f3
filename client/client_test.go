package client

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresToken(t *testing.T) {
	app, _ := setupServer(t)
	c := newTestClient(app)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", "pw"))
	token, err := c.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err := c.Tokens().Token()
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestLogin_BadCredentials(t *testing.T) {
	app, _ := setupServer(t)
	c := newTestClient(app)
	ctx := context.Background()
	require.NoError(t, c.Register(ctx, "alice", "pw"))

	_, err := c.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, "Invalid username/password", UserMessage(err))

	_, err = c.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrAuth)

	stored, _ := c.Tokens().Token()
	assert.Empty(t, stored)
}

func TestRegister_Duplicate(t *testing.T) {
	app, _ := setupServer(t)
	c := newTestClient(app)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", "pw"))
	err := c.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrValidation)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Username already exists", apiErr.Message)
}

func TestRegister_Blank(t *testing.T) {
	app, _ := setupServer(t)
	err := newTestClient(app).Register(context.Background(), "  ", "pw")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListNotes_MalformedBodyIsEmpty(t *testing.T) {
	bodies := map[string]string{
		"not json":     "<html>oops</html>",
		"object":       `{"error":"something"}`,
		"null":         `null`,
		"wrong types":  `[1, 2, 3]`,
		"empty body":   ``,
		"truncated":    `[{"id":"1"`,
		"string value": `"notes"`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := New(testBaseURL, WithHTTPClient(&http.Client{Transport: cannedResponse(http.StatusOK, body)}))
			notes, err := c.ListNotes(context.Background())
			assert.NoError(t, err)
			assert.NotNil(t, notes)
			assert.Empty(t, notes)
		})
	}
}

func TestListNotes_ErrorsStillYieldList(t *testing.T) {
	c := New(testBaseURL, WithHTTPClient(&http.Client{Transport: cannedResponse(http.StatusUnauthorized, `{"error":"Invalid token"}`)}))
	notes, err := c.ListNotes(context.Background())
	assert.ErrorIs(t, err, ErrAuth)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)

	c = New(testBaseURL, WithHTTPClient(&http.Client{Transport: unreachable()}))
	notes, err = c.ListNotes(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, errUnreachable)
	assert.NotNil(t, notes)
}

func TestServerErrorKind(t *testing.T) {
	c := New(testBaseURL, WithHTTPClient(&http.Client{Transport: cannedResponse(http.StatusInternalServerError, `{"error":"Internal server error"}`)}))
	err := c.DeleteNote(context.Background(), "1")
	assert.ErrorIs(t, err, ErrServer)

	err = c.JoinByToken(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrJoin)
}

func TestAuthorizationHeaderReadPerCall(t *testing.T) {
	var seen []string
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = append(seen, req.Header.Get("Authorization"))
		return cannedResponse(http.StatusOK, `[]`)(req)
	})
	tokens := NewMemoryTokenStore("first")
	c := New(testBaseURL, WithHTTPClient(&http.Client{Transport: transport}), WithTokenStore(tokens))

	_, err := c.ListNotes(context.Background())
	require.NoError(t, err)
	require.NoError(t, tokens.SetToken("second"))
	_, err = c.ListNotes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestCreateNote_StatusDefaults(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")
	c := ws.Client()
	ctx := context.Background()

	todo, err := c.CreateNote(ctx, NewNote{Type: TypeTodo, Content: "water plants"})
	require.NoError(t, err)
	require.NotNil(t, todo.Status)
	assert.Equal(t, StatusOnProgress, *todo.Status)

	plain, err := c.CreateNote(ctx, NewNote{Type: TypeNote, Content: "idea", Status: StatusPtr(StatusCompleted)})
	require.NoError(t, err)
	assert.Nil(t, plain.Status)
	assert.Equal(t, TypeNote, plain.Type)
}

func TestUpdateNote_Missing(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")

	_, err := ws.Client().UpdateNote(context.Background(), "404", NoteUpdate{Content: StringPtr("x")})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Note not found", UserMessage(err))
}

func TestGenerateShareToken_NotOwner(t *testing.T) {
	app, _ := setupServer(t)
	ctx := context.Background()
	alice := loggedIn(t, app, "alice")
	bob := loggedIn(t, app, "bob")

	require.NoError(t, alice.CreateNote(ctx, NewNote{Type: TypeNote, Content: "shared"}))
	noteID := alice.Notes()[0].ID
	token, err := alice.ShareNote(ctx, noteID)
	require.NoError(t, err)
	require.NoError(t, bob.JoinByToken(ctx, token))

	_, err = bob.Client().GenerateShareToken(ctx, noteID)
	assert.ErrorIs(t, err, ErrShare)
	assert.Equal(t, "Only owner can generate share token", UserMessage(err))

	_, err = bob.Client().GenerateShareToken(ctx, "999")
	assert.ErrorIs(t, err, ErrShare)
}

func TestLogout_RevokesAndClears(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")
	ctx := context.Background()

	oldToken, err := ws.Client().Tokens().Token()
	require.NoError(t, err)
	require.NoError(t, ws.Logout(ctx))

	token, _ := ws.Client().Tokens().Token()
	assert.Empty(t, token)
	assert.Empty(t, ws.Notes())
	assert.False(t, ws.Loaded())

	stale := New(testBaseURL,
		WithHTTPClient(&http.Client{Transport: fiberTransport{app: app.App}}),
		WithTokenStore(NewMemoryTokenStore(oldToken)))
	_, err = stale.ListNotes(ctx)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store := NewFileTokenStore(path)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetToken("abc.def"))
	token, err = NewFileTokenStore(path).Token()
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	require.NoError(t, store.ClearToken())
	require.NoError(t, store.ClearToken())
	token, err = store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}
