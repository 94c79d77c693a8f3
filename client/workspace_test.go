package client

import (
	"context"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_TodoLifecycle(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")
	ctx := context.Background()
	assert.True(t, ws.Loaded())
	assert.Empty(t, ws.Notes())

	require.NoError(t, ws.CreateNote(ctx, NewNote{Type: TypeTodo, Content: "buy milk", Date: "2024-05-01"}))

	notes := ws.Notes()
	require.Len(t, notes, 1)
	created := notes[0]
	assert.Equal(t, "buy milk", created.Content)
	assert.Equal(t, TypeTodo, created.Type)
	require.NotNil(t, created.Date)
	assert.Equal(t, "2024-05-01", *created.Date)
	require.NotNil(t, created.Status)
	assert.Equal(t, StatusOnProgress, *created.Status)
	assert.True(t, created.IsOwner)
	assert.True(t, created.CanEdit)

	require.NoError(t, ws.SetStatus(ctx, created.ID, StatusCompleted))

	notes = ws.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, created.ID, notes[0].ID)
	require.NotNil(t, notes[0].Status)
	assert.Equal(t, StatusCompleted, *notes[0].Status)
	assert.Equal(t, "buy milk", notes[0].Content)
}

func TestWorkspace_NewestFirst(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")
	ctx := context.Background()

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, ws.CreateNote(ctx, NewNote{Type: TypeNote, Content: content}))
	}

	notes := ws.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, "third", notes[0].Content)
	assert.Equal(t, "first", notes[2].Content)
}

func TestWorkspace_FailedMutationStillRefreshes(t *testing.T) {
	app, _ := setupServer(t)
	ctx := context.Background()
	ws := loggedIn(t, app, "alice")

	other := NewWorkspace(New(testBaseURL,
		WithHTTPClient(&http.Client{Transport: fiberTransport{app: app.App}}),
		WithTokenStore(ws.Client().Tokens())))
	require.NoError(t, other.CreateNote(ctx, NewNote{Type: TypeNote, Content: "from elsewhere"}))
	assert.Empty(t, ws.Notes())

	err := ws.DeleteNote(ctx, "999")
	assert.ErrorIs(t, err, ErrValidation)

	notes := ws.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "from elsewhere", notes[0].Content)
}

func TestWorkspace_RejectedCreateLeavesListUnchanged(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")
	ctx := context.Background()
	require.NoError(t, ws.CreateNote(ctx, NewNote{Type: TypeNote, Content: "keep"}))
	before := ws.Notes()

	err := ws.CreateNote(ctx, NewNote{Type: TypeTodo, Content: "bad date", Date: "05/01/2024"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Invalid date format (use YYYY-MM-DD)", UserMessage(err))
	assert.Equal(t, before, ws.Notes())
}

func TestWorkspace_NetworkFailureKeepsCache(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")
	ctx := context.Background()
	require.NoError(t, ws.CreateNote(ctx, NewNote{Type: TypeNote, Content: "cached"}))

	broken := NewWorkspace(New(testBaseURL,
		WithHTTPClient(&http.Client{Transport: unreachable()}),
		WithTokenStore(ws.Client().Tokens())))
	err := broken.CreateNote(ctx, NewNote{Type: TypeNote, Content: "lost"})
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, "Cannot reach the server", UserMessage(err))
	assert.False(t, broken.Loaded())

	require.NoError(t, ws.Refresh(ctx))
	require.Len(t, ws.Notes(), 1)
}

func TestWorkspace_ShareTokenRegenerationInvalidatesOld(t *testing.T) {
	app, _ := setupServer(t)
	ctx := context.Background()
	alice := loggedIn(t, app, "alice")
	bob := loggedIn(t, app, "bob")

	require.NoError(t, alice.CreateNote(ctx, NewNote{Type: TypeTodo, Content: "plan trip"}))
	noteID := alice.Notes()[0].ID

	first, err := alice.ShareNote(ctx, noteID)
	require.NoError(t, err)
	second, err := alice.ShareNote(ctx, noteID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	owned, ok := alice.Note(noteID)
	require.True(t, ok)
	require.NotNil(t, owned.ShareToken)
	assert.Equal(t, second, *owned.ShareToken)

	err = bob.JoinByToken(ctx, first)
	assert.ErrorIs(t, err, ErrJoin)
	assert.Equal(t, "Note not found for that token", UserMessage(err))
	assert.Empty(t, bob.Notes())

	require.NoError(t, bob.JoinByToken(ctx, second))
	notes := bob.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, noteID, notes[0].ID)
	assert.False(t, notes[0].IsOwner)
	assert.True(t, notes[0].CanEdit)
	assert.Nil(t, notes[0].ShareToken)
}

func TestWorkspace_CollaboratorEditsButCannotDelete(t *testing.T) {
	app, _ := setupServer(t)
	ctx := context.Background()
	alice := loggedIn(t, app, "alice")
	bob := loggedIn(t, app, "bob")

	require.NoError(t, alice.CreateNote(ctx, NewNote{Type: TypeTodo, Content: "shared list"}))
	noteID := alice.Notes()[0].ID
	token, err := alice.ShareNote(ctx, noteID)
	require.NoError(t, err)
	require.NoError(t, bob.JoinByToken(ctx, token))

	require.NoError(t, bob.UpdateNote(ctx, noteID, NoteUpdate{Content: StringPtr("shared list + eggs")}))
	require.NoError(t, alice.Refresh(ctx))
	assert.Equal(t, "shared list + eggs", alice.Notes()[0].Content)

	err = bob.DeleteNote(ctx, noteID)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Only owner can delete note", UserMessage(err))
	require.Len(t, bob.Notes(), 1)

	require.NoError(t, alice.DeleteNote(ctx, noteID))
	assert.Empty(t, alice.Notes())
	require.NoError(t, bob.Refresh(ctx))
	assert.Empty(t, bob.Notes())
}

func TestWorkspace_JoinOwnNoteIsNoop(t *testing.T) {
	app, _ := setupServer(t)
	ctx := context.Background()
	alice := loggedIn(t, app, "alice")

	require.NoError(t, alice.CreateNote(ctx, NewNote{Type: TypeNote, Content: "mine"}))
	token, err := alice.ShareNote(ctx, alice.Notes()[0].ID)
	require.NoError(t, err)

	require.NoError(t, alice.JoinByToken(ctx, token))
	require.NoError(t, alice.JoinByToken(ctx, token))
	assert.Len(t, alice.Notes(), 1)
}

func TestWorkspace_Title(t *testing.T) {
	app, _ := setupServer(t)
	ws := loggedIn(t, app, "alice")
	ctx := context.Background()
	assert.Equal(t, "My Notes", ws.Title())

	require.NoError(t, ws.SetTitle(ctx, "Groceries"))
	assert.Equal(t, "Groceries", ws.Title())

	err := ws.SetTitle(ctx, "   ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "Groceries", ws.Title())
}

// Any sequence of mutations leaves the cache equal to what the server reports.
func TestWorkspace_CacheMatchesServerAfterMutations(t *testing.T) {
	app, store := setupServer(t)
	ws := loggedIn(t, app, "alice")
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 60; i++ {
		notes := ws.Notes()
		switch op := rng.Intn(4); {
		case op == 0 || len(notes) == 0:
			typ := TypeNote
			if rng.Intn(2) == 0 {
				typ = TypeTodo
			}
			_ = ws.CreateNote(ctx, NewNote{Type: typ, Content: "note " + strconv.Itoa(i)})
		case op == 1:
			target := notes[rng.Intn(len(notes))]
			_ = ws.UpdateNote(ctx, target.ID, NoteUpdate{Content: StringPtr("edited " + strconv.Itoa(i))})
		case op == 2:
			target := notes[rng.Intn(len(notes))]
			_ = ws.SetStatus(ctx, target.ID, StatusCompleted)
		default:
			target := notes[rng.Intn(len(notes))]
			_ = ws.DeleteNote(ctx, target.ID)
		}

		owner := ws.Notes()
		userID := ""
		if len(owner) > 0 {
			userID = owner[0].UserID
		}
		if userID == "" {
			continue
		}
		stored, err := store.FindNotesForUser(ctx, userID)
		require.NoError(t, err)

		want := make([]string, 0, len(stored))
		wantContent := map[string]string{}
		for _, n := range stored {
			want = append(want, n.ID)
			wantContent[n.ID] = n.Content
		}
		got := noteIDs(ws.Notes())
		sort.Strings(want)
		sort.Strings(got)
		require.Equal(t, want, got, "step %d", i)
		for _, n := range ws.Notes() {
			assert.Equal(t, wantContent[n.ID], n.Content)
		}
	}
}
