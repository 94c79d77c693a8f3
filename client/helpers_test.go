package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"notes-server/repository"
	"notes-server/server"
	"notes-server/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testBaseURL = "http://notes.test"

// fiberTransport serves requests from an in-process fiber app.
type fiberTransport struct {
	app *fiber.App
}

func (t fiberTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.app.Test(req, -1)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func cannedResponse(status int, body string) roundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

var errUnreachable = errors.New("dial tcp: connection refused")

func unreachable() roundTripFunc {
	return func(*http.Request) (*http.Response, error) {
		return nil, errUnreachable
	}
}

func setupServer(t *testing.T) (*server.App, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	keys := utils.NewKeyStore()
	require.NoError(t, keys.AddOrUpdateKey("test", []byte("test-secret")))

	app := server.NewApp(server.Dependencies{
		Notes:       store,
		Users:       store,
		Titles:      store,
		Sessions:    store,
		Issuer:      utils.NewTokenIssuer(keys, time.Hour),
		BcryptCost:  bcrypt.MinCost,
		Logger:      zerolog.Nop(),
		ServiceName: "notes-test",
	})
	return app, store
}

func newTestClient(app *server.App) *Client {
	return New(testBaseURL, WithHTTPClient(&http.Client{Transport: fiberTransport{app: app.App}}))
}

// loggedIn registers username and returns a workspace logged in as that user.
func loggedIn(t *testing.T, app *server.App, username string) *Workspace {
	t.Helper()
	c := newTestClient(app)
	ctx := context.Background()
	require.NoError(t, c.Register(ctx, username, "secret-"+username))
	ws := NewWorkspace(c)
	require.NoError(t, ws.Login(ctx, username, "secret-"+username))
	return ws
}

func noteIDs(notes []Note) []string {
	ids := make([]string, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	return ids
}
