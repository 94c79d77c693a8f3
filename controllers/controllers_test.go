package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notes-server/repository"
	"notes-server/server"
	"notes-server/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupApp(t *testing.T) (*server.App, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	keys := utils.NewKeyStore()
	require.NoError(t, keys.AddOrUpdateKey("test", []byte("test-secret")))

	app := server.NewApp(server.Dependencies{
		Notes:       store,
		Users:       store,
		Titles:      store,
		Sessions:    store,
		RequestLogs: store,
		Issuer:      utils.NewTokenIssuer(keys, time.Hour),
		BcryptCost:  bcrypt.MinCost,
		Logger:      zerolog.Nop(),
		ServiceName: "notes-test",
	})
	return app, store
}

func doJSON(t *testing.T, app *server.App, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeMap(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m), string(data))
	return m
}

func registerAndLogin(t *testing.T, app *server.App, username string) string {
	t.Helper()
	creds := map[string]string{"username": username, "password": "pw-" + username}

	resp, body := doJSON(t, app, "POST", "/register", "", creds)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "Registered", decodeMap(t, body)["message"])

	resp, body = doJSON(t, app, "POST", "/login", "", creds)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(body))
	token, _ := decodeMap(t, body)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createNote(t *testing.T, app *server.App, token string, body map[string]string) map[string]interface{} {
	t.Helper()
	resp, data := doJSON(t, app, "POST", "/notes", token, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	return decodeMap(t, data)
}
