package service

import (
	"context"
	"testing"
	"time"

	"notes-server/models"
	"notes-server/repository"
	"notes-server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	store := repository.NewMemoryStore()
	keys := utils.NewKeyStore()
	require.NoError(t, keys.AddOrUpdateKey("k1", []byte("secret")))
	return NewAuthService(store, store, utils.NewTokenIssuer(keys, time.Hour), bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, models.Credentials{Username: " alice ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw", user.PasswordHash)

	_, err = auth.Register(ctx, models.Credentials{Username: "ALICE", Password: "other"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = auth.Register(ctx, models.Credentials{Username: "bob", Password: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	token, err := auth.Login(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	claims, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = auth.Login(ctx, models.Credentials{Username: "alice", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, models.Credentials{Username: "ghost", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	auth := setupAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	first, err := auth.Login(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	second, err := auth.Login(ctx, models.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	claims, err := auth.Authenticate(ctx, first)
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, claims))

	_, err = auth.Authenticate(ctx, first)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = auth.Authenticate(ctx, second)
	assert.NoError(t, err)
}

func TestAuthenticate_Garbage(t *testing.T) {
	auth := setupAuthService(t)
	_, err := auth.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
