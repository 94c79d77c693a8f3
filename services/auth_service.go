package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notes-server/models"
	"notes-server/repository"
	"notes-server/utils"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users      repository.UserRepositoryInterface
	sessions   repository.SessionRepositoryInterface
	issuer     *utils.TokenIssuer
	bcryptCost int
}

func NewAuthService(users repository.UserRepositoryInterface, sessions repository.SessionRepositoryInterface, issuer *utils.TokenIssuer, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		issuer:     issuer,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (models.User, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" || strings.TrimSpace(creds.Password) == "" {
		return models.User{}, invalid("Username and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), s.bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.CreateUser(ctx, models.User{Username: username, PasswordHash: string(hash)})
	if errors.Is(err, repository.ErrDuplicate) {
		return models.User{}, ErrUsernameTaken
	}
	return user, err
}

func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, error) {
	user, err := s.users.FindUserByUsername(ctx, strings.TrimSpace(creds.Username))
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.issuer.Issue(user.ID, user.Username)
}

// Authenticate validates a bearer token and rejects revoked sessions.
// Authenticate returns an error matching ErrUnauthorized when the token is bad or
// revoked. Any other error means the session store could not be consulted.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*utils.CustomClaims, error) {
	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if claims.ID != "" {
		revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check session: %w", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}
	return claims, nil
}

// Logout revokes the session until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *utils.CustomClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.sessions.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}
