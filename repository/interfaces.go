package repository

import (
	"context"
	"errors"
	"time"

	"notes-server/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type NoteRepositoryInterface interface {
	CreateNote(ctx context.Context, note models.Note) (models.Note, error)
	FindNoteByID(ctx context.Context, id string) (models.Note, error)
	FindNotesForUser(ctx context.Context, userID string) ([]models.Note, error)
	FindNoteByShareToken(ctx context.Context, token string) (models.Note, error)
	UpdateNote(ctx context.Context, id string, patch models.NotePatch) (models.Note, error)
	DeleteNoteByID(ctx context.Context, id string) error
	SetShareToken(ctx context.Context, id, token string) error
	AddCollaborator(ctx context.Context, id, userID string) error
}

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
}

type TitleRepositoryInterface interface {
	FindTitle(ctx context.Context, userID string) (string, error)
	SaveTitle(ctx context.Context, userID, title string) error
}

// SessionRepositoryInterface tracks revoked bearer tokens by their jti.
type SessionRepositoryInterface interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RequestLogRepositoryInterface interface {
	SaveRequestLog(ctx context.Context, entry models.RequestLog) error
}
