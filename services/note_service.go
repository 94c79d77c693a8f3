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

	"github.com/rs/zerolog"
)

// Notifier is told which users can see a note that just changed.
type Notifier interface {
	NotifyNoteChanged(noteID string, userIDs []string)
}

type nopNotifier struct{}

func (nopNotifier) NotifyNoteChanged(string, []string) {}

// NoteService holds the note rules: creation defaults, access checks and sharing.
type NoteService struct {
	noteRepo     repository.NoteRepositoryInterface
	notifier     Notifier
	logger       zerolog.Logger
	newShareCode func() string
}

func NewNoteService(noteRepo repository.NoteRepositoryInterface, notifier Notifier, logger zerolog.Logger) *NoteService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &NoteService{
		noteRepo:     noteRepo,
		notifier:     notifier,
		logger:       logger,
		newShareCode: utils.NewShareToken,
	}
}

func normalizeType(raw string) models.NoteType {
	if strings.ToLower(strings.TrimSpace(raw)) == string(models.NoteTypeTodo) {
		return models.NoteTypeTodo
	}
	return models.NoteTypeNote
}

func parseStatus(raw string) (*models.NoteStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil, nil
	}
	switch models.NoteStatus(raw) {
	case models.StatusOnProgress, models.StatusCompleted:
		s := models.NoteStatus(raw)
		return &s, nil
	}
	return nil, invalid(fmt.Sprintf("Invalid status %q (use on_progress or completed)", raw))
}

func parseDate(raw string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, invalid("Invalid date format (use YYYY-MM-DD)")
	}
	d := t.Format(models.DateLayout)
	return &d, nil
}

func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]models.Note, error) {
	notes, err := s.noteRepo.FindNotesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]models.Note, 0, len(notes))
	for _, note := range notes {
		views = append(views, note.ViewFor(userID))
	}
	return views, nil
}

func (s *NoteService) CreateNote(ctx context.Context, userID string, req models.CreateNoteRequest) (models.Note, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return models.Note{}, err
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		UserID:  userID,
		Date:    date,
		Type:    normalizeType(req.Type),
		Content: req.Content,
	}
	if note.Type == models.NoteTypeTodo {
		if status == nil {
			st := models.StatusOnProgress
			status = &st
		}
		note.Status = status
	}

	created, err := s.noteRepo.CreateNote(ctx, note)
	if err != nil {
		return models.Note{}, err
	}
	s.notifier.NotifyNoteChanged(created.ID, created.Audience())
	return created.ViewFor(userID), nil
}

// accessible loads a note the user owns or has joined. Anything else reads as missing.
func (s *NoteService) accessible(ctx context.Context, userID, noteID string) (models.Note, error) {
	note, err := s.noteRepo.FindNoteByID(ctx, noteID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Note{}, ErrNoteNotFound
	}
	if err != nil {
		return models.Note{}, err
	}
	if !note.HasAccess(userID) {
		return models.Note{}, ErrNoteNotFound
	}
	return note, nil
}

func (s *NoteService) UpdateNote(ctx context.Context, userID, noteID string, req models.UpdateNoteRequest) (models.Note, error) {
	current, err := s.accessible(ctx, userID, noteID)
	if err != nil {
		return models.Note{}, err
	}

	var patch models.NotePatch
	if strings.TrimSpace(req.Content) != "" {
		content := req.Content
		patch.Content = &content
	}
	if patch.Date, err = parseDate(req.Date); err != nil {
		return models.Note{}, err
	}
	if patch.Status, err = parseStatus(req.Status); err != nil {
		return models.Note{}, err
	}

	targetType := current.Type
	if strings.TrimSpace(req.Type) != "" {
		t := normalizeType(req.Type)
		patch.Type = &t
		targetType = t
	}

	switch targetType {
	case models.NoteTypeNote:
		if patch.Status != nil {
			return models.Note{}, invalid("Status only applies to todo notes")
		}
		patch.ClearStatus = current.Status != nil
	case models.NoteTypeTodo:
		if patch.Status == nil && current.Status == nil {
			st := models.StatusOnProgress
			patch.Status = &st
		}
	}

	updated, err := s.noteRepo.UpdateNote(ctx, noteID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Note{}, ErrNoteNotFound
	}
	if err != nil {
		return models.Note{}, err
	}
	s.notifier.NotifyNoteChanged(updated.ID, updated.Audience())
	return updated.ViewFor(userID), nil
}

func (s *NoteService) DeleteNote(ctx context.Context, userID, noteID string) error {
	note, err := s.accessible(ctx, userID, noteID)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return forbidden("Only owner can delete note")
	}

	err = s.noteRepo.DeleteNoteByID(ctx, noteID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNoteNotFound
	}
	if err != nil {
		return err
	}
	s.notifier.NotifyNoteChanged(note.ID, note.Audience())
	return nil
}

// GenerateShareToken replaces the note's share token with a fresh one.
func (s *NoteService) GenerateShareToken(ctx context.Context, userID, noteID string) (string, error) {
	note, err := s.accessible(ctx, userID, noteID)
	if err != nil {
		return "", err
	}
	if note.UserID != userID {
		return "", forbidden("Only owner can generate share token")
	}

	for attempt := 0; attempt < 3; attempt++ {
		token := s.newShareCode()
		err = s.noteRepo.SetShareToken(ctx, noteID, token)
		if errors.Is(err, repository.ErrDuplicate) {
			s.logger.Warn().Str("note_id", noteID).Msg("share token collision, regenerating")
			continue
		}
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNoteNotFound
		}
		if err != nil {
			return "", err
		}
		return token, nil
	}
	return "", fmt.Errorf("could not allocate a unique share token: %w", err)
}

// JoinByToken makes userID a collaborator of the note the token points at.
func (s *NoteService) JoinByToken(ctx context.Context, userID, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", invalid("Token required")
	}

	note, err := s.noteRepo.FindNoteByShareToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidShareToken
	}
	if err != nil {
		return "", err
	}

	if err := s.noteRepo.AddCollaborator(ctx, note.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidShareToken
		}
		return "", err
	}
	if !note.HasAccess(userID) {
		note.Collaborators = append(note.Collaborators, userID)
		s.notifier.NotifyNoteChanged(note.ID, note.Audience())
	}
	return note.ID, nil
}
