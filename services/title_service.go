package service

import (
	"context"
	"errors"
	"strings"

	"notes-server/models"
	"notes-server/repository"
)

type TitleService struct {
	repo repository.TitleRepositoryInterface
}

func NewTitleService(repo repository.TitleRepositoryInterface) *TitleService {
	return &TitleService{repo: repo}
}

func (s *TitleService) GetTitle(ctx context.Context, userID string) (string, error) {
	title, err := s.repo.FindTitle(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultTitle, nil
	}
	return title, err
}

func (s *TitleService) SetTitle(ctx context.Context, userID, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", invalid("Title required")
	}
	if err := s.repo.SaveTitle(ctx, userID, title); err != nil {
		return "", err
	}
	return title, nil
}
