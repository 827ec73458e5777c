package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"promptvault/internal/models"
	"promptvault/internal/repository"
)

const (
	maxFeedbackFromLen    = 100
	maxFeedbackMessageLen = 5000
)

type FeedbackService struct {
	repo repository.FeedbackRepository
}

func NewFeedbackService(repo repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{repo: repo}
}

func (s *FeedbackService) Submit(ctx context.Context, from, message string) (*models.Feedback, error) {
	from = strings.TrimSpace(from)
	message = strings.TrimSpace(message)

	fields := map[string]string{}
	switch {
	case from == "":
		fields["from"] = "Name is required"
	case utf8.RuneCountInString(from) > maxFeedbackFromLen:
		fields["from"] = "Name too long (max 100 characters)"
	}
	switch {
	case message == "":
		fields["message"] = "Message is required"
	case utf8.RuneCountInString(message) > maxFeedbackMessageLen:
		fields["message"] = "Message too long (max 5000 characters)"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	fb := &models.Feedback{From: from, Message: message}
	if err := s.repo.Create(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *FeedbackService) List(ctx context.Context) ([]models.Feedback, error) {
	return s.repo.List(ctx)
}

func (s *FeedbackService) MarkRead(ctx context.Context, id string, read bool) (*models.Feedback, error) {
	return s.repo.SetRead(ctx, id, read)
}

func (s *FeedbackService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
