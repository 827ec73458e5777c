package service

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"promptvault/internal/middleware"
	"promptvault/internal/models"
	"promptvault/internal/observability"
	"promptvault/internal/repository"
	"promptvault/internal/validation"
)

// Describer writes a short summary for a prompt. Errors mean no summary.
type Describer interface {
	GenerateDescription(ctx context.Context, title, content string) (string, error)
}

type PromptService struct {
	promptRepo      repository.PromptRepository
	interactionRepo repository.InteractionRepository
	isAdmin         func(ctx context.Context, userID string) (bool, error)

	describer       Describer
	describeTimeout time.Duration
	jobs            sync.WaitGroup
}

type PromptInput struct {
	Title       string
	Content     string
	Description string
	Model       string
	ModelURL    string
	ImageURL    string
	Category    string
	Tags        []string
}

type CreatePromptInput struct {
	AuthorID string
	PromptInput
}

type UpdatePromptInput struct {
	RequesterID string
	PromptID    string
	PromptInput
}

func NewPromptService(
	promptRepo repository.PromptRepository,
	interactionRepo repository.InteractionRepository,
	isAdmin func(ctx context.Context, userID string) (bool, error),
) *PromptService {
	return &PromptService{
		promptRepo:      promptRepo,
		interactionRepo: interactionRepo,
		isAdmin:         isAdmin,
	}
}

// WithDescriber enables background summaries for prompts created without a
// description. Each job is bounded by timeout.
func (s *PromptService) WithDescriber(d Describer, timeout time.Duration) *PromptService {
	s.describer = d
	s.describeTimeout = timeout
	return s
}

// Wait blocks until background jobs finish or ctx ends.
func (s *PromptService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *PromptService) ListPrompts(ctx context.Context, viewerID string) ([]*models.Prompt, error) {
	return s.promptRepo.List(ctx, viewerID)
}

func (s *PromptService) GetPrompt(ctx context.Context, id, viewerID string) (*models.Prompt, error) {
	return s.promptRepo.GetByID(ctx, id, viewerID)
}

func validatePromptInput(in PromptInput) error {
	errs := validation.ValidatePrompt(validation.PromptInput{
		Title:       in.Title,
		Content:     in.Content,
		Description: in.Description,
		Model:       in.Model,
		ModelURL:    in.ModelURL,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
	})
	if errs != nil {
		return models.NewFieldValidationError(errs)
	}
	return nil
}

func applyPromptInput(p *models.Prompt, in PromptInput) {
	p.Title = strings.TrimSpace(in.Title)
	p.Content = strings.TrimSpace(in.Content)
	p.Description = strings.TrimSpace(in.Description)
	p.Model = models.ParseModelRef(in.Model)
	p.ModelURL = strings.TrimSpace(in.ModelURL)
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.Category = models.CategoryOther
	if c, ok := models.ParseCategory(in.Category); ok {
		p.Category = c
	}
	p.Tags = models.NewTagList(in.Tags...)
}

func (s *PromptService) CreatePrompt(ctx context.Context, in CreatePromptInput) (*models.Prompt, error) {
	if in.AuthorID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validatePromptInput(in.PromptInput); err != nil {
		return nil, err
	}

	prompt := &models.Prompt{AuthorID: in.AuthorID}
	applyPromptInput(prompt, in.PromptInput)
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	if prompt.Description == "" && s.describer != nil {
		s.describeLater(prompt.ID, prompt.Title, prompt.Content)
	}
	return prompt, nil
}

// describeLater fills the description in the background. It is detached
// from the request so the create never waits on text generation.
func (s *PromptService) describeLater(id, title, content string) {
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		ctx := context.Background()
		if s.describeTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.describeTimeout)
			defer cancel()
		}
		done := observability.NewJobLogger(middleware.Logger, "describe_prompt").
			Start(ctx, slog.String("prompt_id", id))

		text, err := s.describer.GenerateDescription(ctx, title, content)
		if err == nil && strings.TrimSpace(text) != "" {
			err = s.promptRepo.UpdateDescription(ctx, id, strings.TrimSpace(text))
		}
		done(err)
	}()
}

func (s *PromptService) UpdatePrompt(ctx context.Context, in UpdatePromptInput) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, in.PromptID, in.RequesterID)
	if err != nil {
		return nil, err
	}
	if prompt.AuthorID != in.RequesterID {
		return nil, models.NewForbiddenError("Only the author can edit this prompt")
	}
	input := keepStoredFields(prompt, in.PromptInput)
	if err := validatePromptInput(input); err != nil {
		return nil, err
	}

	applyPromptInput(prompt, input)
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, err
	}
	if prompt.Description == "" && s.describer != nil {
		s.describeLater(prompt.ID, prompt.Title, prompt.Content)
	}
	return prompt, nil
}

// keepStoredFields carries the stored category and description into an
// update that omits them, so an edit of title and content keeps a generated
// summary.
func keepStoredFields(stored *models.Prompt, in PromptInput) PromptInput {
	if strings.TrimSpace(in.Category) == "" {
		in.Category = string(stored.Category)
	}
	if strings.TrimSpace(in.Description) == "" {
		in.Description = stored.Description
	}
	return in
}

// DeletePrompt requires the author or an admin. Unknown ids succeed.
func (s *PromptService) DeletePrompt(ctx context.Context, requesterID, id string) error {
	prompt, err := s.promptRepo.GetByID(ctx, id, "")
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil
		}
		return err
	}
	if prompt.AuthorID != requesterID {
		admin, err := s.isAdmin(ctx, requesterID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("Only the author or an admin can delete this prompt")
		}
	}
	_, err = s.promptRepo.Delete(ctx, id)
	return err
}

// RecordInteraction counts a view or copy. userID may be empty.
func (s *PromptService) RecordInteraction(ctx context.Context, id, userID string, kind models.InteractionKind) (bool, error) {
	counted, err := s.interactionRepo.RecordInteraction(ctx, id, userID, kind)
	if err != nil {
		return false, err
	}
	observability.RecordInteraction(string(kind), counted)
	return counted, nil
}

// RatePrompt accepts whole-number scores from 1 to 5.
func (s *PromptService) RatePrompt(ctx context.Context, id, userID string, rating float64) (*repository.RatingSummary, error) {
	if userID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if rating != math.Trunc(rating) || rating < models.MinRating || rating > models.MaxRating {
		return nil, &models.AppError{
			Code:    models.CodeValidation,
			Message: "Rating must be a whole number between 1 and 5",
			Fields:  map[string]string{"rating": "InvalidRating"},
		}
	}
	summary, err := s.interactionRepo.Rate(ctx, id, userID, int(rating))
	if err != nil {
		return nil, err
	}
	observability.RatingsSubmitted.Inc()
	return summary, nil
}

func (s *PromptService) ToggleFavorite(ctx context.Context, userID, promptID string) (bool, error) {
	if userID == "" {
		return false, models.NewUnauthorizedError("Authentication required")
	}
	favorited, err := s.interactionRepo.ToggleFavorite(ctx, userID, promptID)
	if err != nil {
		return false, err
	}
	observability.RecordFavoriteToggle(favorited)
	return favorited, nil
}
