package server

import (
	"strings"

	"promptvault/internal/middleware"
	"promptvault/internal/models"
	"promptvault/internal/service"

	"github.com/gofiber/fiber/v2"
)

// promptRequest is the body of create and update. Tags accept an array or a
// comma separated string.
type promptRequest struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Description string         `json:"description"`
	Model       string         `json:"model"`
	ModelURL    string         `json:"modelUrl"`
	ImageURL    string         `json:"imageUrl"`
	Category    string         `json:"category"`
	Tags        models.TagList `json:"tags"`
	AuthorID    string         `json:"authorId"`
	RequesterID string         `json:"requesterId"`
}

func (r promptRequest) input() service.PromptInput {
	return service.PromptInput{
		Title:       r.Title,
		Content:     r.Content,
		Description: r.Description,
		Model:       r.Model,
		ModelURL:    r.ModelURL,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Tags:        []string(r.Tags),
	}
}

// viewerID is the session user, or the ?userId= query for clients that
// annotate the feed without a token.
func viewerID(c *fiber.Ctx) string {
	if id, ok := middleware.UserID(c); ok {
		return id
	}
	return strings.TrimSpace(c.Query("userId"))
}

// GetPrompts handles GET /api/prompts
// @Summary List prompts
// @Description Newest first, each with favoriteCount and isFavorited for the viewer.
// @Tags prompts
// @Produce json
// @Param userId query string false "Viewer id when no session token is sent"
// @Success 200 {array} models.Prompt
// @Router /prompts [get]
func (s *Server) GetPrompts(c *fiber.Ctx) error {
	prompts, err := s.promptService.ListPrompts(c.UserContext(), viewerID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(prompts)
}

// GetPrompt handles GET /api/prompts/:id
// @Summary Get prompt
// @Tags prompts
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} models.Prompt
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id} [get]
func (s *Server) GetPrompt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	prompt, err := s.promptService.GetPrompt(c.UserContext(), id, viewerID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(prompt)
}

// CreatePrompt handles POST /api/prompts
// @Summary Create prompt
// @Description The session user is the author. Without a description one is generated in the background.
// @Tags prompts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body promptRequest true "Prompt"
// @Success 201 {object} object{success=bool,prompt=models.Prompt}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /prompts [post]
func (s *Server) CreatePrompt(c *fiber.Ctx) error {
	var req promptRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := checkBodyIdentity(c, req.AuthorID); err != nil {
		return nil
	}

	prompt, err := s.promptService.CreatePrompt(c.UserContext(), service.CreatePromptInput{
		AuthorID:    requesterID(c),
		PromptInput: req.input(),
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "prompt": prompt})
}

// UpdatePrompt handles PUT /api/prompts/:id
// @Summary Update prompt
// @Description Author only.
// @Tags prompts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prompt ID"
// @Param request body promptRequest true "Prompt"
// @Success 200 {object} object{success=bool,prompt=models.Prompt}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id} [put]
func (s *Server) UpdatePrompt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req promptRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := checkBodyIdentity(c, req.RequesterID); err != nil {
		return nil
	}

	prompt, err := s.promptService.UpdatePrompt(c.UserContext(), service.UpdatePromptInput{
		RequesterID: requesterID(c),
		PromptID:    id,
		PromptInput: req.input(),
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "prompt": prompt})
}

// DeletePrompt handles DELETE /api/prompts/:id
// @Summary Delete prompt
// @Description Author or admin. Deleting an unknown id succeeds.
// @Tags prompts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prompt ID"
// @Success 200 {object} object{success=bool}
// @Failure 403 {object} models.ErrorResponse
// @Router /prompts/{id} [delete]
func (s *Server) DeletePrompt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.promptService.DeletePrompt(c.UserContext(), requesterID(c), id); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
