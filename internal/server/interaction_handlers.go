package server

import (
	"promptvault/internal/middleware"
	"promptvault/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RecordView handles POST /api/prompts/:id/view
// @Summary Count a view
// @Description Signed-in viewers are counted once per prompt; anonymous calls always count.
// @Tags interactions
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} object{success=bool,counted=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id}/view [post]
func (s *Server) RecordView(c *fiber.Ctx) error {
	return s.recordInteraction(c, models.InteractionView)
}

// RecordCopy handles POST /api/prompts/:id/copy
// @Summary Count a copy
// @Tags interactions
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} object{success=bool,counted=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id}/copy [post]
func (s *Server) RecordCopy(c *fiber.Ctx) error {
	return s.recordInteraction(c, models.InteractionCopy)
}

func (s *Server) recordInteraction(c *fiber.Ctx, kind models.InteractionKind) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := middleware.UserID(c)

	counted, err := s.promptService.RecordInteraction(c.UserContext(), id, userID, kind)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "counted": counted})
}

// RatePrompt handles POST /api/prompts/:id/rate
// @Summary Rate prompt
// @Description One score per user; resubmitting replaces the previous score.
// @Tags interactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prompt ID"
// @Param request body object{rating=int} true "Score from 1 to 5"
// @Success 200 {object} object{success=bool,rating=number,ratingCount=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id}/rate [post]
func (s *Server) RatePrompt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Rating  *float64 `json:"rating"`
		UserID  string   `json:"userId"`
		RaterID string   `json:"raterId"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := checkBodyIdentity(c, req.UserID); err != nil {
		return nil
	}
	if err := checkBodyIdentity(c, req.RaterID); err != nil {
		return nil
	}
	var rating float64
	if req.Rating != nil {
		rating = *req.Rating
	}

	summary, err := s.promptService.RatePrompt(c.UserContext(), id, requesterID(c), rating)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"rating":      summary.Rating,
		"ratingCount": summary.RatingCount,
	})
}

// ToggleFavorite handles POST /api/prompts/:id/favorite
// @Summary Toggle favorite
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prompt ID"
// @Success 200 {object} object{success=bool,favorited=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /prompts/{id}/favorite [post]
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		UserID string `json:"userId"`
	}
	// The body is optional here; an empty one carries no identity.
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}
	if err := checkBodyIdentity(c, req.UserID); err != nil {
		return nil
	}

	favorited, err := s.promptService.ToggleFavorite(c.UserContext(), requesterID(c), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "favorited": favorited})
}
