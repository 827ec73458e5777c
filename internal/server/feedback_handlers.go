package server

import (
	"promptvault/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SubmitFeedback handles POST /api/feedback
// @Summary Send feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Param request body object{from=string,message=string} true "Feedback"
// @Success 201 {object} object{success=bool,feedback=models.Feedback}
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /feedback [post]
func (s *Server) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		From    string `json:"from"`
		Message string `json:"message"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	fb, err := s.feedbackService.Submit(c.UserContext(), req.From, req.Message)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "feedback": fb})
}

// GetFeedback handles GET /api/feedback (admin only)
// @Summary List feedback
// @Description Newest first.
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Feedback
// @Failure 403 {object} models.ErrorResponse
// @Router /feedback [get]
func (s *Server) GetFeedback(c *fiber.Ctx) error {
	items, err := s.feedbackService.List(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if items == nil {
		items = []models.Feedback{}
	}
	return c.JSON(items)
}

// MarkFeedbackRead handles PUT /api/feedback/:id/read (admin only)
// @Summary Set the read flag
// @Description The body is optional; without it the item is marked read.
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Param request body object{read=bool} false "Read flag"
// @Success 200 {object} object{success=bool,feedback=models.Feedback}
// @Failure 404 {object} models.ErrorResponse
// @Router /feedback/{id}/read [put]
func (s *Server) MarkFeedbackRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	req := struct {
		Read *bool `json:"read"`
	}{}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}
	read := req.Read == nil || *req.Read

	fb, err := s.feedbackService.MarkRead(c.UserContext(), id, read)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "feedback": fb})
}

// DeleteFeedback handles DELETE /api/feedback/:id (admin only)
// @Summary Delete feedback
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Feedback ID"
// @Success 200 {object} object{success=bool}
// @Failure 404 {object} models.ErrorResponse
// @Router /feedback/{id} [delete]
func (s *Server) DeleteFeedback(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.feedbackService.Delete(c.UserContext(), id); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
