package server

import (
	"strings"

	"promptvault/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxAssistInputLen = 20000

// OptimizePrompt handles POST /api/assist/optimize
// @Summary Improve a prompt
// @Description Returns the input unchanged when text generation is unavailable.
// @Tags assist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{text=string} true "Prompt text"
// @Success 200 {object} object{success=bool,text=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /assist/optimize [post]
func (s *Server) OptimizePrompt(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := validateAssistText(map[string]string{"text": req.Text}); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "text": s.assistService.Optimize(c.UserContext(), req.Text)})
}

// DescribePrompt handles POST /api/assist/describe
// @Summary Summarize a prompt
// @Description Returns a generic description when text generation is unavailable.
// @Tags assist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string} true "Prompt"
// @Success 200 {object} object{success=bool,text=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /assist/describe [post]
func (s *Server) DescribePrompt(c *fiber.Ctx) error {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := validateAssistText(map[string]string{"content": req.Content}); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "text": s.assistService.Describe(c.UserContext(), req.Title, req.Content)})
}

func validateAssistText(fields map[string]string) error {
	errs := map[string]string{}
	for name, v := range fields {
		switch {
		case strings.TrimSpace(v) == "":
			errs[name] = name + " is required"
		case len(v) > maxAssistInputLen:
			errs[name] = name + " is too long"
		}
	}
	if len(errs) > 0 {
		return models.NewFieldValidationError(errs)
	}
	return nil
}
