package server

import (
	"promptvault/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCatalog handles GET /api/catalog
// @Summary Categories and known models
// @Tags prompts
// @Produce json
// @Success 200 {object} object{categories=[]string,models=[]string}
// @Router /catalog [get]
func (s *Server) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories": models.Categories(),
		"models":     models.KnownModels(),
	})
}
