package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetSettings handles GET /api/settings
// @Summary All settings
// @Tags settings
// @Produce json
// @Success 200 {object} object{success=bool,settings=map[string]string}
// @Router /settings [get]
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.settingService.All(c.UserContext())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	if settings == nil {
		settings = map[string]string{}
	}
	return c.JSON(fiber.Map{"success": true, "settings": settings})
}

// GetSetting handles GET /api/settings/:key
// @Summary Read a setting
// @Description value is null when the key was never set.
// @Tags settings
// @Produce json
// @Param key path string true "Setting key"
// @Success 200 {object} object{success=bool,value=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /settings/{key} [get]
func (s *Server) GetSetting(c *fiber.Ctx) error {
	value, err := s.settingService.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "value": value})
}

// PutSetting handles PUT /api/settings/:key (admin only)
// @Summary Write a setting
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Setting key"
// @Param request body object{value=string} true "Value"
// @Success 200 {object} object{success=bool}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /settings/{key} [put]
func (s *Server) PutSetting(c *fiber.Ctx) error {
	var req struct {
		Value       string `json:"value"`
		RequesterID string `json:"requesterId"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if err := checkBodyIdentity(c, req.RequesterID); err != nil {
		return nil
	}

	if err := s.settingService.Set(c.UserContext(), requesterID(c), c.Params("key"), req.Value); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
