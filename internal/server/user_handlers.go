package server

import (
	"context"
	"errors"
	"time"

	"promptvault/internal/models"
	"promptvault/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
// @Summary List users
// @Description All users with their prompts, newest prompt first. Passwords are never included.
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	users, err := s.userService.ListUsers(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(models.ErrorResponse{
				Message: "Request timeout",
			})
		}
		return s.respondServiceError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:username
// @Summary Get profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.UserContext(), c.Params("username"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile handles PUT /api/users/profile
// @Summary Update profile
// @Description Partial update of the session user's profile. Admins may name another username.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{username=string,displayName=string,bio=string,gender=string,avatarUrl=string,instagramUrl=string,linkedinUrl=string} true "Profile fields"
// @Success 200 {object} object{success=bool,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Username     string  `json:"username"`
		DisplayName  *string `json:"displayName"`
		Bio          *string `json:"bio"`
		Gender       *string `json:"gender"`
		AvatarURL    *string `json:"avatarUrl"`
		InstagramURL *string `json:"instagramUrl"`
		LinkedinURL  *string `json:"linkedinUrl"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		RequesterID:  requesterID(c),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		Bio:          req.Bio,
		Gender:       req.Gender,
		AvatarURL:    req.AvatarURL,
		InstagramURL: req.InstagramURL,
		LinkedinURL:  req.LinkedinURL,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// DeleteUser handles DELETE /api/users/:username (admin only)
// @Summary Delete user
// @Description Removes the account, its prompts, and every favorite, rating and interaction that references either.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} object{success=bool}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{username} [delete]
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	if err := s.userService.DeleteUser(c.UserContext(), requesterID(c), c.Params("username")); err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// PromoteUser handles POST /api/users/:username/promote (admin only)
func (s *Server) PromoteUser(c *fiber.Ctx) error {
	return s.setAdmin(c, true)
}

// DemoteUser handles POST /api/users/:username/demote (admin only)
func (s *Server) DemoteUser(c *fiber.Ctx) error {
	return s.setAdmin(c, false)
}

func (s *Server) setAdmin(c *fiber.Ctx, isAdmin bool) error {
	user, err := s.userService.SetAdmin(c.UserContext(), requesterID(c), c.Params("username"), isAdmin)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}
