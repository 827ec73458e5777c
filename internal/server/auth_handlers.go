package server

import (
	"promptvault/internal/middleware"
	"promptvault/internal/models"
	"promptvault/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

// Register handles POST /api/register
// @Summary Register
// @Description Create an account. The first account and any account named "admin" are administrators.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string,displayName=string,bio=string,gender=string,avatarUrl=string} true "Registration"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
		Gender      string `json:"gender"`
		AvatarURL   string `json:"avatarUrl"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Gender:      req.Gender,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return s.respondWithSession(c, fiber.StatusCreated, user)
}

// Login handles POST /api/login
// @Summary Login
// @Description Verify credentials and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return s.respondWithSession(c, fiber.StatusOK, user)
}

func (s *Server) respondWithSession(c *fiber.Ctx, status int, user *models.User) error {
	token, err := middleware.IssueToken(s.config.JWTSecret, user.ID, s.config.JWTTTL())
	if err != nil {
		return s.respondServiceError(c, models.NewInternalError(err))
	}
	return c.Status(status).JSON(AuthResponse{Success: true, User: user, Token: token})
}
