package controllers

import (
	"github.com/gofiber/fiber/v2"

	"prashiskshan/backend/middleware"
	"prashiskshan/backend/services"
	"prashiskshan/backend/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a student, faculty or industry account and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body services.RegisterInput true "Registration data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /api/auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	result, err := ac.Auth.Register(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Created(c, "User registered successfully", result)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginInput true "Login credentials"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 429 {object} utils.Response
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	result, err := ac.Auth.Login(c.UserContext(), input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Login successful", result)
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	return utils.OK(c, middleware.CurrentUser(c))
}

func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	var input services.UpdateProfileInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	user, err := ac.Auth.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Profile updated successfully", user)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	var input services.ChangePasswordInput
	if err := parseBody(c, &input); err != nil {
		return err
	}

	if err := ac.Auth.ChangePassword(c.UserContext(), middleware.CurrentUser(c), input); err != nil {
		return err
	}
	return utils.Success(c, fiber.StatusOK, "Password changed successfully", nil)
}
