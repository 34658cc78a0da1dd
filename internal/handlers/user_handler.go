package handlers

import (
	"resep/internal/middleware"
	"resep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for accounts and tokens.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the user routes. auth guards the /me endpoints.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/create", h.HandleRegister)
	userRoutes.Post("/token", h.HandleToken)
	userRoutes.Get("/me", auth, h.HandleGetMe)
	userRoutes.Put("/me", auth, h.HandleUpdateMe)
	userRoutes.Patch("/me", auth, h.HandleUpdateMe)
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	user, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "registration")
	}
	return c.Status(fiber.StatusCreated).JSON(newUserResponse(user))
}

// HandleToken checks credentials and issues a JWT token.
func (h *UserHandler) HandleToken(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "login")
	}
	return c.JSON(fiber.Map{
		"token": token,
	})
}

// HandleGetMe returns the authenticated user.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err, "profile lookup")
	}
	return c.JSON(newUserResponse(user))
}

// HandleUpdateMe updates the authenticated user's name and password. PUT
// requires both fields, PATCH either.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var req services.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	partial := c.Method() == fiber.MethodPatch
	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, req, partial)
	if err != nil {
		return respondError(c, err, "profile update")
	}
	return c.JSON(newUserResponse(user))
}
