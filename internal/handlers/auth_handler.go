package handlers

import (
	"fmt"
	"log"

	"watchlog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration, login and accounts.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the routes that need a valid session.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/me", h.HandleMe)
	authRoutes.Post("/logout", h.HandleLogout)

	userRoutes := router.Group("/users")
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	user, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return fail(c, err)
	}

	return ok(c, fiber.StatusCreated, "Account created successfully!", user)
}

// LoginRequest represents the request body for login. RememberMe extends the
// session token lifetime.
type LoginRequest struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// HandleLogin handles user login and issues a session token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Email and password are required",
		})
	}

	token, user, err := h.authService.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful!",
		"token":   token,
		"data":    user,
	})
}

// HandleMe returns the current session's user, resolved from token claims.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := h.authService.GetUser(userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", user)
}

// HandleLogout acknowledges a logout. Sessions are stateless tokens, so the
// server has nothing to clear; the client discards its token. Idempotent.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, "Logged out", nil)
}

// UpdateUserRequest represents the request body for an account update.
// Empty fields are left unchanged.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleUpdateUser shallow-merges fields into the caller's own account.
func (h *AuthHandler) HandleUpdateUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if callerID, _ := c.Locals("user_id").(string); callerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You can only modify your own account",
		})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	user, err := h.authService.UpdateUser(userID, services.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		log.Printf("Error updating user %s: %v", userID, err)
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, "User updated successfully", user)
}

// HandleDeleteUser removes the caller's own account.
func (h *AuthHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if callerID, _ := c.Locals("user_id").(string); callerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You can only modify your own account",
		})
	}

	if err := h.authService.DeleteUser(userID); err != nil {
		log.Printf("Error deleting user %s: %v", userID, err)
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, "Account deleted successfully", nil)
}
