package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"swagstore/internal/middleware"
	"swagstore/internal/repositories"
	"swagstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SessionCookieConfig controls the session cookie issued on login/signup.
type SessionCookieConfig struct {
	TTL    time.Duration
	Secure bool
}

// AuthHandler handles HTTP requests for authentication. It owns the
// session cookie: services issue tokens, this handler decides how they
// ride in the browser.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	cookieCfg   SessionCookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookieCfg SessionCookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		cookieCfg:   cookieCfg,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/session", h.HandleSession)
	authRoutes.Put("/profile", h.HandleUpdateProfile)
}

// SignupRequest represents the request body for signup. The email and
// password checks here are a fast-fail courtesy; the server-side checks
// in the service are the real boundary.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleSignup handles new account registration and signs the user in.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signup request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user, token, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		log.Printf("Error registering user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
			"error":   err.Error(),
		})
	}

	h.setSessionCookie(c, token)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": user.Public(),
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		// One message for unknown email and wrong password alike.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   services.ErrInvalidCredentials.Error(),
		})
	}

	h.setSessionCookie(c, token)
	return c.JSON(fiber.Map{
		"user": user.Public(),
	})
}

// HandleLogout clears the session cookie. Logout never fails from the
// caller's perspective.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cookieCfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}

// HandleSession reports the current session's user, or null when the
// request carries no valid session. Re-queries the user store so profile
// changes are reflected on refresh.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	token := c.Cookies(middleware.SessionCookieName)
	if token == "" {
		return c.JSON(fiber.Map{"user": nil})
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		return c.JSON(fiber.Map{"user": nil})
	}

	userID, _ := claims["user_id"].(string)
	user, err := h.authService.GetUser(userID)
	if err != nil {
		log.Printf("Session user %s no longer resolvable: %v", userID, err)
		return c.JSON(fiber.Map{"user": nil})
	}

	return c.JSON(fiber.Map{
		"user": user.Public(),
	})
}

// UpdateProfileRequest represents the request body for a profile update.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// HandleUpdateProfile changes the signed-in user's display name and
// returns the refreshed profile.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	token := c.Cookies(middleware.SessionCookieName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Not authenticated",
		})
	}
	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired session",
		})
	}
	userID, _ := claims["user_id"].(string)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing profile update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	user, err := h.authService.UpdateProfile(userID, req.Name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error updating profile for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update profile",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"user": user.Public(),
	})
}

// setSessionCookie issues the httpOnly session cookie.
func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cookieCfg.TTL),
		HTTPOnly: true,
		Secure:   h.cookieCfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// validationErrorResponse renders validator errors as a field→reason map.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors := err.(validator.ValidationErrors)
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
