package handlers

import (
	"log"

	"swagstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NewsletterHandler handles newsletter signups.
type NewsletterHandler struct {
	newsletterService *services.NewsletterService
	validate          *validator.Validate
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(newsletterService *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		newsletterService: newsletterService,
		validate:          validator.New(),
	}
}

// RegisterRoutes registers the newsletter routes with the Fiber app.
func (h *NewsletterHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/newsletter", h.HandleSubscribe)
}

// SubscribeRequest represents a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleSubscribe adds an email to the newsletter list. A repeat signup
// is reported as success without creating a duplicate.
func (h *NewsletterHandler) HandleSubscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing newsletter request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	created, err := h.newsletterService.Subscribe(req.Email)
	if err != nil {
		log.Printf("Error subscribing %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not subscribe",
			"error":   err.Error(),
		})
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"message": "Subscribed",
	})
}
