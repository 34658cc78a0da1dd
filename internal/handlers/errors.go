package handlers

import (
	"errors"
	"log"

	"resep/internal/repositories"
	"resep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service and repository errors to HTTP responses.
// action names the failed operation in logs and 500 responses.
func respondError(c *fiber.Ctx, err error, action string) error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  ve.Fields,
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	case errors.Is(err, repositories.ErrDuplicateName), errors.Is(err, repositories.ErrDuplicateUser):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": action + " failed",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	log.Printf("Error during %s: %v", action, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not complete " + action,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
