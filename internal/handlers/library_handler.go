package handlers

import (
	"fmt"
	"log"

	"watchlog/internal/models"
	"watchlog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// LibraryHandler handles HTTP requests for the user's movie collection. All
// routes sit behind the auth middleware; the acting user comes from token
// claims, never from the request body.
type LibraryHandler struct {
	service *services.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(service *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{
		service: service,
	}
}

// RegisterRoutes registers the library routes with the Fiber app.
func (h *LibraryHandler) RegisterRoutes(router fiber.Router) {
	libraryRoutes := router.Group("/library")
	libraryRoutes.Get("/", h.HandleGetCollection)
	libraryRoutes.Post("/", h.HandleAddEntry)
	libraryRoutes.Patch("/:id/category", h.HandleMoveEntry)
	libraryRoutes.Delete("/:id", h.HandleDeleteEntry)
}

// HandleGetCollection returns the caller's three category lists.
func (h *LibraryHandler) HandleGetCollection(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	collection, err := h.service.GetCollection(userID)
	if err != nil {
		log.Printf("Error loading collection for user %s: %v", userID, err)
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", collection)
}

// AddEntryRequest represents the request body for adding a movie.
type AddEntryRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Year     *int   `json:"year"`
}

// HandleAddEntry adds a movie to one of the caller's category lists.
func (h *LibraryHandler) HandleAddEntry(c *fiber.Ctx) error {
	var req AddEntryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add movie request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	movie, err := h.service.AddEntry(userID, req.Title, req.Category, req.Year)
	if err != nil {
		log.Printf("Error adding movie for user %s: %v", userID, err)
		return fail(c, err)
	}

	message := fmt.Sprintf("Movie %q added to %s category", movie.Title, models.CategoryLabel(movie.Category))
	return ok(c, fiber.StatusCreated, message, movie)
}

// MoveEntryRequest represents the request body for a category move.
type MoveEntryRequest struct {
	Category string `json:"category"`
}

// HandleMoveEntry relocates a movie to a different category.
func (h *LibraryHandler) HandleMoveEntry(c *fiber.Ctx) error {
	movieID := c.Params("id")

	var req MoveEntryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing move request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	movie, err := h.service.MoveEntry(userID, movieID, req.Category)
	if err != nil {
		log.Printf("Error moving movie %s for user %s: %v", movieID, userID, err)
		return fail(c, err)
	}

	message := fmt.Sprintf("Movie moved to %s category", models.CategoryLabel(movie.Category))
	return ok(c, fiber.StatusOK, message, movie)
}

// HandleDeleteEntry removes a movie from whichever category holds it.
func (h *LibraryHandler) HandleDeleteEntry(c *fiber.Ctx) error {
	movieID := c.Params("id")

	userID, _ := c.Locals("user_id").(string)
	movie, err := h.service.DeleteEntry(userID, movieID)
	if err != nil {
		log.Printf("Error deleting movie %s for user %s: %v", movieID, userID, err)
		return fail(c, err)
	}

	message := fmt.Sprintf("Movie %q deleted successfully", movie.Title)
	return ok(c, fiber.StatusOK, message, nil)
}
