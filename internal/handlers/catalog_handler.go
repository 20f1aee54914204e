package handlers

import (
	"log"
	"strings"

	"watchlog/pkg/tmdb"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler exposes the movie catalog gateway. Routes are public: the
// original home page lets visitors browse before logging in.
type CatalogHandler struct {
	client *tmdb.Client
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(client *tmdb.Client) *CatalogHandler {
	return &CatalogHandler{
		client: client,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Get("/search", h.HandleSearch)
	catalogRoutes.Get("/genres", h.HandleGenres)
	catalogRoutes.Get("/discover", h.HandleDiscover)
	catalogRoutes.Get("/browse/:type", h.HandleBrowse)
}

func mediaType(c *fiber.Ctx) string {
	mt := c.Query("media_type", "movie")
	if mt != "movie" && mt != "tv" {
		mt = "movie"
	}
	return mt
}

// HandleSearch performs a free-text catalog search.
func (h *CatalogHandler) HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Please enter a search term",
		})
	}

	page, err := h.client.Search(c.Context(), query, mediaType(c), c.QueryInt("page", 1))
	if err != nil {
		log.Printf("Catalog search failed for %q: %v", query, err)
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", page)
}

// HandleGenres returns the catalog's genre list.
func (h *CatalogHandler) HandleGenres(c *fiber.Ctx) error {
	genres, err := h.client.Genres(c.Context(), mediaType(c))
	if err != nil {
		log.Printf("Catalog genre list failed: %v", err)
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", genres)
}

// HandleDiscover lists catalog items of a genre, most popular first.
func (h *CatalogHandler) HandleDiscover(c *fiber.Ctx) error {
	genreID := c.QueryInt("genre")
	if genreID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A genre is required",
		})
	}

	page, err := h.client.Discover(c.Context(), genreID, mediaType(c), c.QueryInt("page", 1))
	if err != nil {
		log.Printf("Catalog discover failed for genre %d: %v", genreID, err)
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", page)
}

// HandleBrowse fetches a curated list: popular, top_rated, now_playing or
// on_the_air.
func (h *CatalogHandler) HandleBrowse(c *fiber.Ctx) error {
	listType := c.Params("type")
	if !tmdb.ValidListType(listType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Unknown catalog list",
		})
	}

	page, err := h.client.Browse(c.Context(), listType, mediaType(c), c.QueryInt("page", 1))
	if err != nil {
		log.Printf("Catalog browse failed for %s: %v", listType, err)
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "", page)
}
