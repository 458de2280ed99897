package handlers

import (
	"errors"
	"log"
	"strconv"

	"swagstore/internal/repositories"
	"swagstore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Default page size for article listings.
const defaultArticlePageSize = 9

// BlogHandler handles HTTP requests for the blog.
type BlogHandler struct {
	blogService *services.BlogService
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(blogService *services.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

// RegisterRoutes registers the blog routes with the Fiber app. The
// categories route is registered before the slug route so it is not
// captured as a slug.
func (h *BlogHandler) RegisterRoutes(router fiber.Router) {
	articleRoutes := router.Group("/articles")
	articleRoutes.Get("/categories", h.HandleListCategories)
	articleRoutes.Get("/authors/:slug", h.HandleGetAuthor)
	articleRoutes.Get("/", h.HandleListArticles)
	articleRoutes.Get("/:slug", h.HandleGetArticle)
	articleRoutes.Get("/:slug/related", h.HandleRelatedArticles)
}

// HandleListArticles lists one page of articles, filterable by category
// slug, tag slug, author slug, and featured flag.
func (h *BlogHandler) HandleListArticles(c *fiber.Ctx) error {
	filter := repositories.ArticleFilter{
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		AuthorSlug:   c.Query("author"),
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("page_size", defaultArticlePageSize),
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "featured must be a boolean",
			})
		}
		filter.Featured = &featured
	}

	page, err := h.blogService.ListArticles(filter)
	if err != nil {
		log.Printf("Error listing articles: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve articles",
			"error":   err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleGetArticle returns a single article by slug.
func (h *BlogHandler) HandleGetArticle(c *fiber.Ctx) error {
	slug := c.Params("slug")
	article, err := h.blogService.GetArticle(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Article not found",
			})
		}
		log.Printf("Error getting article %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve article",
			"error":   err.Error(),
		})
	}
	return c.JSON(article)
}

// HandleRelatedArticles returns articles related to the given one,
// ranked by shared category and tags.
func (h *BlogHandler) HandleRelatedArticles(c *fiber.Ctx) error {
	slug := c.Params("slug")
	article, err := h.blogService.GetArticle(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Article not found",
			})
		}
		log.Printf("Error getting article %s for related lookup: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve related articles",
			"error":   err.Error(),
		})
	}

	related, err := h.blogService.RelatedArticles(article)
	if err != nil {
		log.Printf("Error getting related articles for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve related articles",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"articles": related})
}

// HandleGetAuthor returns a single author profile by slug. Their
// articles are listed separately via /articles?author=<slug>.
func (h *BlogHandler) HandleGetAuthor(c *fiber.Ctx) error {
	slug := c.Params("slug")
	author, err := h.blogService.GetAuthor(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Author not found",
			})
		}
		log.Printf("Error getting author %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve author",
			"error":   err.Error(),
		})
	}
	return c.JSON(author)
}

// HandleListCategories lists all blog categories.
func (h *BlogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.blogService.Categories()
	if err != nil {
		log.Printf("Error listing article categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"categories": categories})
}
