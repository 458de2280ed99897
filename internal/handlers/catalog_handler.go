package handlers

import (
	"errors"
	"log"
	"strconv"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
	"swagstore/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for products, collections, reviews
// and the recently-viewed list.
type CatalogHandler struct {
	catalogService *services.CatalogService
	personalize    *services.PersonalizationService
	validate       *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService, personalize *services.PersonalizationService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		personalize:    personalize,
		validate:       validator.New(),
	}
}

// RegisterPublicRoutes registers the read-side catalog routes. The
// recently-viewed route is registered before the slug route so it is not
// captured as a slug.
func (h *CatalogHandler) RegisterPublicRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/recently-viewed", h.HandleRecentlyViewed)
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:slug", h.HandleGetProduct)
	productRoutes.Get("/:slug/related", h.HandleRelatedProducts)
	productRoutes.Get("/:slug/reviews", h.HandleGetReviews)
	productRoutes.Post("/:slug/view", h.HandleRecordView)

	collectionRoutes := router.Group("/collections")
	collectionRoutes.Get("/", h.HandleListCollections)
	collectionRoutes.Get("/:slug", h.HandleGetCollection)
}

// RegisterAdminRoutes registers the product mutation routes; callers put
// these behind authentication.
func (h *CatalogHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts lists products, optionally filtered by featured flag
// or collection id, with optional pagination.
func (h *CatalogHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := repositories.ProductFilter{
		CollectionID: c.Query("collection"),
		Page:         c.QueryInt("page", 1),
		PageSize:     c.QueryInt("page_size", 0),
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

	products, total, err := h.catalogService.ListProducts(filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"products": products,
		"total":    total,
	})
}

// HandleGetProduct returns a single product by slug.
func (h *CatalogHandler) HandleGetProduct(c *fiber.Ctx) error {
	slug := c.Params("slug")
	product, err := h.catalogService.GetProduct(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleRelatedProducts returns products related to the given one,
// ranked by shared collection and featured flag.
func (h *CatalogHandler) HandleRelatedProducts(c *fiber.Ctx) error {
	slug := c.Params("slug")
	product, err := h.catalogService.GetProduct(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s for related lookup: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve related products",
			"error":   err.Error(),
		})
	}

	related, err := h.catalogService.RelatedProducts(product)
	if err != nil {
		log.Printf("Error getting related products for %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve related products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"products": related})
}

// HandleGetReviews returns a product's reviews with the average rating.
func (h *CatalogHandler) HandleGetReviews(c *fiber.Ctx) error {
	slug := c.Params("slug")
	product, err := h.catalogService.GetProduct(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s for reviews: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}

	reviews, average, err := h.catalogService.ProductReviews(product.ID)
	if err != nil {
		log.Printf("Error getting reviews for product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"reviews":        reviews,
		"average_rating": average,
	})
}

// HandleRecordView notes a product view in the visitor's recency list.
func (h *CatalogHandler) HandleRecordView(c *fiber.Ctx) error {
	slug := c.Params("slug")
	product, err := h.catalogService.GetProduct(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error resolving product %s for view tracking: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not record view",
			"error":   err.Error(),
		})
	}

	if err := h.personalize.RecordView(c.Context(), visitorKey(c), product.ID); err != nil {
		// Personalization is best-effort; never fail the page for it.
		log.Printf("Error recording view for product %s: %v", product.ID, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRecentlyViewed returns the visitor's recently viewed products,
// most recent first.
func (h *CatalogHandler) HandleRecentlyViewed(c *fiber.Ctx) error {
	products, err := h.personalize.RecentlyViewed(c.Context(), visitorKey(c))
	if err != nil {
		log.Printf("Error loading recently viewed products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve recently viewed products",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleListCollections lists all collections in display order.
func (h *CatalogHandler) HandleListCollections(c *fiber.Ctx) error {
	collections, err := h.catalogService.Collections()
	if err != nil {
		log.Printf("Error listing collections: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve collections",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"collections": collections})
}

// HandleGetCollection returns a collection with its products.
func (h *CatalogHandler) HandleGetCollection(c *fiber.Ctx) error {
	slug := c.Params("slug")
	collection, products, err := h.catalogService.GetCollection(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Collection not found",
			})
		}
		log.Printf("Error getting collection %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve collection",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"collection": collection,
		"products":   products,
	})
}

// HandleCreateProduct creates a new product.
func (h *CatalogHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.catalogService.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *CatalogHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")

	if err := h.validate.Struct(product); err != nil {
		return validationErrorResponse(c, err)
	}

	if err := h.catalogService.UpdateProduct(&product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error updating product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *CatalogHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.catalogService.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error deleting product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
