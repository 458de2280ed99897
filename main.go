package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"swagstore/internal/handlers"
	"swagstore/internal/middleware"
	"swagstore/internal/models"
	"swagstore/internal/repositories"
	"swagstore/internal/services"
	"swagstore/pkg/mailer"
	"swagstore/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("SESSION_TTL_HOURS", 168)
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "store@swag.example")
	viper.SetDefault("SHIPPING_FLAT_RATE", 10.00)
	viper.SetDefault("TAX_RATE", 0.08)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	cookieSecure := viper.GetBool("COOKIE_SECURE")

	// Sessions live between one day and one week.
	ttlHours := viper.GetInt("SESSION_TTL_HOURS")
	if ttlHours < 24 {
		ttlHours = 24
	} else if ttlHours > 168 {
		ttlHours = 168
	}
	sessionTTL := time.Duration(ttlHours) * time.Hour

	// --- Database ---
	// Postgres when DATABASE_URL is set; otherwise an in-memory sqlite
	// database seeded with demo data, so the store runs out of the box.
	var db *gorm.DB
	var err error
	gormConfig := &gorm.Config{TranslateError: true}
	if dsn := viper.GetString("DATABASE_URL"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	} else {
		log.Println("DATABASE_URL not set, using in-memory sqlite with demo data")
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Product{},
		&models.Collection{},
		&models.Review{},
		&models.Article{},
		&models.ArticleCategory{},
		&models.ArticleTag{},
		&models.Author{},
		&models.User{},
		&models.Order{},
		&models.Subscriber{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	// --- Cart and recency stores ---
	// Redis when REDIS_ADDR is set; in-process stores otherwise.
	var cartStore repositories.CartStore
	var recencyStore repositories.RecencyStore
	if addr := viper.GetString("REDIS_ADDR"); addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: addr})
		cartStore = repositories.NewRedisCartStore(redisClient)
		recencyStore = repositories.NewRedisRecencyStore(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, using in-memory cart and recency stores")
		cartStore = repositories.NewMemoryCartStore()
		recencyStore = repositories.NewMemoryRecencyStore()
	}

	// --- RabbitMQ ---
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, order events will not be published")
	}

	// --- Mailer ---
	var mail *mailer.Mailer
	if host := viper.GetString("SMTP_HOST"); host != "" {
		mail, err = mailer.New(mailer.Config{
			Host:     host,
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USERNAME"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		})
		if err != nil {
			log.Fatalf("Failed to initialize mailer: %v", err)
		}
	} else {
		log.Println("SMTP_HOST not set, transactional mail disabled")
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	collectionRepo := repositories.NewGORMCollectionRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	articleRepo := repositories.NewGORMArticleRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	subscriberRepo := repositories.NewGORMSubscriberRepository(db)

	if viper.GetString("DATABASE_URL") == "" {
		seedDemoData(db)
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"), sessionTTL)
	cartService := services.NewCartService(cartStore)
	catalogService := services.NewCatalogService(productRepo, collectionRepo, reviewRepo)
	blogService := services.NewBlogService(articleRepo)
	personalizationService := services.NewPersonalizationService(recencyStore, productRepo)
	var publisher services.OrderEventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	orderService := services.NewOrderService(orderRepo, productRepo, publisher,
		viper.GetFloat64("SHIPPING_FLAT_RATE"), viper.GetFloat64("TAX_RATE"))
	var welcomeMailer services.WelcomeMailer
	if mail != nil {
		welcomeMailer = mail
	}
	newsletterService := services.NewNewsletterService(subscriberRepo, welcomeMailer)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, handlers.SessionCookieConfig{
		TTL:    sessionTTL,
		Secure: cookieSecure,
	})
	cartHandler := handlers.NewCartHandler(cartService, catalogService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, personalizationService)
	blogHandler := handlers.NewBlogHandler(blogService)
	orderHandler := handlers.NewOrderHandler(orderService, cartService)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes. The visitor middleware gives anonymous browsers a
	// stable key so carts and recently-viewed lists survive across
	// requests; authenticated users are keyed by user id instead.
	authHandler.RegisterRoutes(apiV1)
	newsletterHandler.RegisterRoutes(apiV1)
	blogHandler.RegisterRoutes(apiV1)

	browse := apiV1.Group("", middleware.SessionOptional(authService), middleware.WithVisitor(cookieSecure))
	catalogHandler.RegisterPublicRoutes(browse)
	cartHandler.RegisterRoutes(browse)

	// Authenticated routes.
	authed := apiV1.Group("", middleware.AuthRequired(authService), middleware.WithVisitor(cookieSecure))
	orderHandler.RegisterRoutes(authed)
	catalogHandler.RegisterAdminRoutes(authed)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	// Sends the confirmation mail for every order.created event.
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for order events...")
			messageHandler := func(msg amqp.Delivery) error {
				var event struct {
					Event       string  `json:"event"`
					OrderNumber string  `json:"order_number"`
					Email       string  `json:"email"`
					Total       float64 `json:"total"`
				}
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					log.Printf("Dropping malformed order event: %v", err)
					return nil
				}
				if event.Event != "order.created" || mail == nil {
					return nil
				}
				return mail.SendOrderConfirmation(event.Email, event.OrderNumber, event.Total)
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedDemoData populates the in-memory database with a browsable demo
// catalog and blog.
func seedDemoData(db *gorm.DB) {
	collections := []models.Collection{
		{ID: "col-apparel", Name: "Apparel", Slug: "apparel", Description: "Tees, hoodies and caps", DisplayOrder: 1},
		{ID: "col-accessories", Name: "Accessories", Slug: "accessories", Description: "Stickers, mugs and more", DisplayOrder: 2},
	}
	products := []models.Product{
		{ID: "prod-classic-tee", Name: "Classic Logo Tee", Slug: "classic-logo-tee", Description: "Soft cotton tee with the classic logo", Price: 25.00, SKU: "TEE-001", Stock: 120, Sizes: []string{"S", "M", "L", "XL"}, Featured: true, CollectionID: "col-apparel"},
		{ID: "prod-zip-hoodie", Name: "Zip Hoodie", Slug: "zip-hoodie", Description: "Heavyweight fleece zip hoodie", Price: 55.00, SKU: "HOOD-001", Stock: 40, Sizes: []string{"M", "L", "XL"}, Featured: true, CollectionID: "col-apparel"},
		{ID: "prod-sticker-pack", Name: "Sticker Pack", Slug: "sticker-pack", Description: "Five die-cut vinyl stickers", Price: 8.00, SKU: "STK-001", Stock: 500, CollectionID: "col-accessories"},
		{ID: "prod-enamel-mug", Name: "Enamel Mug", Slug: "enamel-mug", Description: "Campfire-style enamel mug", Price: 18.00, SKU: "MUG-001", Stock: 75, CollectionID: "col-accessories"},
	}
	reviews := []models.Review{
		{ID: "rev-1", ProductID: "prod-classic-tee", Rating: 5, Title: "Great fit", Content: "Washed it a dozen times, still looks new.", ReviewerName: "Sam", VerifiedPurchase: true, ReviewDate: time.Now().AddDate(0, -1, 0)},
		{ID: "rev-2", ProductID: "prod-classic-tee", Rating: 4, Title: "Solid tee", Content: "Runs slightly large, size down.", ReviewerName: "Alex", ReviewDate: time.Now().AddDate(0, 0, -10)},
	}
	categories := []models.ArticleCategory{
		{ID: "cat-news", Name: "News", Slug: "news", Color: "#2563eb"},
		{ID: "cat-guides", Name: "Guides", Slug: "guides", Color: "#16a34a"},
	}
	tags := []models.ArticleTag{
		{ID: "tag-release", Name: "Release", Slug: "release"},
		{ID: "tag-care", Name: "Care", Slug: "care"},
	}
	authors := []models.Author{
		{ID: "aut-team", Name: "The Store Team", Slug: "the-store-team", Bio: "Dispatches from the people behind the store."},
		{ID: "aut-maya", Name: "Maya Lindqvist", Slug: "maya-lindqvist", Bio: "Product care and materials.", Twitter: "@mayalq"},
	}
	articles := []models.Article{
		{ID: "art-spring-drop", Title: "The Spring Drop Is Here", Slug: "spring-drop", Excerpt: "New colors across the apparel line.", Content: "The spring collection is live...", AuthorID: "aut-team", CategoryID: "cat-news", Tags: []models.ArticleTag{tags[0]}, Featured: true, PublishedAt: time.Now().AddDate(0, 0, -3)},
		{ID: "art-hoodie-care", Title: "How To Care For Your Hoodie", Slug: "hoodie-care", Excerpt: "Keep the fleece soft for years.", Content: "Wash cold, hang dry...", AuthorID: "aut-maya", CategoryID: "cat-guides", Tags: []models.ArticleTag{tags[1]}, PublishedAt: time.Now().AddDate(0, -2, 0)},
	}

	for i := range collections {
		if err := db.Create(&collections[i]).Error; err != nil {
			log.Printf("Error seeding collection %s: %v", collections[i].Name, err)
		}
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		}
	}
	for i := range reviews {
		if err := db.Create(&reviews[i]).Error; err != nil {
			log.Printf("Error seeding review %s: %v", reviews[i].ID, err)
		}
	}
	for i := range categories {
		if err := db.Create(&categories[i]).Error; err != nil {
			log.Printf("Error seeding category %s: %v", categories[i].Name, err)
		}
	}
	for i := range authors {
		if err := db.Create(&authors[i]).Error; err != nil {
			log.Printf("Error seeding author %s: %v", authors[i].Name, err)
		}
	}
	for i := range articles {
		if err := db.Create(&articles[i]).Error; err != nil {
			log.Printf("Error seeding article %s: %v", articles[i].Title, err)
		}
	}
	log.Println("Seeded demo catalog and blog data")
}
