package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"booksync/internal/api/handlers"
	"booksync/internal/api/middleware"
	"booksync/internal/config"
	"booksync/internal/database"
	"booksync/internal/events"
	"booksync/internal/logger"
	"booksync/internal/store"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

// New builds the router. publisher may be nil when event publishing is
// disabled (tests, local runs without Kafka).
func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher *events.Publisher) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Stores
	content := store.NewContentStore(db.DB, logger)
	var commerce *store.CommerceStore
	if cfg.CommerceEnabled {
		commerce = store.NewCommerceStore(db.DB, logger)
	}

	// Initialize handlers
	syncHandler := handlers.NewSyncHandler(cfg, content, commerce, publisher, logger)
	bookHandler := handlers.NewBookHandler(db.DB, content, logger)
	productHandler := handlers.NewProductHandler(db.DB, logger)
	languageHandler := handlers.NewLanguageHandler(content, logger)
	issueHandler := handlers.NewIssueHandler(db.DB, logger)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// MPA sync webhook
		sync := v1.Group("/sync")
		{
			sync.POST("/book", syncHandler.SyncBook)
		}

		// Books
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.List)
			books.GET("/:id", bookHandler.Get)
		}

		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}

		// Languages
		languages := v1.Group("/languages")
		{
			languages.GET("", languageHandler.List)
		}

		// Issues
		issues := v1.Group("/issues")
		{
			issues.GET("", issueHandler.List)
			issues.POST("/:id/resolve", issueHandler.Resolve)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router for serverless wrappers and tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
