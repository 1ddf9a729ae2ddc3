// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"time"

	"echowall/internal/cache"
	"echowall/internal/config"
	"echowall/internal/database"
	"echowall/internal/middleware"
	"echowall/internal/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config   *config.Config
	db       *gorm.DB
	redis    *redis.Client
	app      *fiber.App
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	voteRepo repository.VoteRepository
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	s := &Server{
		config:   cfg,
		db:       db,
		redis:    cache.GetClient(),
		userRepo: repository.NewUserRepository(db),
		postRepo: repository.NewPostRepository(db),
		voteRepo: repository.NewVoteRepository(db),
	}

	middleware.InitMiddleware(cfg)

	s.app = fiber.New(fiber.Config{
		AppName: "Echowall API",
	})
	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	s.app.Use(middleware.ContextMiddleware())
	s.app.Use(middleware.StructuredLogger())

	prom := fiberprometheus.New("echowall-api")
	prom.RegisterAt(s.app, "/metrics")
	s.app.Use(prom.Middleware)
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")

	// Health check
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Echowall up",
			"version": "1.0.0",
		})
	})

	// Auth routes, rate limited per client
	auth := api.Group("/auth", middleware.RateLimit(s.redis, 20, time.Minute, "auth"))
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)

	// User routes
	users := api.Group("/users")
	users.Post("/", s.CreateUser)
	users.Get("/:id", s.GetUser)

	// Post routes. "/latest" registers before "/:id" so it is not captured
	// as an id parameter.
	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Get("/latest", s.GetLatestPost)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	// Vote routes
	posts.Post("/:id/vote", middleware.AuthRequired, s.CastVote)
	posts.Delete("/:id/vote", middleware.AuthRequired, s.RetractVote)
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start begins listening on the configured port and blocks.
func (s *Server) Start() error {
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes external connections.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)

	cache.Close()
	if s.db != nil {
		if sqlDB, dbErr := s.db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	}
	return err
}
