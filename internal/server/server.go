package server

import (
	"net/http"
	"time"

	"flashcards/internal/config"
	"flashcards/internal/handler"
	"flashcards/internal/middleware"
	"flashcards/internal/repository"
	"flashcards/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.CORS())

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	tokens := service.NewTokenManager(s.cfg.Auth.JWTSecret, time.Duration(s.cfg.Auth.TokenTTLHours)*time.Hour)

	userRepo := repository.NewUserRepository(s.db, s.logger)
	setRepo := repository.NewSetRepository(s.db, s.logger)
	cardRepo := repository.NewFlashcardRepository(s.db, s.logger)
	collectionRepo := repository.NewCollectionRepository(s.db, s.logger)
	settingsRepo := repository.NewSettingsRepository(s.db, s.logger)

	authService := service.NewAuthService(userRepo, tokens, s.logger)
	setService := service.NewSetService(setRepo, settingsRepo, s.cfg.Quota.DefaultDailyLimit, s.logger)

	userHandler := handler.NewUserHandler(authService, userRepo, setRepo, collectionRepo, s.logger)
	adminHandler := handler.NewAdminHandler(userRepo, setRepo, settingsRepo, s.cfg.Quota.DefaultDailyLimit, s.logger)
	setHandler := handler.NewSetHandler(setService, setRepo, s.logger)
	cardHandler := handler.NewFlashcardHandler(cardRepo, s.logger)
	collectionHandler := handler.NewCollectionHandler(collectionRepo, setRepo, s.logger)

	authenticate := middleware.Authenticate(tokens, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Public routes: signup and login
	users := s.router.Group("/api/users")
	users.POST("", userHandler.Create)
	users.POST("/login", userHandler.Login)

	// Authenticated user routes
	usersAuth := users.Group("", authenticate)
	{
		usersAuth.GET("", userHandler.List)
		usersAuth.GET("/:userId", userHandler.GetByID)
		usersAuth.PUT("/:userId", userHandler.Update)
		usersAuth.PUT("/:userId/password", userHandler.UpdatePassword)
		usersAuth.DELETE("/:userId", userHandler.Delete)
		usersAuth.GET("/:userId/sets", userHandler.ListSets)
		usersAuth.GET("/:userId/collections", userHandler.ListCollections)
		usersAuth.GET("/:userId/collections/:collectionId", userHandler.GetCollection)
		usersAuth.PUT("/:userId/collections/:collectionId", userHandler.UpdateCollection)
		usersAuth.DELETE("/:userId/collections/:collectionId", userHandler.DeleteCollection)
	}

	sets := s.router.Group("/api/flashcardSets", authenticate)
	{
		sets.GET("", setHandler.List)
		sets.GET("/:setId", setHandler.GetByID)
		sets.POST("", setHandler.Create)
		sets.PUT("/:setId", setHandler.Update)
		sets.DELETE("/:setId", setHandler.Delete)
		sets.POST("/:setId/comments", setHandler.AddComment)
		sets.GET("/:setId/comments", setHandler.ListComments)
	}

	cards := s.router.Group("/api/flashcards", authenticate)
	{
		cards.GET("", cardHandler.List)
		cards.POST("", cardHandler.Create)
		cards.PUT("/:id", cardHandler.Update)
		cards.DELETE("/:id", cardHandler.Delete)
	}

	collections := s.router.Group("/api/collections", authenticate)
	{
		collections.GET("", collectionHandler.List)
		collections.GET("/:collectionId", collectionHandler.GetByID)
		collections.POST("", collectionHandler.Create)
		collections.PUT("/:collectionId", collectionHandler.Update)
		collections.DELETE("/:collectionId", collectionHandler.Delete)
	}

	admins := s.router.Group("/api/admins", authenticate, middleware.RequireAdmin())
	{
		admins.GET("", adminHandler.ListUsers)
		admins.GET("/dashboard", adminHandler.Dashboard)
		admins.DELETE("/delete/:userId", adminHandler.DeleteUser)
		admins.GET("/set-limit", adminHandler.GetSetLimit)
		admins.PUT("/set-limit", adminHandler.UpdateSetLimit)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
