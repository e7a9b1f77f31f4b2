package handler

import (
	"testing"
	"time"

	"flashcards/internal/middleware"
	"flashcards/internal/models"
	"flashcards/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router      *gin.Engine
	tokens      *service.TokenManager
	auth        service.AuthService
	users       *fakeUsers
	sets        *fakeSets
	settings    *fakeSettings
	collections *fakeCollections
}

// newTestEnv wires the full route table against in-memory repositories, the
// same way the server does against Postgres.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := newFakeUsers()
	sets := newFakeSets(users)
	settings := &fakeSettings{}
	collections := newFakeCollections()

	tokens := service.NewTokenManager("test-secret", time.Hour)
	auth := service.NewAuthService(users, tokens, logger)
	setService := service.NewSetService(sets, settings, 20, logger)

	userHandler := NewUserHandler(auth, users, sets, collections, logger)
	adminHandler := NewAdminHandler(users, sets, settings, 20, logger)
	setHandler := NewSetHandler(setService, sets, logger)
	cardHandler := NewFlashcardHandler(newFakeCards(), logger)
	collectionHandler := NewCollectionHandler(collections, sets, logger)

	authenticate := middleware.Authenticate(tokens, logger)

	router := gin.New()

	userGroup := router.Group("/api/users")
	userGroup.POST("", userHandler.Create)
	userGroup.POST("/login", userHandler.Login)
	userAuth := userGroup.Group("", authenticate)
	userAuth.GET("", userHandler.List)
	userAuth.GET("/:userId", userHandler.GetByID)
	userAuth.PUT("/:userId", userHandler.Update)
	userAuth.PUT("/:userId/password", userHandler.UpdatePassword)
	userAuth.DELETE("/:userId", userHandler.Delete)
	userAuth.GET("/:userId/sets", userHandler.ListSets)

	setGroup := router.Group("/api/flashcardSets", authenticate)
	setGroup.GET("", setHandler.List)
	setGroup.GET("/:setId", setHandler.GetByID)
	setGroup.POST("", setHandler.Create)
	setGroup.PUT("/:setId", setHandler.Update)
	setGroup.DELETE("/:setId", setHandler.Delete)
	setGroup.POST("/:setId/comments", setHandler.AddComment)
	setGroup.GET("/:setId/comments", setHandler.ListComments)

	cardGroup := router.Group("/api/flashcards", authenticate)
	cardGroup.GET("", cardHandler.List)
	cardGroup.POST("", cardHandler.Create)
	cardGroup.PUT("/:id", cardHandler.Update)
	cardGroup.DELETE("/:id", cardHandler.Delete)

	collectionGroup := router.Group("/api/collections", authenticate)
	collectionGroup.GET("", collectionHandler.List)
	collectionGroup.GET("/:collectionId", collectionHandler.GetByID)
	collectionGroup.POST("", collectionHandler.Create)
	collectionGroup.PUT("/:collectionId", collectionHandler.Update)
	collectionGroup.DELETE("/:collectionId", collectionHandler.Delete)

	adminGroup := router.Group("/api/admins", authenticate, middleware.RequireAdmin())
	adminGroup.GET("", adminHandler.ListUsers)
	adminGroup.GET("/dashboard", adminHandler.Dashboard)
	adminGroup.DELETE("/delete/:userId", adminHandler.DeleteUser)
	adminGroup.GET("/set-limit", adminHandler.GetSetLimit)
	adminGroup.PUT("/set-limit", adminHandler.UpdateSetLimit)

	return &testEnv{
		router:      router,
		tokens:      tokens,
		auth:        auth,
		users:       users,
		sets:        sets,
		settings:    settings,
		collections: collections,
	}
}

// tokenFor registers a user (unless present) and returns a bearer token.
func (e *testEnv) tokenFor(t *testing.T, username string, admin bool) string {
	t.Helper()
	user, err := e.users.GetByUsername(username)
	if err != nil {
		user, err = e.auth.Register(username, "password1", admin)
		require.NoError(t, err)
	}
	tok, err := e.tokens.Issue(user)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) addSet(t *testing.T, userID int64, name string) *models.FlashcardSet {
	t.Helper()
	set, err := e.sets.CreateCapped(userID, name, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 1<<30)
	require.NoError(t, err)
	return set
}
