package handler

import (
	"errors"
	"net/http"

	"flashcards/internal/middleware"
	"flashcards/internal/models"
	"flashcards/internal/repository"
	"flashcards/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler interface {
	Create(c *gin.Context)
	Login(c *gin.Context)
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Update(c *gin.Context)
	UpdatePassword(c *gin.Context)
	Delete(c *gin.Context)
	ListSets(c *gin.Context)
	ListCollections(c *gin.Context)
	GetCollection(c *gin.Context)
	UpdateCollection(c *gin.Context)
	DeleteCollection(c *gin.Context)
}

type userHandler struct {
	auth        service.AuthService
	users       repository.UserRepository
	sets        repository.SetRepository
	collections repository.CollectionRepository
	logger      *zap.Logger
}

func NewUserHandler(auth service.AuthService, users repository.UserRepository, sets repository.SetRepository, collections repository.CollectionRepository, logger *zap.Logger) UserHandler {
	return &userHandler{auth: auth, users: users, sets: sets, collections: collections, logger: logger}
}

// userView is the client-facing shape of a user. The password hash never
// appears in any response.
type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Admin: u.Admin}
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

// Create handles POST /api/users (public signup).
func (h *userHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := h.auth.Register(req.Username, req.Password, req.Admin)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    viewOf(user),
	})
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/users/login (public).
func (h *userHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    viewOf(user),
	})
}

func (h *userHandler) List(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, viewOf(&users[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *userHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID provided."})
		return
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(user))
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Admin    *bool   `json:"admin"`
}

// Update handles PUT /api/users/:userId. Changing the admin flag requires the
// caller's token to carry admin=true.
func (h *userHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID provided."})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}

	if req.Admin != nil {
		claims, _ := middleware.ClaimsFrom(c)
		if claims == nil || !claims.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to update admin status"})
			return
		}
		user.Admin = *req.Admin
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := h.auth.HashPassword(*req.Password)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.users.Update(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username is already taken"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(user))
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword handles PUT /api/users/:userId/password (self-service only).
func (h *userHandler) UpdatePassword(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID provided."})
		return
	}

	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil || claims.UserID != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only change your own password"})
		return
	}

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	if err := h.auth.ChangePassword(id, req.Password); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *userHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID provided."})
		return
	}
	if err := h.users.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSets handles GET /api/users/:userId/sets.
func (h *userHandler) ListSets(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID provided."})
		return
	}
	if _, err := h.users.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	sets, err := h.sets.ListByUser(id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

// ListCollections handles GET /api/users/:userId/collections.
func (h *userHandler) ListCollections(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID provided."})
		return
	}
	if _, err := h.users.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	collections, err := h.collections.ListByUser(id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, collections)
}

// userCollection loads a collection and checks it belongs to the user in the
// path. A collection owned by someone else is reported as absent, not
// forbidden, so ownership cannot be probed.
func (h *userHandler) userCollection(c *gin.Context) (*models.Collection, bool) {
	userID, ok := pathID(c, "userId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID provided."})
		return nil, false
	}
	collectionID, ok := pathID(c, "collectionId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID provided."})
		return nil, false
	}
	collection, err := h.collections.GetByID(collectionID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, h.logger, err)
		return nil, false
	}
	if collection == nil || collection.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return nil, false
	}
	return collection, true
}

func (h *userHandler) GetCollection(c *gin.Context) {
	collection, ok := h.userCollection(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, collection)
}

type UpdateUserCollectionRequest struct {
	Comment string `json:"comment"`
}

func (h *userHandler) UpdateCollection(c *gin.Context) {
	collection, ok := h.userCollection(c)
	if !ok {
		return
	}
	var req UpdateUserCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	collection.Comment = req.Comment
	if err := h.collections.Update(collection, nil); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

func (h *userHandler) DeleteCollection(c *gin.Context) {
	collection, ok := h.userCollection(c)
	if !ok {
		return
	}
	if err := h.collections.Delete(collection.ID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
