package handler

import (
	"errors"
	"net/http"

	"flashcards/internal/middleware"
	"flashcards/internal/models"
	"flashcards/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CollectionHandler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type collectionHandler struct {
	collections repository.CollectionRepository
	sets        repository.SetRepository
	logger      *zap.Logger
}

func NewCollectionHandler(collections repository.CollectionRepository, sets repository.SetRepository, logger *zap.Logger) CollectionHandler {
	return &collectionHandler{collections: collections, sets: sets, logger: logger}
}

// List handles GET /api/collections, scoped to the calling user.
func (h *collectionHandler) List(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	collections, err := h.collections.ListByUser(claims.UserID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, collections)
}

// GetByID handles GET /api/collections/:collectionId. Collections owned by
// other users are reported as absent.
func (h *collectionHandler) GetByID(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	id, ok := pathID(c, "collectionId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID provided."})
		return
	}
	collection, err := h.collections.GetByID(id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, h.logger, err)
		return
	}
	if collection == nil || collection.UserID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}
	c.JSON(http.StatusOK, collection)
}

type CollectionRequest struct {
	Comment string  `json:"comment"`
	SetIDs  []int64 `json:"setIds"`
}

// Create handles POST /api/collections. Every referenced set must exist.
func (h *collectionHandler) Create(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Comment == "" || len(req.SetIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment and at least one setId are required"})
		return
	}

	count, err := h.sets.CountByIDs(req.SetIDs)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if count != len(req.SetIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "One or more flashcard sets are invalid"})
		return
	}

	collection := &models.Collection{UserID: claims.UserID, Comment: req.Comment}
	if err := h.collections.Create(collection, req.SetIDs); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

// Update handles PUT /api/collections/:collectionId.
func (h *collectionHandler) Update(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	id, ok := pathID(c, "collectionId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID provided."})
		return
	}

	var req CollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collections.GetByID(id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, h.logger, err)
		return
	}
	if collection == nil || collection.UserID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found or user not authorized"})
		return
	}

	if len(req.SetIDs) > 0 {
		count, err := h.sets.CountByIDs(req.SetIDs)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		if count != len(req.SetIDs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Some flashcard sets do not exist"})
			return
		}
	}

	collection.Comment = req.Comment
	if err := h.collections.Update(collection, req.SetIDs); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, collection)
}

// Delete handles DELETE /api/collections/:collectionId.
func (h *collectionHandler) Delete(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	id, ok := pathID(c, "collectionId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid collection ID provided."})
		return
	}

	collection, err := h.collections.GetByID(id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeError(c, h.logger, err)
		return
	}
	if collection == nil || collection.UserID != claims.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	if err := h.collections.Delete(id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
