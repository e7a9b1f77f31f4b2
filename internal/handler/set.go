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

type SetHandler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	AddComment(c *gin.Context)
	ListComments(c *gin.Context)
}

type setHandler struct {
	service *service.SetService
	sets    repository.SetRepository
	logger  *zap.Logger
}

func NewSetHandler(svc *service.SetService, sets repository.SetRepository, logger *zap.Logger) SetHandler {
	return &setHandler{service: svc, sets: sets, logger: logger}
}

func (h *setHandler) List(c *gin.Context) {
	sets, err := h.sets.ListAll()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

func (h *setHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "setId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setId provided."})
		return
	}
	set, err := h.sets.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard set not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

type CreateSetRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/flashcardSets. Creation is subject to the owner's
// daily quota and responds 429 once the limit is hit.
func (h *setHandler) Create(c *gin.Context) {
	var req CreateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	set, err := h.service.Create(claims.UserID, req.Name)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

type CardRequest struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

type UpdateSetRequest struct {
	Name  string        `json:"name"`
	Cards []CardRequest `json:"cards"`
}

// Update handles PUT /api/flashcardSets/:setId, replacing the set's name and
// cards wholesale.
func (h *setHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "setId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setId provided."})
		return
	}

	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	cards := make([]models.Flashcard, 0, len(req.Cards))
	for _, card := range req.Cards {
		if card.Difficulty != "" && !models.ValidDifficulty(card.Difficulty) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty must be EASY, MEDIUM or HARD"})
			return
		}
		cards = append(cards, models.Flashcard{
			Question:   card.Question,
			Answer:     card.Answer,
			Difficulty: card.Difficulty,
		})
	}

	set, err := h.sets.Replace(id, req.Name, cards)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "The flashcard set was not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *setHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "setId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flashcard set ID format."})
		return
	}
	if err := h.sets.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "The flashcard set was not found."})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type AddCommentRequest struct {
	Comment string `json:"comment"`
	Rating  *int   `json:"rating"`
}

// AddComment handles POST /api/flashcardSets/:setId/comments.
func (h *setHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "setId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setId provided."})
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment cannot be empty"})
		return
	}
	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be a number between 1 and 5."})
		return
	}

	claims, _ := middleware.ClaimsFrom(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if _, err := h.sets.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard set not found."})
			return
		}
		writeError(c, h.logger, err)
		return
	}

	comment := &models.Comment{
		SetID:   id,
		UserID:  claims.UserID,
		Comment: req.Comment,
		Rating:  *req.Rating,
	}
	if err := h.sets.AddComment(comment); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /api/flashcardSets/:setId/comments, newest first.
func (h *setHandler) ListComments(c *gin.Context) {
	id, ok := pathID(c, "setId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid setId provided."})
		return
	}

	if _, err := h.sets.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard set not found."})
			return
		}
		writeError(c, h.logger, err)
		return
	}

	comments, err := h.sets.ListComments(id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if len(comments) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No comments found for this set"})
		return
	}
	c.JSON(http.StatusOK, comments)
}
