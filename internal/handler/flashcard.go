package handler

import (
	"errors"
	"net/http"

	"flashcards/internal/models"
	"flashcards/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FlashcardHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type flashcardHandler struct {
	cards  repository.FlashcardRepository
	logger *zap.Logger
}

func NewFlashcardHandler(cards repository.FlashcardRepository, logger *zap.Logger) FlashcardHandler {
	return &flashcardHandler{cards: cards, logger: logger}
}

func (h *flashcardHandler) List(c *gin.Context) {
	cards, err := h.cards.List()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

type FlashcardRequest struct {
	SetID      int64  `json:"setId"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

func (h *flashcardHandler) Create(c *gin.Context) {
	var req FlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" || req.Answer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question and answer are required"})
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulty(req.Difficulty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty must be EASY, MEDIUM or HARD"})
		return
	}

	card := &models.Flashcard{
		SetID:      req.SetID,
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
	}
	if err := h.cards.Create(card); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *flashcardHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flashcard ID provided."})
		return
	}

	var req FlashcardRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" || req.Answer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question and answer are required"})
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulty(req.Difficulty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Difficulty must be EASY, MEDIUM or HARD"})
		return
	}

	card := &models.Flashcard{
		ID:         id,
		Question:   req.Question,
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
	}
	if err := h.cards.Update(card); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *flashcardHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flashcard ID provided."})
		return
	}
	if err := h.cards.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Flashcard not found"})
			return
		}
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
