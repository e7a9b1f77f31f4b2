package handler

import (
	"errors"
	"net/http"

	"flashcards/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler interface {
	Dashboard(c *gin.Context)
	ListUsers(c *gin.Context)
	DeleteUser(c *gin.Context)
	GetSetLimit(c *gin.Context)
	UpdateSetLimit(c *gin.Context)
}

type adminHandler struct {
	users        repository.UserRepository
	sets         repository.SetRepository
	settings     repository.SettingsRepository
	defaultLimit int
	logger       *zap.Logger
}

func NewAdminHandler(users repository.UserRepository, sets repository.SetRepository, settings repository.SettingsRepository, defaultLimit int, logger *zap.Logger) AdminHandler {
	return &adminHandler{
		users:        users,
		sets:         sets,
		settings:     settings,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Dashboard handles GET /api/admins/dashboard.
func (h *adminHandler) Dashboard(c *gin.Context) {
	userCount, err := h.users.Count()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	setCount, err := h.sets.Count()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":         userCount,
		"flashcardSets": setCount,
	})
}

func (h *adminHandler) ListUsers(c *gin.Context) {
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

// DeleteUser handles DELETE /api/admins/delete/:userId. Deleting an id that
// does not exist is a 404, never a silent success.
func (h *adminHandler) DeleteUser(c *gin.Context) {
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

// GetSetLimit handles GET /api/admins/set-limit. An absent settings record
// means the configured default applies.
func (h *adminHandler) GetSetLimit(c *gin.Context) {
	limit, found, err := h.settings.GetDailyLimit()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !found {
		limit = h.defaultLimit
	}
	c.JSON(http.StatusOK, gin.H{"dailyLimit": limit})
}

type UpdateSetLimitRequest struct {
	DailyLimit *int `json:"dailyLimit"`
}

// UpdateSetLimit handles PUT /api/admins/set-limit. Negative or non-numeric
// limits are rejected outright, never clamped; zero is a valid limit that
// blocks all creation.
func (h *adminHandler) UpdateSetLimit(c *gin.Context) {
	var req UpdateSetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DailyLimit == nil || *req.DailyLimit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dailyLimit must be a non-negative number"})
		return
	}
	if err := h.settings.UpsertDailyLimit(*req.DailyLimit); err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("Daily set limit updated", zap.Int("daily_limit", *req.DailyLimit))
	c.JSON(http.StatusOK, gin.H{"dailyLimit": *req.DailyLimit})
}
