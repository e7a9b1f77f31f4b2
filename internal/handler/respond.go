package handler

import (
	"net/http"
	"strconv"

	"flashcards/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError translates any error through the taxonomy in apperr. Errors
// outside the taxonomy are logged with their cause and surface as a generic
// 500 so store and crypto failures never reach the client.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": msg})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
