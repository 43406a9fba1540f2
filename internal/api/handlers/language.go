package handlers

import (
	"net/http"

	"booksync/internal/logger"
	"booksync/internal/store"

	"github.com/gin-gonic/gin"
)

type LanguageHandler struct {
	content *store.ContentStore
	logger  *logger.Logger
}

func NewLanguageHandler(content *store.ContentStore, logger *logger.Logger) *LanguageHandler {
	return &LanguageHandler{
		content: content,
		logger:  logger,
	}
}

// List returns the language switcher options cached from sync payloads.
func (h *LanguageHandler) List(c *gin.Context) {
	options, err := h.content.LanguageOptions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch languages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": options})
}
