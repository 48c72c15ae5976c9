package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"prlifecycle/internal/domain/directory"
	"prlifecycle/internal/domain/pr"
)

type Handler struct {
	PRSvc  pr.Service
	DirSvc directory.Service
	Log    *zap.Logger
	// NewID generates ids for pull requests created without one.
	NewID func() string
}

func New(prSvc pr.Service, dirSvc directory.Service, log *zap.Logger) *Handler {
	return &Handler{
		PRSvc:  prSvc,
		DirSvc: dirSvc,
		Log:    log,
		NewID:  uuid.NewString,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
