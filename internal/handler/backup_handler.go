package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"commission-backend/internal/backup"
	"commission-backend/internal/middleware"
	"commission-backend/internal/model"
	"commission-backend/pkg/response"
)

// Backups is the part of the backup manager exposed over HTTP.
type Backups interface {
	Snapshot(ctx context.Context) (backup.Info, error)
	List() ([]backup.Info, error)
}

type BackupHandler struct {
	backups Backups
}

func NewBackupHandler(backups Backups) *BackupHandler {
	return &BackupHandler{backups: backups}
}

func (h *BackupHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/backups")
	group.Use(middleware.RequireCapability(model.CapManageBackups))
	{
		group.GET("", h.ListBackups)
		group.POST("", h.CreateBackup)
	}
}

// ListBackups
// @Summary      List backups
// @Tags         backups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]backup.Info}
// @Router       /api/backups [get]
func (h *BackupHandler) ListBackups(c *gin.Context) {
	list, err := h.backups.List()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// CreateBackup takes a snapshot immediately
// @Summary      Create backup
// @Tags         backups
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=backup.Info}
// @Router       /api/backups [post]
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	info, err := h.backups.Snapshot(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, info))
}
