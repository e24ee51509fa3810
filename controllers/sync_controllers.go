package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

type SyncController struct {
	Sync *services.MenuSyncService
}

func NewSyncController(sync *services.MenuSyncService) *SyncController {
	return &SyncController{Sync: sync}
}

// RunSync -> one manual reconciliation pass
func (sc *SyncController) RunSync(c *gin.Context) {
	synced, updated, err := sc.Sync.SyncOrders(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sync pass finished", gin.H{
		"synced":  synced,
		"updated": updated,
	})
}

// GetSyncStatus -> loop state and processed-order count
func (sc *SyncController) GetSyncStatus(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Sync status", sc.Sync.Status())
}
