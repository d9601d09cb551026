package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vit0-9/domain_lookup/models"
	"github.com/vit0-9/domain_lookup/pkg/storage"
)

// HistoryHandlers exposes the search history of the caller's session.
type HistoryHandlers struct {
	store HistoryStore
	log   *zap.Logger
}

func NewHistoryHandlers(store HistoryStore, log *zap.Logger) *HistoryHandlers {
	return &HistoryHandlers{store: store, log: log}
}

// ListHandler godoc
// @Summary      List recent searches
// @Description  Returns the ten most recent searches of the current session, newest first.
// @Tags         History
// @Produce      json
// @Success      200 {array}  models.HistoryItem
// @Failure      500 {object} models.ErrorResponse
// @Router       /history [get]
func (h *HistoryHandlers) ListHandler(c *gin.Context) {
	entries, err := h.store.List(c.Request.Context(), SessionID(c), storage.DefaultHistoryLimit)
	if err != nil {
		h.log.Error("error fetching history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch search history"})
		return
	}
	c.JSON(http.StatusOK, models.NewHistoryItems(entries))
}

// DeleteHandler godoc
// @Summary      Delete a history entry
// @Tags         History
// @Produce      json
// @Param        id path string true "History entry ID"
// @Success      200 {object} models.MessageResponse
// @Failure      404 {object} models.ErrorResponse "Entry not found in this session"
// @Failure      500 {object} models.ErrorResponse
// @Router       /history/{id} [delete]
func (h *HistoryHandlers) DeleteHandler(c *gin.Context) {
	deleted, err := h.store.Delete(c.Request.Context(), c.Param("id"), SessionID(c))
	if err != nil {
		h.log.Error("error deleting history item", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete history item"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "History item not found"})
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "History item deleted successfully"})
}

// ClearHandler godoc
// @Summary      Clear search history
// @Description  Deletes every history entry of the current session.
// @Tags         History
// @Produce      json
// @Success      200 {object} models.ClearHistoryResponse
// @Failure      500 {object} models.ErrorResponse
// @Router       /history [delete]
func (h *HistoryHandlers) ClearHandler(c *gin.Context) {
	count, err := h.store.Clear(c.Request.Context(), SessionID(c))
	if err != nil {
		h.log.Error("error clearing history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to clear search history"})
		return
	}
	c.JSON(http.StatusOK, models.ClearHistoryResponse{Message: "Search history cleared", DeletedCount: count})
}

// StatsHandler godoc
// @Summary      Search statistics
// @Description  Total searches of the current session and a per-source breakdown with the distinct domains searched.
// @Tags         History
// @Produce      json
// @Success      200 {object} models.HistoryStatsResponse
// @Failure      500 {object} models.ErrorResponse
// @Router       /history/stats [get]
func (h *HistoryHandlers) StatsHandler(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context(), SessionID(c))
	if err != nil {
		h.log.Error("error fetching history stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch search statistics"})
		return
	}
	c.JSON(http.StatusOK, models.NewHistoryStatsResponse(stats))
}
