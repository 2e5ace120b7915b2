package report

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barani-1502/Management-reports/internal/model"
)

// Service is the report pipeline consumed by the handlers.
type Service interface {
	FetchReport(ctx context.Context, table, period string) ([]model.AggregateRow, error)
	FetchRideSummary(ctx context.Context, period string) (model.RideSummary, error)
}

// Handler serves the report endpoints.
type Handler struct {
	svc Service
}

// NewHandler creates the handler.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// GetReport handles GET /api/:table/:period for every generic report table.
func (h *Handler) GetReport(c *gin.Context) {
	table := c.Param("table")
	period := c.Param("period")

	rows, err := h.svc.FetchReport(c.Request.Context(), table, period)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidTable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table name"})
		case errors.Is(err, model.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
		default:
			zap.L().Error("Error fetching report data",
				zap.String("table", table),
				zap.String("period", period),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"details": errorDetail(err),
			})
		}
		return
	}

	c.JSON(http.StatusOK, rows)
}

// GetRideSummary handles GET /api/daily_summary2/:period. The response body
// is always an array, errors included; the dashboard indexes position zero.
func (h *Handler) GetRideSummary(c *gin.Context) {
	period := c.Param("period")

	summary, err := h.svc.FetchRideSummary(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, model.ErrInvalidPeriod) {
			c.JSON(http.StatusBadRequest, []gin.H{
				{"error": "Invalid period. Use today, week, or month."},
			})
			return
		}
		zap.L().Error("Error fetching ride summary",
			zap.String("period", period),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, []gin.H{{
			"error":   "Error fetching data from database",
			"details": errorDetail(err),
		}})
		return
	}

	c.JSON(http.StatusOK, []model.RideSummary{summary})
}

// errorDetail surfaces the engine's own message for diagnostics, not the
// wrapper around it.
func errorDetail(err error) string {
	var storageErr *model.StorageError
	if errors.As(err, &storageErr) && storageErr.Err != nil {
		return storageErr.Err.Error()
	}
	return err.Error()
}
