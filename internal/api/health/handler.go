package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/barani-1502/Management-reports/internal/model"
)

// Storage is the slice of the repository the probes need.
type Storage interface {
	TestConnection(ctx context.Context) ([]model.AggregateRow, error)
	TableExists(ctx context.Context, table string) (bool, error)
}

// Handler serves the operational probes.
type Handler struct {
	storage Storage
}

// NewHandler creates the handler.
func NewHandler(storage Storage) *Handler {
	return &Handler{storage: storage}
}

// TestDB handles GET /test-db.
func (h *Handler) TestDB(c *gin.Context) {
	rows, err := h.storage.TestConnection(c.Request.Context())
	if err != nil {
		zap.L().Error("Database connection error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connection successful",
		"data":    rows,
	})
}

// CheckTable handles GET /check-table, probing for the daily_summary2
// table the specialized endpoint depends on.
func (h *Handler) CheckTable(c *gin.Context) {
	exists, err := h.storage.TableExists(c.Request.Context(), "daily_summary2")
	if err != nil {
		zap.L().Error("Error checking table", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error checking table",
			"error":   err.Error(),
		})
		return
	}

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"exists": false, "message": "Table does not exist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "message": "Table exists"})
}
