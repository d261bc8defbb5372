// Package http exposes the admin surface for triggering maintenance jobs
// and checking service health. It is not a user-facing API.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RC170373/bookie-melissa-sub001/internal/maintenance"
	"github.com/RC170373/bookie-melissa-sub001/internal/metadata"
)

// MaintenanceRunner runs the synchronous maintenance jobs.
type MaintenanceRunner interface {
	RunDedup(ctx context.Context) (maintenance.DedupSummary, error)
	RunEnrichment(ctx context.Context, batchSize int) (metadata.BatchSummary, error)
}

// TaskEnqueuer schedules asynchronous one-off jobs.
type TaskEnqueuer interface {
	EnqueueEnrichBook(ctx context.Context, bookID uint) error
}

// MaintenanceController handles maintenance trigger endpoints.
type MaintenanceController struct {
	runner MaintenanceRunner
	tasks  TaskEnqueuer
}

func NewMaintenanceController(runner MaintenanceRunner, tasks TaskEnqueuer) *MaintenanceController {
	return &MaintenanceController{
		runner: runner,
		tasks:  tasks,
	}
}

// RunDedup triggers a full synchronous dedup pass.
func (m *MaintenanceController) RunDedup(c *gin.Context) {
	summary, err := m.runner.RunDedup(c.Request.Context())
	if errors.Is(err, maintenance.ErrJobRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RunEnrichment triggers one synchronous enrichment batch. The batch size
// can be capped with the batch_size query parameter.
func (m *MaintenanceController) RunEnrichment(c *gin.Context) {
	batchSize := 0
	if raw := c.Query("batch_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "batch_size must be a positive integer"})
			return
		}
		batchSize = parsed
	}

	summary, err := m.runner.RunEnrichment(c.Request.Context(), batchSize)
	if errors.Is(err, maintenance.ErrJobRunning) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// EnrichBook enqueues an async enrichment task for one book.
func (m *MaintenanceController) EnrichBook(c *gin.Context) {
	if m.tasks == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue is disabled"})
		return
	}

	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	if err := m.tasks.EnqueueEnrichBook(c.Request.Context(), uint(bookID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "book_id": bookID})
}
