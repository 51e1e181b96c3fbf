package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StartScheduler starts the label refresh scheduler
func (h *Handlers) StartScheduler(c *gin.Context) {
	if err := h.scheduler.Start(); err != nil {
		serverError(c, "Failed to start scheduler")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scheduler started successfully",
		"status":  "running",
	})
}

// StopScheduler stops the label refresh scheduler
func (h *Handlers) StopScheduler(c *gin.Context) {
	if err := h.scheduler.Stop(); err != nil {
		serverError(c, "Failed to stop scheduler")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scheduler stopped successfully",
		"status":  "stopped",
	})
}

// RunSchedulerOnce triggers one label refresh cycle
func (h *Handlers) RunSchedulerOnce(c *gin.Context) {
	if err := h.scheduler.RunOnce(); err != nil {
		serverError(c, "Failed to run label refresh")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Label refresh completed successfully",
	})
}

// GetSchedulerStatus returns the current scheduler status
func (h *Handlers) GetSchedulerStatus(c *gin.Context) {
	status := "stopped"
	if h.scheduler.IsRunning() {
		status = "running"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"next_run": h.scheduler.GetNextRun(),
		"last_run": h.scheduler.GetLastRun(),
	})
}
