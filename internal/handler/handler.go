// Package handler contains all HTTP handlers.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/autolabel"
	"whatsdesk-go/internal/config"
	"whatsdesk-go/internal/metrics"
	"whatsdesk-go/internal/model"
	"whatsdesk-go/internal/pipeline"
	"whatsdesk-go/internal/repository"
	"whatsdesk-go/internal/scheduler"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	repo      *repository.Repository
	pipeline  *pipeline.Pipeline
	labels    *autolabel.Service
	sender    pipeline.Sender
	scheduler *scheduler.Scheduler
	metrics   *metrics.Metrics
	cfg       *config.Config
}

// NewHandlers creates new HTTP handlers
func NewHandlers(
	repo *repository.Repository,
	pl *pipeline.Pipeline,
	labels *autolabel.Service,
	sender pipeline.Sender,
	sched *scheduler.Scheduler,
	m *metrics.Metrics,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		repo:      repo,
		pipeline:  pl,
		labels:    labels,
		sender:    sender,
		scheduler: sched,
		metrics:   m,
		cfg:       cfg,
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := model.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  "ok",
		Details:   make(map[string]string),
	}

	if err := h.repo.Ping(); err != nil {
		response.Status = "error"
		response.Database = "error"
		logrus.Errorf("Database health check failed: %v", err)
	}

	if h.scheduler.IsRunning() {
		response.Details["scheduler"] = "running"
		response.Details["next_run"] = h.scheduler.GetNextRun().Format(time.RFC3339)
	} else {
		response.Details["scheduler"] = "stopped"
	}

	statusCode := http.StatusOK
	if response.Status == "error" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error:   "validation_error",
		Message: message,
		Code:    http.StatusBadRequest,
	})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, model.ErrorResponse{
		Error:   "not_found",
		Message: message,
		Code:    http.StatusNotFound,
	})
}

func serverError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{
		Error:   "server_error",
		Message: message,
		Code:    http.StatusInternalServerError,
	})
}
