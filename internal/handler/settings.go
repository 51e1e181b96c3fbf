package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"whatsdesk-go/internal/auth"
	"whatsdesk-go/internal/model"
	"whatsdesk-go/internal/pipeline"
)

// Default welcome message for accounts that have not saved settings yet.
const defaultWelcomeMessage = "¡Hola! Gracias por contactarnos. Te responderemos pronto."

// GetSettings returns the account's auto-reply settings, falling back to
// defaults when none have been saved.
func (h *Handlers) GetSettings(c *gin.Context) {
	settings, err := h.repo.GetSettings(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to fetch settings")
		return
	}
	if settings == nil {
		settings = &model.AutoReplySettings{
			AccountID:       auth.AccountID(c),
			Enabled:         true,
			WelcomeMessage:  defaultWelcomeMessage,
			FallbackMessage: pipeline.DefaultReply,
		}
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings creates or updates the account's auto-reply settings
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req model.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	settings := model.AutoReplySettings{
		AccountID:       auth.AccountID(c),
		Enabled:         enabled,
		WelcomeMessage:  strings.TrimSpace(req.WelcomeMessage),
		FallbackMessage: strings.TrimSpace(req.FallbackMessage),
	}
	if err := h.repo.UpsertSettings(&settings); err != nil {
		serverError(c, "Failed to save settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
