package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"whatsdesk-go/internal/auth"
	"whatsdesk-go/internal/model"
)

// GetClients returns all clients for the account, optionally filtered by a
// search query or a label.
func (h *Handlers) GetClients(c *gin.Context) {
	accountID := auth.AccountID(c)

	var (
		clients []model.Client
		err     error
	)
	switch {
	case c.Query("q") != "":
		clients, err = h.repo.SearchClients(accountID, c.Query("q"))
	case c.Query("label_id") != "":
		clients, err = h.repo.ListClientsByLabel(accountID, c.Query("label_id"))
	default:
		clients, err = h.repo.ListClients(accountID)
	}
	if err != nil {
		serverError(c, "Failed to fetch clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient returns a specific client
func (h *Handlers) GetClient(c *gin.Context) {
	client, err := h.repo.GetClient(auth.AccountID(c), c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch client")
		return
	}
	if client == nil {
		notFound(c, "Client not found")
		return
	}

	c.JSON(http.StatusOK, client)
}

// CreateClient creates a new client
func (h *Handlers) CreateClient(c *gin.Context) {
	var req model.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name and phone are required")
		return
	}

	client := model.Client{
		AccountID: auth.AccountID(c),
		Name:      req.Name,
		Phone:     req.Phone,
		Status:    model.ClientStatusActive,
	}
	if err := h.repo.CreateClient(&client); err != nil {
		serverError(c, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// UpdateClient updates a client's name and phone
func (h *Handlers) UpdateClient(c *gin.Context) {
	var req model.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name and phone are required")
		return
	}

	client, err := h.repo.GetClient(auth.AccountID(c), c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch client")
		return
	}
	if client == nil {
		notFound(c, "Client not found")
		return
	}

	client.Name = req.Name
	client.Phone = req.Phone
	if err := h.repo.SaveClient(client); err != nil {
		serverError(c, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// ArchiveClient moves a client to the archived status
func (h *Handlers) ArchiveClient(c *gin.Context) {
	h.setClientStatus(c, model.ClientStatusArchived)
}

// ActivateClient moves a client back to the active status
func (h *Handlers) ActivateClient(c *gin.Context) {
	h.setClientStatus(c, model.ClientStatusActive)
}

func (h *Handlers) setClientStatus(c *gin.Context, status string) {
	err := h.repo.SetClientStatus(auth.AccountID(c), c.Param("id"), status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			notFound(c, "Client not found")
			return
		}
		serverError(c, "Failed to update client status")
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteClient deletes a client
func (h *Handlers) DeleteClient(c *gin.Context) {
	if err := h.repo.DeleteClient(auth.AccountID(c), c.Param("id")); err != nil {
		serverError(c, "Failed to delete client")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetClientStats returns aggregate client counts
func (h *Handlers) GetClientStats(c *gin.Context) {
	stats, err := h.repo.ClientStats(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to compute client stats")
		return
	}
	h.metrics.ActiveClients.Set(float64(stats.Active))

	c.JSON(http.StatusOK, stats)
}
