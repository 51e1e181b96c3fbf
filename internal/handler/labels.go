package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whatsdesk-go/internal/auth"
	"whatsdesk-go/internal/model"
)

// GetLabels returns all labels for the account
func (h *Handlers) GetLabels(c *gin.Context) {
	labels, err := h.repo.ListLabels(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to fetch labels")
		return
	}

	c.JSON(http.StatusOK, labels)
}

// CreateLabel creates a new label. Labels created here default to manual;
// the four well-known auto labels come from account bootstrap.
func (h *Handlers) CreateLabel(c *gin.Context) {
	var req model.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name is required")
		return
	}

	labelType := req.Type
	if labelType == "" {
		labelType = model.LabelTypeManual
	}
	if labelType != model.LabelTypeManual && labelType != model.LabelTypeAuto {
		badRequest(c, "Type must be auto or manual")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	label := model.Label{
		AccountID: auth.AccountID(c),
		Name:      req.Name,
		Type:      labelType,
		Color:     req.Color,
		Active:    active,
	}
	if err := h.repo.CreateLabel(&label); err != nil {
		serverError(c, "Failed to create label")
		return
	}

	c.JSON(http.StatusCreated, label)
}

// UpdateLabel updates a label's name, color and active flag
func (h *Handlers) UpdateLabel(c *gin.Context) {
	var req model.LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name is required")
		return
	}

	label, err := h.repo.GetLabel(auth.AccountID(c), c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch label")
		return
	}
	if label == nil {
		notFound(c, "Label not found")
		return
	}

	label.Name = req.Name
	if req.Color != "" {
		label.Color = req.Color
	}
	if req.Active != nil {
		label.Active = *req.Active
	}
	if err := h.repo.SaveLabel(label); err != nil {
		serverError(c, "Failed to update label")
		return
	}

	c.JSON(http.StatusOK, label)
}

// DeleteLabel deletes a label and its client associations
func (h *Handlers) DeleteLabel(c *gin.Context) {
	accountID := auth.AccountID(c)
	label, err := h.repo.GetLabel(accountID, c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch label")
		return
	}
	if label == nil {
		notFound(c, "Label not found")
		return
	}

	if err := h.repo.DeleteLabel(accountID, label.ID); err != nil {
		serverError(c, "Failed to delete label")
		return
	}

	c.Status(http.StatusNoContent)
}

// AssignLabel attaches a label to a client manually
func (h *Handlers) AssignLabel(c *gin.Context) {
	accountID := auth.AccountID(c)

	client, err := h.repo.GetClient(accountID, c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch client")
		return
	}
	if client == nil {
		notFound(c, "Client not found")
		return
	}

	label, err := h.repo.GetLabel(accountID, c.Param("labelId"))
	if err != nil {
		serverError(c, "Failed to fetch label")
		return
	}
	if label == nil {
		notFound(c, "Label not found")
		return
	}

	current, err := h.repo.ListClientLabelIDs(client.ID)
	if err != nil {
		serverError(c, "Failed to fetch client labels")
		return
	}
	if !current[label.ID] {
		if err := h.repo.AddClientLabel(client.ID, label.ID); err != nil {
			serverError(c, "Failed to assign label")
			return
		}
	}

	c.Status(http.StatusNoContent)
}

// UnassignLabel detaches a label from a client
func (h *Handlers) UnassignLabel(c *gin.Context) {
	accountID := auth.AccountID(c)

	client, err := h.repo.GetClient(accountID, c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch client")
		return
	}
	if client == nil {
		notFound(c, "Client not found")
		return
	}

	if err := h.repo.RemoveClientLabel(client.ID, c.Param("labelId")); err != nil {
		serverError(c, "Failed to unassign label")
		return
	}

	c.Status(http.StatusNoContent)
}

// RefreshLabels re-evaluates auto labels for every active client of the
// account.
func (h *Handlers) RefreshLabels(c *gin.Context) {
	updated, failed, err := h.labels.RefreshAccount(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to refresh labels")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": updated,
		"failed":  failed,
	})
}

// BootstrapLabels creates the default auto labels for the account if missing
func (h *Handlers) BootstrapLabels(c *gin.Context) {
	created, err := h.labels.EnsureDefaultLabels(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to create default labels")
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": len(created)})
}
