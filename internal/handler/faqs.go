package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"whatsdesk-go/internal/auth"
	"whatsdesk-go/internal/model"
)

// GetFAQs returns all FAQs for the account
func (h *Handlers) GetFAQs(c *gin.Context) {
	faqs, err := h.repo.ListFAQs(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to fetch FAQs")
		return
	}

	c.JSON(http.StatusOK, faqs)
}

// CreateFAQ creates a new FAQ
func (h *Handlers) CreateFAQ(c *gin.Context) {
	var req model.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Question and answer are required")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	faq := model.FAQ{
		AccountID: auth.AccountID(c),
		Question:  strings.TrimSpace(req.Question),
		Answer:    strings.TrimSpace(req.Answer),
		Keywords:  datatypes.NewJSONSlice(req.Keywords),
		Active:    active,
	}
	if err := h.repo.CreateFAQ(&faq); err != nil {
		serverError(c, "Failed to create FAQ")
		return
	}

	c.JSON(http.StatusCreated, faq)
}

// UpdateFAQ updates an existing FAQ
func (h *Handlers) UpdateFAQ(c *gin.Context) {
	var req model.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Question and answer are required")
		return
	}

	faq, err := h.repo.GetFAQ(auth.AccountID(c), c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch FAQ")
		return
	}
	if faq == nil {
		notFound(c, "FAQ not found")
		return
	}

	faq.Question = strings.TrimSpace(req.Question)
	faq.Answer = strings.TrimSpace(req.Answer)
	faq.Keywords = datatypes.NewJSONSlice(req.Keywords)
	if req.Active != nil {
		faq.Active = *req.Active
	}
	if err := h.repo.SaveFAQ(faq); err != nil {
		serverError(c, "Failed to update FAQ")
		return
	}

	c.JSON(http.StatusOK, faq)
}

// DeleteFAQ deletes a FAQ
func (h *Handlers) DeleteFAQ(c *gin.Context) {
	accountID := auth.AccountID(c)
	faq, err := h.repo.GetFAQ(accountID, c.Param("id"))
	if err != nil {
		serverError(c, "Failed to fetch FAQ")
		return
	}
	if faq == nil {
		notFound(c, "FAQ not found")
		return
	}

	if err := h.repo.DeleteFAQ(accountID, faq.ID); err != nil {
		serverError(c, "Failed to delete FAQ")
		return
	}

	c.Status(http.StatusNoContent)
}
