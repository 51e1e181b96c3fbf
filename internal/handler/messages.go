package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/auth"
	"whatsdesk-go/internal/model"
	"whatsdesk-go/internal/provider"
)

// GetMessages returns messages for the account, optionally filtered by
// client or content search.
func (h *Handlers) GetMessages(c *gin.Context) {
	accountID := auth.AccountID(c)
	clientID := c.Query("client_id")

	var (
		messages []model.Message
		err      error
	)
	if q := c.Query("q"); q != "" {
		messages, err = h.repo.SearchMessages(accountID, q, clientID)
	} else {
		messages, err = h.repo.ListMessages(accountID, clientID)
	}
	if err != nil {
		serverError(c, "Failed to fetch messages")
		return
	}

	c.JSON(http.StatusOK, messages)
}

// GetConversations returns the latest message per client
func (h *Handlers) GetConversations(c *gin.Context) {
	conversations, err := h.repo.ListConversations(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to fetch conversations")
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// SendMessage dispatches an outbound message to a client via the provider
// and stores it.
func (h *Handlers) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Client ID and message are required")
		return
	}

	accountID := auth.AccountID(c)
	client, err := h.repo.GetClient(accountID, req.ClientID)
	if err != nil {
		serverError(c, "Failed to fetch client")
		return
	}
	if client == nil {
		notFound(c, "Client not found")
		return
	}

	account, err := h.repo.GetAccount(accountID)
	if err != nil || account == nil {
		serverError(c, "Failed to fetch account")
		return
	}
	if account.ProviderPhoneNumber == "" {
		badRequest(c, "Provider phone number not configured")
		return
	}

	creds := provider.Credentials{
		AccountSID: account.ProviderAccountSID,
		AuthToken:  account.ProviderAuthToken,
	}
	providerID, err := h.sender.SendMessage(c.Request.Context(), creds, client.Phone, req.Message, account.ProviderPhoneNumber)
	if err != nil {
		logrus.Errorf("Failed to send message to client %s: %v", client.ID, err)
		serverError(c, "Failed to send message")
		return
	}

	now := time.Now()
	message := model.Message{
		AccountID: accountID,
		ClientID:  client.ID,
		Content:   req.Message,
		Direction: model.DirectionOut,
		Timestamp: now,
		Status:    model.MessageStatusSent,
	}
	if providerID != "" {
		message.ProviderMessageID = &providerID
	}
	if err := h.repo.CreateMessage(&message); err != nil {
		// The message left the building; surface the store failure anyway
		// so the dashboard knows the log is incomplete.
		logrus.Errorf("Failed to store sent message for client %s: %v", client.ID, err)
		serverError(c, "Message sent but could not be stored")
		return
	}
	if err := h.repo.TouchClientLastMessage(client.ID, now); err != nil {
		logrus.Errorf("Failed to bump last message timestamp for client %s: %v", client.ID, err)
	}

	c.JSON(http.StatusOK, message)
}

type markReadRequest struct {
	MessageIDs []string `json:"message_ids" binding:"required"`
}

// MarkMessagesRead transitions messages to the read status
func (h *Handlers) MarkMessagesRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "message_ids is required")
		return
	}

	if err := h.repo.MarkMessagesRead(auth.AccountID(c), req.MessageIDs); err != nil {
		serverError(c, "Failed to mark messages read")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMessageStats returns aggregate message counts
func (h *Handlers) GetMessageStats(c *gin.Context) {
	stats, err := h.repo.MessageStats(auth.AccountID(c))
	if err != nil {
		serverError(c, "Failed to compute message stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
