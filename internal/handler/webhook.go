package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/model"
	"whatsdesk-go/internal/pipeline"
	"whatsdesk-go/internal/provider"
)

const signatureHeader = "X-Twilio-Signature"

// emptyAck is the TwiML body acknowledging receipt without queuing another
// message; the auto reply goes out through the REST API instead.
const emptyAck = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// InboundWebhook receives provider message webhooks. The signature is
// verified over the raw body before anything else runs; a mismatch is a
// security-relevant rejection.
func (h *Handlers) InboundWebhook(c *gin.Context) {
	h.metrics.WebhookReceived.Inc()

	rawBody, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader(signatureHeader)
	if !provider.VerifySignature(h.cfg.Provider.AuthToken, h.cfg.Server.WebhookURL(), string(rawBody), signature) {
		h.metrics.SignatureRejections.Inc()
		logrus.Warnf("Rejected webhook with invalid signature from %s", c.ClientIP())
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Error:   "invalid_signature",
			Message: "Webhook signature verification failed",
			Code:    http.StatusForbidden,
		})
		return
	}

	form, err := url.ParseQuery(string(rawBody))
	if err != nil {
		badRequest(c, "Malformed form body")
		return
	}

	event := pipeline.InboundEvent{
		From:              form.Get("From"),
		To:                form.Get("To"),
		Body:              form.Get("Body"),
		ProviderMessageID: form.Get("MessageSid"),
	}
	if event.From == "" || event.To == "" {
		badRequest(c, "From and To are required")
		return
	}

	state, err := h.pipeline.Process(c.Request.Context(), event)
	if err != nil {
		logrus.Errorf("Webhook processing stopped at state %s: %v", state, err)
		if errors.Is(err, pipeline.ErrAccountNotFound) {
			notFound(c, "No account for destination number")
			return
		}
		serverError(c, "Failed to process inbound message")
		return
	}

	c.Data(http.StatusOK, "text/xml", []byte(emptyAck))
}

// DeliveryStatusCallback receives delivery status updates for outbound
// messages (sent, delivered, read, failed).
func (h *Handlers) DeliveryStatusCallback(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader(signatureHeader)
	statusURL := h.cfg.Server.BaseURL + "/webhooks/provider/status"
	if !provider.VerifySignature(h.cfg.Provider.AuthToken, statusURL, string(rawBody), signature) {
		h.metrics.SignatureRejections.Inc()
		logrus.Warnf("Rejected status callback with invalid signature from %s", c.ClientIP())
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Error:   "invalid_signature",
			Message: "Webhook signature verification failed",
			Code:    http.StatusForbidden,
		})
		return
	}

	form, err := url.ParseQuery(string(rawBody))
	if err != nil {
		badRequest(c, "Malformed form body")
		return
	}

	providerMessageID := form.Get("MessageSid")
	status := form.Get("MessageStatus")
	if providerMessageID == "" || status == "" {
		badRequest(c, "MessageSid and MessageStatus are required")
		return
	}

	if err := h.repo.UpdateMessageStatusByProviderID(providerMessageID, status); err != nil {
		// Unknown sids are expected for messages sent outside this system.
		logrus.Debugf("Status callback for unknown message %s: %v", providerMessageID, err)
	}

	c.Status(http.StatusNoContent)
}

// ProviderStatus reports the webhook URL and masked provider configuration.
func (h *Handlers) ProviderStatus(c *gin.Context) {
	sid := h.cfg.Provider.AccountSID
	masked := "Not configured"
	if len(sid) >= 8 {
		masked = sid[:8] + "..."
	}

	c.JSON(http.StatusOK, gin.H{
		"webhook_url":         h.cfg.Server.WebhookURL(),
		"provider_configured": sid != "" && h.cfg.Provider.AuthToken != "",
		"phone_number":        h.cfg.Provider.PhoneNumber,
		"account_sid":         masked,
	})
}
