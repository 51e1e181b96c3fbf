package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsdesk-go/internal/autolabel"
	"whatsdesk-go/internal/config"
	"whatsdesk-go/internal/metrics"
	"whatsdesk-go/internal/model"
	"whatsdesk-go/internal/pipeline"
	"whatsdesk-go/internal/provider"
)

var testMetrics = metrics.NewMetrics()

type webhookStore struct {
	account  *model.Account
	client   *model.Client
	messages []*model.Message
}

func (s *webhookStore) GetAccountByProviderNumber(phone string) (*model.Account, error) {
	if s.account != nil && phone == s.account.ProviderPhoneNumber {
		return s.account, nil
	}
	return nil, nil
}

func (s *webhookStore) GetClientByPhone(accountID, phone string) (*model.Client, error) {
	return s.client, nil
}

func (s *webhookStore) CreateClient(client *model.Client) error {
	client.ID = "c-new"
	return nil
}

func (s *webhookStore) TouchClientLastMessage(clientID string, at time.Time) error {
	return nil
}

func (s *webhookStore) CreateMessage(message *model.Message) error {
	s.messages = append(s.messages, message)
	return nil
}

func (s *webhookStore) GetSettings(accountID string) (*model.AutoReplySettings, error) {
	return nil, nil
}

func (s *webhookStore) ListActiveFAQs(accountID string) ([]model.FAQ, error) {
	return nil, nil
}

type noopLabeler struct{}

func (noopLabeler) UpdateClientLabels(accountID string, client *model.Client) (autolabel.Delta, error) {
	return autolabel.Delta{}, nil
}

type noopSender struct{}

func (noopSender) SendMessage(ctx context.Context, creds provider.Credentials, to, body, from string) (string, error) {
	return "SM123", nil
}

func webhookTestSetup() (*Handlers, *webhookStore, *config.Config) {
	cfg := &config.Config{
		Server:   config.ServerConfig{BaseURL: "http://localhost:8080"},
		Provider: config.ProviderConfig{AuthToken: "token"},
	}
	store := &webhookStore{
		account: &model.Account{ID: "a1", ProviderPhoneNumber: "+1000"},
		client:  &model.Client{ID: "c1", AccountID: "a1", Phone: "whatsapp:+5211"},
	}
	pl := pipeline.New(store, noopLabeler{}, noopSender{}, testMetrics)
	h := NewHandlers(nil, pl, nil, noopSender{}, nil, testMetrics, cfg)
	return h, store, cfg
}

func postWebhook(h *Handlers, form url.Values, signature string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/provider", h.InboundWebhook)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/provider", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signedForm(cfg *config.Config, form url.Values) string {
	return provider.ComputeSignature(cfg.Provider.AuthToken, cfg.Server.WebhookURL(), form.Encode())
}

func TestInboundWebhookStoresMessage(t *testing.T) {
	h, store, cfg := webhookTestSetup()
	form := url.Values{
		"From":       {"whatsapp:+5211"},
		"To":         {"+1000"},
		"Body":       {"hola"},
		"MessageSid": {"SMin"},
	}

	w := postWebhook(h, form, signedForm(cfg, form))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<Response></Response>")

	require.Len(t, store.messages, 1)
	assert.Equal(t, "hola", store.messages[0].Content)
	assert.Equal(t, model.DirectionIn, store.messages[0].Direction)
}

func TestInboundWebhookRejectsBadSignature(t *testing.T) {
	h, store, _ := webhookTestSetup()
	form := url.Values{
		"From": {"whatsapp:+5211"},
		"To":   {"+1000"},
		"Body": {"hola"},
	}

	w := postWebhook(h, form, "bogus-signature")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.messages)
}

func TestInboundWebhookRejectsMissingSignature(t *testing.T) {
	h, store, _ := webhookTestSetup()
	form := url.Values{"From": {"whatsapp:+5211"}, "To": {"+1000"}}

	w := postWebhook(h, form, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, store.messages)
}

func TestInboundWebhookUnknownAccount(t *testing.T) {
	h, _, cfg := webhookTestSetup()
	form := url.Values{
		"From": {"whatsapp:+5211"},
		"To":   {"+9999"},
		"Body": {"hola"},
	}

	w := postWebhook(h, form, signedForm(cfg, form))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInboundWebhookRequiresFromAndTo(t *testing.T) {
	h, _, cfg := webhookTestSetup()
	form := url.Values{"Body": {"hola"}}

	w := postWebhook(h, form, signedForm(cfg, form))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
