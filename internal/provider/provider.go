// Package provider talks to the Twilio-style messaging API: outbound sends
// and inbound webhook signature verification.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/config"
)

// Client sends messages through the provider's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
}

// Credentials are per-account API credentials. Accounts without stored
// credentials fall back to the service-level ones from config.
type Credentials struct {
	AccountSID string
	AuthToken  string
}

func NewClient(cfg *config.ProviderConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
	}
}

type sendResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SendMessage dispatches a message and returns the provider message id.
// Fire-and-forget-with-result: failures are reported, never retried here.
func (c *Client) SendMessage(ctx context.Context, creds Credentials, to, body, from string) (string, error) {
	sid := creds.AccountSID
	token := creds.AuthToken
	if sid == "" || token == "" {
		sid = c.accountSID
		token = c.authToken
	}

	form := url.Values{}
	form.Set("To", ensureChannelPrefix(to))
	form.Set("From", ensureChannelPrefix(from))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, sid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(sid, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call provider API: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var parsed sendResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode provider response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("provider rejected message (%d): %s", resp.StatusCode, parsed.Message)
	}

	logrus.Infof("Message dispatched via provider, sid=%s status=%s", parsed.SID, parsed.Status)
	return parsed.SID, nil
}

// ensureChannelPrefix adds the whatsapp: channel prefix when absent. The
// provider uses the same prefix on webhook From/To fields, so numbers stored
// from inbound traffic already carry it.
func ensureChannelPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
