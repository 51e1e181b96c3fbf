package provider

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
)

// VerifySignature checks a webhook signature header: base64 of the HMAC-SHA1
// of webhookURL+rawBody keyed by the shared auth token, compared in constant
// time. A mismatch must reject the request before any processing.
func VerifySignature(authToken, webhookURL, rawBody, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(webhookURL))
	mac.Write([]byte(rawBody))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ComputeSignature returns the signature the provider would send for the
// given payload. Used by tests and by the status endpoint's self-check.
func ComputeSignature(authToken, webhookURL, rawBody string) string {
	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(webhookURL))
	mac.Write([]byte(rawBody))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
