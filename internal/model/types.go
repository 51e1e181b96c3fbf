package model

import "time"

// ClientRequest is the create/update payload for clients.
type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// FAQRequest is the create/update payload for FAQs.
type FAQRequest struct {
	Question string   `json:"question" binding:"required"`
	Answer   string   `json:"answer" binding:"required"`
	Keywords []string `json:"keywords"`
	Active   *bool    `json:"active"`
}

// LabelRequest is the create/update payload for labels.
type LabelRequest struct {
	Name   string `json:"name" binding:"required"`
	Type   string `json:"type"`
	Color  string `json:"color"`
	Active *bool  `json:"active"`
}

// SettingsRequest is the auto-reply settings upsert payload.
type SettingsRequest struct {
	Enabled         *bool  `json:"auto_reply_enabled"`
	WelcomeMessage  string `json:"welcome_message"`
	FallbackMessage string `json:"fallback_message"`
}

// SendMessageRequest is the outbound message dispatch payload.
type SendMessageRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// Conversation summarizes the latest message exchanged with a client.
type Conversation struct {
	ClientID             string    `json:"client_id"`
	ClientName           string    `json:"client_name"`
	ClientPhone          string    `json:"client_phone"`
	ClientStatus         string    `json:"client_status"`
	LastMessage          string    `json:"last_message"`
	LastMessageAt        time.Time `json:"last_message_at"`
	LastMessageDirection string    `json:"last_message_direction"`
}

// ClientStats aggregates client counts for the dashboard.
type ClientStats struct {
	Total              int64 `json:"total"`
	Active             int64 `json:"active"`
	Archived           int64 `json:"archived"`
	NewThisMonth       int64 `json:"new_this_month"`
	WithRecentMessages int64 `json:"with_recent_messages"`
}

// MessageStats aggregates message counts for the dashboard.
type MessageStats struct {
	Total     int64 `json:"total"`
	Incoming  int64 `json:"incoming"`
	Outgoing  int64 `json:"outgoing"`
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"this_week"`
	ThisMonth int64 `json:"this_month"`
	Read      int64 `json:"read"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Details   map[string]string `json:"details,omitempty"`
}

// ErrorResponse is the common error payload for all handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
