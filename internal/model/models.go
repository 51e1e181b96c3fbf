package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Message directions relative to the account (in = from client, out = from account).
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Client lifecycle statuses.
const (
	ClientStatusActive   = "active"
	ClientStatusArchived = "archived"
)

// Label types.
const (
	LabelTypeAuto   = "auto"
	LabelTypeManual = "manual"
)

// Delivery statuses reported by the messaging provider.
const (
	MessageStatusQueued    = "queued"
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
	MessageStatusFailed    = "failed"
)

// Account represents a business tenant owning clients, messages, FAQs and labels.
type Account struct {
	ID                  string         `json:"id" gorm:"type:char(36);primaryKey"`
	Email               string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name                string         `json:"name" gorm:"type:varchar(255)"`
	BusinessName        string         `json:"business_name" gorm:"type:varchar(255)"`
	OnboardingComplete  bool           `json:"onboarding_complete" gorm:"default:false"`
	ProviderAccountSID  string         `json:"-" gorm:"type:varchar(64)"`
	ProviderAuthToken   string         `json:"-" gorm:"type:varchar(64)"`
	ProviderPhoneNumber string         `json:"provider_phone_number" gorm:"type:varchar(32);index"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Client represents an end customer the account corresponds with.
type Client struct {
	ID            string         `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID     string         `json:"account_id" gorm:"type:char(36);not null;index"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Phone         string         `json:"phone" gorm:"type:varchar(32);not null;index"`
	Status        string         `json:"status" gorm:"type:varchar(16);not null;default:active"`
	LastMessageAt *time.Time     `json:"last_message_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Labels []Label `json:"labels,omitempty" gorm:"many2many:client_labels;"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Message is one entry in a client's append-only conversation log. Rows are
// immutable once created except for delivery status transitions.
type Message struct {
	ID                string         `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID         string         `json:"account_id" gorm:"type:char(36);not null;index"`
	ClientID          string         `json:"client_id" gorm:"type:char(36);not null;index"`
	Content           string         `json:"content" gorm:"type:text;not null"`
	Direction         string         `json:"direction" gorm:"type:varchar(8);not null;index"`
	Timestamp         time.Time      `json:"timestamp" gorm:"not null;index"`
	ProviderMessageID *string        `json:"provider_message_id" gorm:"type:varchar(64);index"`
	Status            string         `json:"status" gorm:"type:varchar(16);not null;default:delivered"`
	CreatedAt         time.Time      `json:"created_at"`
	DeletedAt         gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Label classifies clients. Auto labels are maintained by the evaluator,
// manual labels by the dashboard user.
type Label struct {
	ID        string         `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID string         `json:"account_id" gorm:"type:char(36);not null;index"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Type      string         `json:"type" gorm:"type:varchar(16);not null;default:manual"`
	Color     string         `json:"color" gorm:"type:varchar(16);default:#25D366"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (Label) TableName() string {
	return "labels"
}

func (l *Label) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ClientLabel is the client/label junction. Existence of a row is the sole
// signal that the label currently applies to the client.
type ClientLabel struct {
	ClientID   string    `json:"client_id" gorm:"type:char(36);primaryKey"`
	LabelID    string    `json:"label_id" gorm:"type:char(36);primaryKey"`
	AssignedAt time.Time `json:"assigned_at" gorm:"autoCreateTime"`
}

func (ClientLabel) TableName() string {
	return "client_labels"
}

// FAQ is a question/answer pair the matcher scores inbound messages against.
type FAQ struct {
	ID        string                     `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID string                     `json:"account_id" gorm:"type:char(36);not null;index"`
	Question  string                     `json:"question" gorm:"type:text;not null"`
	Answer    string                     `json:"answer" gorm:"type:text;not null"`
	Keywords  datatypes.JSONSlice[string] `json:"keywords"`
	Active    bool                       `json:"active" gorm:"default:true"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
	DeletedAt gorm.DeletedAt             `json:"deleted_at,omitempty" gorm:"index"`
}

func (FAQ) TableName() string {
	return "faqs"
}

func (f *FAQ) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// AutoReplySettings is the per-account auto-reply singleton.
type AutoReplySettings struct {
	ID              string    `json:"id" gorm:"type:char(36);primaryKey"`
	AccountID       string    `json:"account_id" gorm:"type:char(36);not null;uniqueIndex"`
	Enabled         bool      `json:"auto_reply_enabled" gorm:"default:true"`
	WelcomeMessage  string    `json:"welcome_message" gorm:"type:text"`
	FallbackMessage string    `json:"fallback_message" gorm:"type:text"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (AutoReplySettings) TableName() string {
	return "auto_reply_settings"
}

func (s *AutoReplySettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
