// Package pipeline orchestrates inbound message events: store, label, reply,
// acknowledge.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/autolabel"
	"whatsdesk-go/internal/matcher"
	"whatsdesk-go/internal/metrics"
	"whatsdesk-go/internal/model"
	"whatsdesk-go/internal/provider"
)

// DefaultReply is sent when no FAQ matches and the account has no fallback
// message configured.
const DefaultReply = "Gracias por tu mensaje. Te responderemos pronto."

// ErrAccountNotFound means no account owns the webhook's destination number.
var ErrAccountNotFound = errors.New("no account configured for destination number")

// State tracks how far an inbound event got through the pipeline.
type State int

const (
	StateReceived State = iota
	StateVerified
	StateStored
	StateLabeled
	StateReplied
	StateAcknowledged
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateVerified:
		return "verified"
	case StateStored:
		return "stored"
	case StateLabeled:
		return "labeled"
	case StateReplied:
		return "replied"
	case StateAcknowledged:
		return "acknowledged"
	default:
		return "unknown"
	}
}

// InboundEvent is one verified webhook delivery.
type InboundEvent struct {
	From              string
	To                string
	Body              string
	ProviderMessageID string
}

// Store is the slice of the persistence layer the pipeline needs.
type Store interface {
	GetAccountByProviderNumber(phone string) (*model.Account, error)
	GetClientByPhone(accountID, phone string) (*model.Client, error)
	CreateClient(client *model.Client) error
	TouchClientLastMessage(clientID string, at time.Time) error
	CreateMessage(message *model.Message) error
	GetSettings(accountID string) (*model.AutoReplySettings, error)
	ListActiveFAQs(accountID string) ([]model.FAQ, error)
}

// Labeler re-evaluates a client's auto labels.
type Labeler interface {
	UpdateClientLabels(accountID string, client *model.Client) (autolabel.Delta, error)
}

// Sender dispatches outbound messages through the provider.
type Sender interface {
	SendMessage(ctx context.Context, creds provider.Credentials, to, body, from string) (string, error)
}

// Pipeline processes inbound events one at a time, start to finish.
type Pipeline struct {
	store   Store
	labeler Labeler
	sender  Sender
	metrics *metrics.Metrics
}

func New(store Store, labeler Labeler, sender Sender, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		store:   store,
		labeler: labeler,
		sender:  sender,
		metrics: m,
	}
}

// Process runs a verified inbound event through the pipeline and returns the
// state reached. Failures before StateStored are terminal; labeling and
// auto-reply failures are logged and swallowed so that receipt of the
// message is always acknowledged.
func (p *Pipeline) Process(ctx context.Context, event InboundEvent) (State, error) {
	start := time.Now()
	defer func() {
		p.metrics.ProcessingTime.Observe(time.Since(start).Seconds())
	}()

	state := StateVerified

	account, err := p.store.GetAccountByProviderNumber(event.To)
	if err != nil {
		return state, fmt.Errorf("account lookup failed: %w", err)
	}
	if account == nil {
		return state, fmt.Errorf("%w: %s", ErrAccountNotFound, event.To)
	}

	client, isNewClient, err := p.resolveClient(account.ID, event.From)
	if err != nil {
		return state, err
	}

	now := time.Now()
	message := &model.Message{
		AccountID: account.ID,
		ClientID:  client.ID,
		Content:   event.Body,
		Direction: model.DirectionIn,
		Timestamp: now,
		Status:    model.MessageStatusDelivered,
	}
	if event.ProviderMessageID != "" {
		message.ProviderMessageID = &event.ProviderMessageID
	}
	if err := p.store.CreateMessage(message); err != nil {
		return state, fmt.Errorf("failed to store inbound message: %w", err)
	}
	p.metrics.MessagesStored.Inc()

	if err := p.store.TouchClientLastMessage(client.ID, now); err != nil {
		logrus.Errorf("Failed to bump last message timestamp for client %s: %v", client.ID, err)
	}
	client.LastMessageAt = &now
	state = StateStored

	// Best effort from here on: a labeling or reply failure never blocks
	// acknowledging the inbound message.
	delta, err := p.labeler.UpdateClientLabels(account.ID, client)
	if err != nil {
		logrus.Errorf("Auto labeling failed for client %s: %v", client.ID, err)
	} else {
		p.metrics.LabelsAdded.Add(float64(len(delta.ToAdd)))
		p.metrics.LabelsRemoved.Add(float64(len(delta.ToRemove)))
		state = StateLabeled
	}

	if err := p.autoReply(ctx, account, client, isNewClient, event); err != nil {
		logrus.Errorf("Auto reply failed for client %s: %v", client.ID, err)
		p.metrics.AutoReplyFailures.Inc()
	} else {
		state = StateReplied
	}

	return StateAcknowledged, nil
}

// resolveClient finds the sender's client record, creating one on first
// contact.
func (p *Pipeline) resolveClient(accountID, phone string) (*model.Client, bool, error) {
	client, err := p.store.GetClientByPhone(accountID, phone)
	if err != nil {
		return nil, false, fmt.Errorf("client lookup failed: %w", err)
	}
	if client != nil {
		return client, false, nil
	}

	client = &model.Client{
		AccountID: accountID,
		Name:      phone,
		Phone:     phone,
		Status:    model.ClientStatusActive,
	}
	if err := p.store.CreateClient(client); err != nil {
		return nil, false, fmt.Errorf("failed to create client: %w", err)
	}

	logrus.Infof("Onboarded new client %s for account %s", client.ID, accountID)
	return client, true, nil
}

// autoReply picks and dispatches a reply. When auto reply is disabled the
// matcher is never invoked; only storage of the inbound message happens.
func (p *Pipeline) autoReply(ctx context.Context, account *model.Account, client *model.Client, isNewClient bool, event InboundEvent) error {
	settings, err := p.store.GetSettings(account.ID)
	if err != nil {
		return fmt.Errorf("failed to load auto reply settings: %w", err)
	}
	if settings == nil || !settings.Enabled {
		logrus.Debugf("Auto reply disabled for account %s", account.ID)
		return nil
	}

	var reply string
	if isNewClient && settings.WelcomeMessage != "" {
		reply = settings.WelcomeMessage
	} else {
		faqs, err := p.store.ListActiveFAQs(account.ID)
		if err != nil {
			return fmt.Errorf("failed to load FAQs: %w", err)
		}

		result := matcher.Match(event.Body, faqs)
		if result.Matched() {
			p.metrics.FAQMatches.Inc()
			reply = result.Answer
		} else if settings.FallbackMessage != "" {
			reply = settings.FallbackMessage
		} else {
			reply = DefaultReply
		}
	}

	creds := provider.Credentials{
		AccountSID: account.ProviderAccountSID,
		AuthToken:  account.ProviderAuthToken,
	}
	providerID, err := p.sender.SendMessage(ctx, creds, event.From, reply, event.To)
	if err != nil {
		return fmt.Errorf("failed to send auto reply: %w", err)
	}
	p.metrics.AutoRepliesSent.Inc()

	now := time.Now()
	outbound := &model.Message{
		AccountID: account.ID,
		ClientID:  client.ID,
		Content:   reply,
		Direction: model.DirectionOut,
		Timestamp: now,
		Status:    model.MessageStatusSent,
	}
	if providerID != "" {
		outbound.ProviderMessageID = &providerID
	}
	if err := p.store.CreateMessage(outbound); err != nil {
		// Reply already left the building; record the store failure only.
		logrus.Errorf("Failed to store auto reply for client %s: %v", client.ID, err)
		return nil
	}
	if err := p.store.TouchClientLastMessage(client.ID, now); err != nil {
		logrus.Errorf("Failed to bump last message timestamp for client %s: %v", client.ID, err)
	}

	return nil
}
