package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"whatsdesk-go/internal/autolabel"
	"whatsdesk-go/internal/metrics"
	"whatsdesk-go/internal/model"
	"whatsdesk-go/internal/provider"
)

// Prometheus collectors register globally, so all tests share one instance.
var testMetrics = metrics.NewMetrics()

type fakeStore struct {
	account  *model.Account
	client   *model.Client
	settings *model.AutoReplySettings
	faqs     []model.FAQ

	createdClients []*model.Client
	storedMessages []*model.Message
	touchedClients []string
	createMsgErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		account: &model.Account{
			ID:                  "a1",
			ProviderAccountSID:  "AC123",
			ProviderAuthToken:   "token",
			ProviderPhoneNumber: "+1000",
		},
	}
}

func (f *fakeStore) GetAccountByProviderNumber(phone string) (*model.Account, error) {
	if f.account != nil && phone == f.account.ProviderPhoneNumber {
		return f.account, nil
	}
	return nil, nil
}

func (f *fakeStore) GetClientByPhone(accountID, phone string) (*model.Client, error) {
	return f.client, nil
}

func (f *fakeStore) CreateClient(client *model.Client) error {
	client.ID = "c-new"
	f.createdClients = append(f.createdClients, client)
	return nil
}

func (f *fakeStore) TouchClientLastMessage(clientID string, at time.Time) error {
	f.touchedClients = append(f.touchedClients, clientID)
	return nil
}

func (f *fakeStore) CreateMessage(message *model.Message) error {
	if f.createMsgErr != nil {
		return f.createMsgErr
	}
	f.storedMessages = append(f.storedMessages, message)
	return nil
}

func (f *fakeStore) GetSettings(accountID string) (*model.AutoReplySettings, error) {
	return f.settings, nil
}

func (f *fakeStore) ListActiveFAQs(accountID string) ([]model.FAQ, error) {
	return f.faqs, nil
}

type fakeLabeler struct {
	delta autolabel.Delta
	err   error
	calls int
}

func (f *fakeLabeler) UpdateClientLabels(accountID string, client *model.Client) (autolabel.Delta, error) {
	f.calls++
	return f.delta, f.err
}

type fakeSender struct {
	sent []string // bodies
	to   []string
	err  error
}

func (f *fakeSender) SendMessage(ctx context.Context, creds provider.Credentials, to, body, from string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, body)
	f.to = append(f.to, to)
	return "SM123", nil
}

func existingClient() *model.Client {
	return &model.Client{
		ID:        "c1",
		AccountID: "a1",
		Name:      "Ana",
		Phone:     "whatsapp:+5211",
		Status:    model.ClientStatusActive,
	}
}

func enabledSettings() *model.AutoReplySettings {
	return &model.AutoReplySettings{
		AccountID:       "a1",
		Enabled:         true,
		WelcomeMessage:  "Bienvenido!",
		FallbackMessage: "No entendimos tu mensaje.",
	}
}

func event() InboundEvent {
	return InboundEvent{
		From:              "whatsapp:+5211",
		To:                "+1000",
		Body:              "What are your hours?",
		ProviderMessageID: "SMin",
	}
}

func TestProcessStoresInboundMessage(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	pl := New(store, &fakeLabeler{}, &fakeSender{}, testMetrics)

	state, err := pl.Process(context.Background(), event())
	require.NoError(t, err)
	assert.Equal(t, StateAcknowledged, state)

	require.Len(t, store.storedMessages, 1)
	msg := store.storedMessages[0]
	assert.Equal(t, model.DirectionIn, msg.Direction)
	assert.Equal(t, "What are your hours?", msg.Content)
	require.NotNil(t, msg.ProviderMessageID)
	assert.Equal(t, "SMin", *msg.ProviderMessageID)
	assert.Contains(t, store.touchedClients, "c1")
}

func TestProcessUnknownDestinationNumber(t *testing.T) {
	store := newFakeStore()
	pl := New(store, &fakeLabeler{}, &fakeSender{}, testMetrics)

	evt := event()
	evt.To = "+9999"
	_, err := pl.Process(context.Background(), evt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAccountNotFound))
	assert.Empty(t, store.storedMessages)
}

func TestProcessCreatesClientOnFirstContact(t *testing.T) {
	store := newFakeStore()
	store.settings = enabledSettings()
	sender := &fakeSender{}
	pl := New(store, &fakeLabeler{}, sender, testMetrics)

	state, err := pl.Process(context.Background(), event())
	require.NoError(t, err)
	assert.Equal(t, StateAcknowledged, state)

	require.Len(t, store.createdClients, 1)
	created := store.createdClients[0]
	assert.Equal(t, "whatsapp:+5211", created.Phone)
	assert.Equal(t, model.ClientStatusActive, created.Status)

	// First contact gets the welcome message, not an FAQ answer.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Bienvenido!", sender.sent[0])
}

func TestProcessAutoReplyDisabled(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	store.settings = &model.AutoReplySettings{AccountID: "a1", Enabled: false}
	store.faqs = []model.FAQ{
		{Question: "what are your hours?", Answer: "9-5", Active: true},
	}
	sender := &fakeSender{}
	pl := New(store, &fakeLabeler{}, sender, testMetrics)

	state, err := pl.Process(context.Background(), event())
	require.NoError(t, err)
	assert.Equal(t, StateAcknowledged, state)

	// Inbound message is stored, but nothing goes out.
	assert.Len(t, store.storedMessages, 1)
	assert.Empty(t, sender.sent)
}

func TestProcessFAQAnswer(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	store.settings = enabledSettings()
	store.faqs = []model.FAQ{
		{
			Question: "What are your hours?",
			Answer:   "We open 9-5.",
			Keywords: datatypes.NewJSONSlice([]string{"hours"}),
			Active:   true,
		},
	}
	sender := &fakeSender{}
	pl := New(store, &fakeLabeler{}, sender, testMetrics)

	_, err := pl.Process(context.Background(), event())
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "We open 9-5.", sender.sent[0])
	assert.Equal(t, "whatsapp:+5211", sender.to[0])

	// Outbound reply is stored too.
	require.Len(t, store.storedMessages, 2)
	assert.Equal(t, model.DirectionOut, store.storedMessages[1].Direction)
	require.NotNil(t, store.storedMessages[1].ProviderMessageID)
	assert.Equal(t, "SM123", *store.storedMessages[1].ProviderMessageID)
}

func TestProcessFallbackMessage(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	store.settings = enabledSettings()
	sender := &fakeSender{}
	pl := New(store, &fakeLabeler{}, sender, testMetrics)

	evt := event()
	evt.Body = "something with no match"
	_, err := pl.Process(context.Background(), evt)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "No entendimos tu mensaje.", sender.sent[0])
}

func TestProcessDefaultReplyWithoutFallback(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	store.settings = &model.AutoReplySettings{AccountID: "a1", Enabled: true}
	sender := &fakeSender{}
	pl := New(store, &fakeLabeler{}, sender, testMetrics)

	evt := event()
	evt.Body = "no match here"
	_, err := pl.Process(context.Background(), evt)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, DefaultReply, sender.sent[0])
}

func TestProcessLabelingFailureStillAcknowledges(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	labeler := &fakeLabeler{err: errors.New("label store down")}
	pl := New(store, labeler, &fakeSender{}, testMetrics)

	state, err := pl.Process(context.Background(), event())
	require.NoError(t, err)
	assert.Equal(t, StateAcknowledged, state)
	assert.Equal(t, 1, labeler.calls)
	assert.Len(t, store.storedMessages, 1)
}

func TestProcessReplyFailureStillAcknowledges(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	store.settings = enabledSettings()
	sender := &fakeSender{err: errors.New("provider 503")}
	pl := New(store, &fakeLabeler{}, sender, testMetrics)

	state, err := pl.Process(context.Background(), event())
	require.NoError(t, err)
	assert.Equal(t, StateAcknowledged, state)

	// Only the inbound message made it; no outbound stored.
	assert.Len(t, store.storedMessages, 1)
}

func TestProcessStoreFailureIsTerminal(t *testing.T) {
	store := newFakeStore()
	store.client = existingClient()
	store.createMsgErr = errors.New("db gone")
	sender := &fakeSender{}
	pl := New(store, &fakeLabeler{}, sender, testMetrics)

	_, err := pl.Process(context.Background(), event())
	require.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "received", StateReceived.String())
	assert.Equal(t, "acknowledged", StateAcknowledged.String())
	assert.Equal(t, "unknown", State(99).String())
}
