package autolabel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsdesk-go/internal/model"
)

// fakeStore implements Store in memory.
type fakeStore struct {
	labels       []model.Label
	clients      []model.Client
	clientLabels map[string]map[string]bool
	histories    map[string]History
	failFor      map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clientLabels: make(map[string]map[string]bool),
		histories:    make(map[string]History),
		failFor:      make(map[string]error),
	}
}

func (f *fakeStore) ListActiveAutoLabels(accountID string) ([]model.Label, error) {
	return f.labels, nil
}

func (f *fakeStore) ListActiveClients(accountID string) ([]model.Client, error) {
	return f.clients, nil
}

func (f *fakeStore) ListClientLabelIDs(clientID string) (map[string]bool, error) {
	if err := f.failFor[clientID]; err != nil {
		return nil, err
	}
	ids := make(map[string]bool)
	for id := range f.clientLabels[clientID] {
		ids[id] = true
	}
	return ids, nil
}

func (f *fakeStore) ClientHistory(clientID string, now time.Time) (History, error) {
	return f.histories[clientID], nil
}

func (f *fakeStore) AddClientLabel(clientID, labelID string) error {
	if f.clientLabels[clientID] == nil {
		f.clientLabels[clientID] = make(map[string]bool)
	}
	f.clientLabels[clientID][labelID] = true
	return nil
}

func (f *fakeStore) RemoveClientLabel(clientID, labelID string) error {
	delete(f.clientLabels[clientID], labelID)
	return nil
}

func (f *fakeStore) CreateLabelIfMissing(label *model.Label) (bool, error) {
	for _, existing := range f.labels {
		if existing.Name == label.Name && existing.Type == label.Type {
			return false, nil
		}
	}
	f.labels = append(f.labels, *label)
	return true, nil
}

func TestUpdateClientLabelsAppliesDelta(t *testing.T) {
	store := newFakeStore()
	store.labels = []model.Label{
		{ID: "l1", Name: LabelNameNew, Type: model.LabelTypeAuto, Active: true},
	}
	client := model.Client{ID: "c1", AccountID: "a1", CreatedAt: time.Now().Add(-time.Hour)}

	service := NewService(store)
	delta, err := service.UpdateClientLabels("a1", &client)
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, delta.ToAdd)
	assert.True(t, store.clientLabels["c1"]["l1"])
}

func TestUpdateClientLabelsIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.labels = []model.Label{
		{ID: "l1", Name: LabelNameNew, Type: model.LabelTypeAuto, Active: true},
		{ID: "l3", Name: LabelNameFrequent, Type: model.LabelTypeAuto, Active: true},
	}
	store.histories["c1"] = History{MessagesLast30Days: 9}
	client := model.Client{ID: "c1", AccountID: "a1", CreatedAt: time.Now().Add(-time.Hour)}

	service := NewService(store)

	first, err := service.UpdateClientLabels("a1", &client)
	require.NoError(t, err)
	assert.False(t, first.Empty())

	second, err := service.UpdateClientLabels("a1", &client)
	require.NoError(t, err)
	assert.True(t, second.Empty())
}

func TestRefreshAccountContinuesPastFailures(t *testing.T) {
	store := newFakeStore()
	store.labels = []model.Label{
		{ID: "l1", Name: LabelNameNew, Type: model.LabelTypeAuto, Active: true},
	}
	store.clients = []model.Client{
		{ID: "c1", AccountID: "a1", CreatedAt: time.Now()},
		{ID: "c2", AccountID: "a1", CreatedAt: time.Now()},
		{ID: "c3", AccountID: "a1", CreatedAt: time.Now()},
	}
	store.failFor["c2"] = errors.New("store unavailable")

	service := NewService(store)
	updated, failed, err := service.RefreshAccount("a1")
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Equal(t, 1, failed)
	assert.True(t, store.clientLabels["c1"]["l1"])
	assert.True(t, store.clientLabels["c3"]["l1"])
}

func TestEnsureDefaultLabelsIsIdempotent(t *testing.T) {
	store := newFakeStore()
	service := NewService(store)

	created, err := service.EnsureDefaultLabels("a1")
	require.NoError(t, err)
	assert.Len(t, created, 4)
	assert.Len(t, store.labels, 4)

	created, err = service.EnsureDefaultLabels("a1")
	require.NoError(t, err)
	assert.Empty(t, created)
	assert.Len(t, store.labels, 4)
}
