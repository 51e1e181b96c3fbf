package autolabel

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"whatsdesk-go/internal/model"
)

// Store is the slice of the persistence layer the labeling service needs.
// Injected so tests can substitute a double.
type Store interface {
	ListActiveAutoLabels(accountID string) ([]model.Label, error)
	ListActiveClients(accountID string) ([]model.Client, error)
	ListClientLabelIDs(clientID string) (map[string]bool, error)
	ClientHistory(clientID string, now time.Time) (History, error)
	AddClientLabel(clientID, labelID string) error
	RemoveClientLabel(clientID, labelID string) error
	CreateLabelIfMissing(label *model.Label) (bool, error)
}

// Service evaluates auto label rules and applies the resulting deltas.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// UpdateClientLabels evaluates every active auto label for one client and
// reconciles the client_labels rows with the outcome.
func (s *Service) UpdateClientLabels(accountID string, client *model.Client) (Delta, error) {
	var delta Delta

	autoLabels, err := s.store.ListActiveAutoLabels(accountID)
	if err != nil {
		return delta, err
	}
	if len(autoLabels) == 0 {
		return delta, nil
	}

	now := time.Now()

	currentIDs, err := s.store.ListClientLabelIDs(client.ID)
	if err != nil {
		return delta, err
	}

	history, err := s.store.ClientHistory(client.ID, now)
	if err != nil {
		return delta, err
	}

	snapshot := ClientSnapshot{
		ID:            client.ID,
		CreatedAt:     client.CreatedAt,
		LastMessageAt: client.LastMessageAt,
	}

	delta = Evaluate(now, snapshot, history, currentIDs, autoLabels)

	for _, labelID := range delta.ToAdd {
		if err := s.store.AddClientLabel(client.ID, labelID); err != nil {
			return delta, fmt.Errorf("failed to add label %s: %w", labelID, err)
		}
	}
	for _, labelID := range delta.ToRemove {
		if err := s.store.RemoveClientLabel(client.ID, labelID); err != nil {
			return delta, fmt.Errorf("failed to remove label %s: %w", labelID, err)
		}
	}

	if !delta.Empty() {
		logrus.Infof("Updated auto labels for client %s: +%d -%d", client.ID, len(delta.ToAdd), len(delta.ToRemove))
	}

	return delta, nil
}

// RefreshAccount re-evaluates auto labels for every active client of an
// account. A failure on one client is recorded and the rest continue.
func (s *Service) RefreshAccount(accountID string) (updated int, failed int, err error) {
	clients, err := s.store.ListActiveClients(accountID)
	if err != nil {
		return 0, 0, err
	}

	for i := range clients {
		if _, err := s.UpdateClientLabels(accountID, &clients[i]); err != nil {
			logrus.Errorf("Failed to update labels for client %s: %v", clients[i].ID, err)
			failed++
			continue
		}
		updated++
	}

	return updated, failed, nil
}

// EnsureDefaultLabels creates the four well-known auto labels for an
// account if they do not exist yet. Safe to call repeatedly.
func (s *Service) EnsureDefaultLabels(accountID string) ([]model.Label, error) {
	defaults := []model.Label{
		{Name: LabelNameNew, Color: "#25D366"},
		{Name: LabelNameLastHour, Color: "#FF6B6B"},
		{Name: LabelNameFrequent, Color: "#4ECDC4"},
		{Name: LabelNameDelayedReply, Color: "#FFA500"},
	}

	var created []model.Label
	for _, def := range defaults {
		label := model.Label{
			AccountID: accountID,
			Name:      def.Name,
			Type:      model.LabelTypeAuto,
			Color:     def.Color,
			Active:    true,
		}
		inserted, err := s.store.CreateLabelIfMissing(&label)
		if err != nil {
			logrus.Errorf("Failed to create default label %q: %v", def.Name, err)
			continue
		}
		if inserted {
			created = append(created, label)
		}
	}

	return created, nil
}
