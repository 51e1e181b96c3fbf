package repository

import (
	"fmt"

	"gorm.io/gorm"

	"whatsdesk-go/internal/model"
)

func (r *Repository) ListLabels(accountID string) ([]model.Label, error) {
	var labels []model.Label
	result := r.db.Where("account_id = ?", accountID).Order("created_at").Find(&labels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list labels: %w", result.Error)
	}
	return labels, nil
}

// ListActiveAutoLabels returns the account's active auto labels, the
// evaluator's rule set input.
func (r *Repository) ListActiveAutoLabels(accountID string) ([]model.Label, error) {
	var labels []model.Label
	result := r.db.Where("account_id = ? AND type = ? AND active = ?", accountID, model.LabelTypeAuto, true).
		Order("created_at").
		Find(&labels)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list auto labels: %w", result.Error)
	}
	return labels, nil
}

func (r *Repository) GetLabel(accountID, id string) (*model.Label, error) {
	var label model.Label
	result := r.db.Where("account_id = ?", accountID).First(&label, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch label: %w", result.Error)
	}
	return &label, nil
}

func (r *Repository) CreateLabel(label *model.Label) error {
	if err := r.db.Create(label).Error; err != nil {
		return fmt.Errorf("failed to create label: %w", err)
	}
	return nil
}

func (r *Repository) SaveLabel(label *model.Label) error {
	if err := r.db.Save(label).Error; err != nil {
		return fmt.Errorf("failed to update label: %w", err)
	}
	return nil
}

func (r *Repository) DeleteLabel(accountID, id string) error {
	if err := r.db.Where("client_labels.label_id = ?", id).Delete(&model.ClientLabel{}).Error; err != nil {
		return fmt.Errorf("failed to detach label from clients: %w", err)
	}
	if err := r.db.Where("account_id = ?", accountID).Delete(&model.Label{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}
	return nil
}

// ListClientLabelIDs returns the ids of labels currently attached to a
// client, as a set.
func (r *Repository) ListClientLabelIDs(clientID string) (map[string]bool, error) {
	var rows []model.ClientLabel
	result := r.db.Where("client_id = ?", clientID).Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list client labels: %w", result.Error)
	}

	ids := make(map[string]bool, len(rows))
	for _, row := range rows {
		ids[row.LabelID] = true
	}
	return ids, nil
}

func (r *Repository) AddClientLabel(clientID, labelID string) error {
	row := model.ClientLabel{ClientID: clientID, LabelID: labelID}
	if err := r.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to attach label: %w", err)
	}
	return nil
}

func (r *Repository) RemoveClientLabel(clientID, labelID string) error {
	if err := r.db.Where("client_id = ? AND label_id = ?", clientID, labelID).Delete(&model.ClientLabel{}).Error; err != nil {
		return fmt.Errorf("failed to detach label: %w", err)
	}
	return nil
}

// CreateLabelIfMissing inserts a label unless one with the same name and
// type already exists for the account. Used for default auto label
// bootstrap, which must be idempotent.
func (r *Repository) CreateLabelIfMissing(label *model.Label) (bool, error) {
	var existing model.Label
	result := r.db.Where("account_id = ? AND name = ? AND type = ?", label.AccountID, label.Name, label.Type).
		First(&existing)
	if result.Error == nil {
		return false, nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return false, fmt.Errorf("failed to check for existing label: %w", result.Error)
	}
	if err := r.db.Create(label).Error; err != nil {
		return false, fmt.Errorf("failed to create label: %w", err)
	}
	return true, nil
}
