package repository

import (
	"fmt"

	"gorm.io/gorm"

	"whatsdesk-go/internal/model"
)

// GetSettings returns the account's auto-reply settings, or nil when the
// singleton has not been created yet.
func (r *Repository) GetSettings(accountID string) (*model.AutoReplySettings, error) {
	var settings model.AutoReplySettings
	result := r.db.Where("account_id = ?", accountID).First(&settings)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch settings: %w", result.Error)
	}
	return &settings, nil
}

// UpsertSettings creates or updates the per-account settings singleton.
func (r *Repository) UpsertSettings(settings *model.AutoReplySettings) error {
	existing, err := r.GetSettings(settings.AccountID)
	if err != nil {
		return err
	}
	if existing != nil {
		settings.ID = existing.ID
		settings.CreatedAt = existing.CreatedAt
	}
	if err := r.db.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
