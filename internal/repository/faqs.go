package repository

import (
	"fmt"

	"gorm.io/gorm"

	"whatsdesk-go/internal/model"
)

func (r *Repository) ListFAQs(accountID string) ([]model.FAQ, error) {
	var faqs []model.FAQ
	result := r.db.Where("account_id = ?", accountID).Order("created_at DESC").Find(&faqs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list FAQs: %w", result.Error)
	}
	return faqs, nil
}

// ListActiveFAQs returns the account's active FAQs in creation order. The
// matcher keeps the first FAQ on tied scores, so this ordering is part of
// the matching contract.
func (r *Repository) ListActiveFAQs(accountID string) ([]model.FAQ, error) {
	var faqs []model.FAQ
	result := r.db.Where("account_id = ? AND active = ?", accountID, true).Order("created_at").Find(&faqs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active FAQs: %w", result.Error)
	}
	return faqs, nil
}

func (r *Repository) GetFAQ(accountID, id string) (*model.FAQ, error) {
	var faq model.FAQ
	result := r.db.Where("account_id = ?", accountID).First(&faq, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch FAQ: %w", result.Error)
	}
	return &faq, nil
}

func (r *Repository) CreateFAQ(faq *model.FAQ) error {
	if err := r.db.Create(faq).Error; err != nil {
		return fmt.Errorf("failed to create FAQ: %w", err)
	}
	return nil
}

func (r *Repository) SaveFAQ(faq *model.FAQ) error {
	if err := r.db.Save(faq).Error; err != nil {
		return fmt.Errorf("failed to update FAQ: %w", err)
	}
	return nil
}

func (r *Repository) DeleteFAQ(accountID, id string) error {
	if err := r.db.Where("account_id = ?", accountID).Delete(&model.FAQ{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete FAQ: %w", err)
	}
	return nil
}
