// Package repository provides store access keyed by account id and client id.
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"whatsdesk-go/internal/model"
)

type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAccountByProviderNumber resolves the account that owns a provider phone
// number. Used by the inbound webhook to route messages.
func (r *Repository) GetAccountByProviderNumber(phone string) (*model.Account, error) {
	var account model.Account
	result := r.db.Where("provider_phone_number = ?", phone).First(&account)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up account by provider number: %w", result.Error)
	}
	return &account, nil
}

func (r *Repository) GetAccount(id string) (*model.Account, error) {
	var account model.Account
	result := r.db.First(&account, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch account: %w", result.Error)
	}
	return &account, nil
}

// ListAccounts returns all accounts. Used by the scheduler to refresh auto
// labels tenant by tenant.
func (r *Repository) ListAccounts() ([]model.Account, error) {
	var accounts []model.Account
	result := r.db.Find(&accounts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", result.Error)
	}
	return accounts, nil
}

// Ping verifies store connectivity for health checks.
func (r *Repository) Ping() error {
	return r.db.Raw("SELECT 1").Error
}
