package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"whatsdesk-go/internal/model"
)

// ListClients returns the account's clients with labels preloaded, most
// recently contacted first.
func (r *Repository) ListClients(accountID string) ([]model.Client, error) {
	var clients []model.Client
	result := r.db.Preload("Labels").
		Where("account_id = ?", accountID).
		Order("last_message_at IS NULL, last_message_at DESC").
		Find(&clients)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list clients: %w", result.Error)
	}
	return clients, nil
}

// ListActiveClients returns the account's active clients without preloads,
// for batch label evaluation.
func (r *Repository) ListActiveClients(accountID string) ([]model.Client, error) {
	var clients []model.Client
	result := r.db.Where("account_id = ? AND status = ?", accountID, model.ClientStatusActive).Find(&clients)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active clients: %w", result.Error)
	}
	return clients, nil
}

func (r *Repository) GetClient(accountID, id string) (*model.Client, error) {
	var client model.Client
	result := r.db.Preload("Labels").Where("account_id = ?", accountID).First(&client, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch client: %w", result.Error)
	}
	return &client, nil
}

func (r *Repository) GetClientByPhone(accountID, phone string) (*model.Client, error) {
	var client model.Client
	result := r.db.Where("account_id = ? AND phone = ?", accountID, phone).First(&client)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch client by phone: %w", result.Error)
	}
	return &client, nil
}

func (r *Repository) CreateClient(client *model.Client) error {
	if err := r.db.Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *Repository) SaveClient(client *model.Client) error {
	if err := r.db.Save(client).Error; err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

// SetClientStatus archives or activates a client.
func (r *Repository) SetClientStatus(accountID, id, status string) error {
	result := r.db.Model(&model.Client{}).
		Where("account_id = ? AND id = ?", accountID, id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to set client status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) DeleteClient(accountID, id string) error {
	if err := r.db.Where("account_id = ?", accountID).Delete(&model.Client{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

// TouchClientLastMessage bumps the client's last message timestamp.
func (r *Repository) TouchClientLastMessage(clientID string, at time.Time) error {
	if err := r.db.Model(&model.Client{}).Where("id = ?", clientID).Update("last_message_at", at).Error; err != nil {
		return fmt.Errorf("failed to touch client last message: %w", err)
	}
	return nil
}

// SearchClients matches name or phone, case-insensitively.
func (r *Repository) SearchClients(accountID, query string) ([]model.Client, error) {
	var clients []model.Client
	pattern := "%" + query + "%"
	result := r.db.Preload("Labels").
		Where("account_id = ? AND (name LIKE ? OR phone LIKE ?)", accountID, pattern, pattern).
		Order("last_message_at IS NULL, last_message_at DESC").
		Find(&clients)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search clients: %w", result.Error)
	}
	return clients, nil
}

// ListClientsByLabel returns clients currently carrying a label.
func (r *Repository) ListClientsByLabel(accountID, labelID string) ([]model.Client, error) {
	var clients []model.Client
	result := r.db.Preload("Labels").
		Joins("JOIN client_labels ON client_labels.client_id = clients.id").
		Where("clients.account_id = ? AND client_labels.label_id = ?", accountID, labelID).
		Order("last_message_at IS NULL, last_message_at DESC").
		Find(&clients)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list clients by label: %w", result.Error)
	}
	return clients, nil
}

// ClientStats aggregates client counts for the dashboard.
func (r *Repository) ClientStats(accountID string) (*model.ClientStats, error) {
	stats := &model.ClientStats{}
	base := func() *gorm.DB { return r.db.Model(&model.Client{}).Where("account_id = ?", accountID) }

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	if err := base().Where("status = ?", model.ClientStatusActive).Count(&stats.Active).Error; err != nil {
		return nil, fmt.Errorf("failed to count active clients: %w", err)
	}
	if err := base().Where("status = ?", model.ClientStatusArchived).Count(&stats.Archived).Error; err != nil {
		return nil, fmt.Errorf("failed to count archived clients: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := base().Where("created_at >= ?", monthStart).Count(&stats.NewThisMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to count new clients: %w", err)
	}
	weekAgo := now.AddDate(0, 0, -7)
	if err := base().Where("last_message_at > ?", weekAgo).Count(&stats.WithRecentMessages).Error; err != nil {
		return nil, fmt.Errorf("failed to count recently messaged clients: %w", err)
	}

	return stats, nil
}
