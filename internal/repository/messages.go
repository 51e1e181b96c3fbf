package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"whatsdesk-go/internal/autolabel"
	"whatsdesk-go/internal/model"
)

func (r *Repository) CreateMessage(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns the account's messages newest first, optionally
// limited to one client. An empty clientID means all clients.
func (r *Repository) ListMessages(accountID, clientID string) ([]model.Message, error) {
	query := r.db.Preload("Client").Where("account_id = ?", accountID).Order("timestamp DESC")
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}

	var messages []model.Message
	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// SearchMessages matches message content, case-insensitively.
func (r *Repository) SearchMessages(accountID, query, clientID string) ([]model.Message, error) {
	dbQuery := r.db.Preload("Client").
		Where("account_id = ? AND content LIKE ?", accountID, "%"+query+"%").
		Order("timestamp DESC")
	if clientID != "" {
		dbQuery = dbQuery.Where("client_id = ?", clientID)
	}

	var messages []model.Message
	if err := dbQuery.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	return messages, nil
}

// ListConversations returns the latest message per client, newest
// conversation first.
func (r *Repository) ListConversations(accountID string) ([]model.Conversation, error) {
	var messages []model.Message
	result := r.db.Preload("Client").
		Where("account_id = ?", accountID).
		Order("timestamp DESC").
		Find(&messages)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %w", result.Error)
	}

	seen := make(map[string]bool)
	var conversations []model.Conversation
	for _, msg := range messages {
		if seen[msg.ClientID] || msg.Client == nil {
			continue
		}
		seen[msg.ClientID] = true
		conversations = append(conversations, model.Conversation{
			ClientID:             msg.ClientID,
			ClientName:           msg.Client.Name,
			ClientPhone:          msg.Client.Phone,
			ClientStatus:         msg.Client.Status,
			LastMessage:          msg.Content,
			LastMessageAt:        msg.Timestamp,
			LastMessageDirection: msg.Direction,
		})
	}
	return conversations, nil
}

// MarkMessagesRead transitions the given messages to read.
func (r *Repository) MarkMessagesRead(accountID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	result := r.db.Model(&model.Message{}).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Update("status", model.MessageStatusRead)
	if result.Error != nil {
		return fmt.Errorf("failed to mark messages read: %w", result.Error)
	}
	return nil
}

// UpdateMessageStatusByProviderID applies a delivery status callback.
func (r *Repository) UpdateMessageStatusByProviderID(providerMessageID, status string) error {
	result := r.db.Model(&model.Message{}).
		Where("provider_message_id = ?", providerMessageID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update message status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MessageStats aggregates message counts for the dashboard.
func (r *Repository) MessageStats(accountID string) (*model.MessageStats, error) {
	stats := &model.MessageStats{}
	base := func() *gorm.DB { return r.db.Model(&model.Message{}).Where("account_id = ?", accountID) }

	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	if err := base().Where("direction = ?", model.DirectionIn).Count(&stats.Incoming).Error; err != nil {
		return nil, fmt.Errorf("failed to count incoming messages: %w", err)
	}
	if err := base().Where("direction = ?", model.DirectionOut).Count(&stats.Outgoing).Error; err != nil {
		return nil, fmt.Errorf("failed to count outgoing messages: %w", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := base().Where("timestamp >= ?", today).Count(&stats.Today).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's messages: %w", err)
	}
	if err := base().Where("timestamp >= ?", now.AddDate(0, 0, -7)).Count(&stats.ThisWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count this week's messages: %w", err)
	}
	if err := base().Where("timestamp >= ?", now.AddDate(0, -1, 0)).Count(&stats.ThisMonth).Error; err != nil {
		return nil, fmt.Errorf("failed to count this month's messages: %w", err)
	}
	if err := base().Where("status = ?", model.MessageStatusRead).Count(&stats.Read).Error; err != nil {
		return nil, fmt.Errorf("failed to count read messages: %w", err)
	}
	if err := base().Where("status = ?", model.MessageStatusDelivered).Count(&stats.Delivered).Error; err != nil {
		return nil, fmt.Errorf("failed to count delivered messages: %w", err)
	}
	if err := base().Where("status = ?", model.MessageStatusFailed).Count(&stats.Failed).Error; err != nil {
		return nil, fmt.Errorf("failed to count failed messages: %w", err)
	}

	return stats, nil
}

// ClientHistory prefetches the message history view the label evaluator
// reads, so one evaluation is based on a single consistent snapshot.
func (r *Repository) ClientHistory(clientID string, now time.Time) (autolabel.History, error) {
	var history autolabel.History

	since := now.Add(-autolabel.FrequentWindow)
	if err := r.db.Model(&model.Message{}).
		Where("client_id = ? AND timestamp >= ?", clientID, since).
		Count(&history.MessagesLast30Days).Error; err != nil {
		return history, fmt.Errorf("failed to count recent messages: %w", err)
	}

	var lastInbound model.Message
	result := r.db.Where("client_id = ? AND direction = ?", clientID, model.DirectionIn).
		Order("timestamp DESC").
		First(&lastInbound)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return history, nil
		}
		return history, fmt.Errorf("failed to fetch last inbound message: %w", result.Error)
	}
	history.LastInboundAt = &lastInbound.Timestamp

	var replies int64
	if err := r.db.Model(&model.Message{}).
		Where("client_id = ? AND direction = ? AND timestamp > ?", clientID, model.DirectionOut, lastInbound.Timestamp).
		Count(&replies).Error; err != nil {
		return history, fmt.Errorf("failed to count replies: %w", err)
	}
	history.RepliedAfterLastInbound = replies > 0

	return history, nil
}
