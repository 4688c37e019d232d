package repository

import (
	"time"

	"github.com/remercado/remercado-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(msg *domain.Message) error
	FindByConversation(conversationID string) ([]*domain.Message, error)
	MarkRead(ids []string, at time.Time) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

// FindByConversation returns the full thread ordered oldest first
func (r *messageRepository) FindByConversation(conversationID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flips the read flag on a batch of messages
func (r *messageRepository) MarkRead(ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&domain.Message{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": at,
		}).Error
}
