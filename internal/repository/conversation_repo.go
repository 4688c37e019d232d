package repository

import (
	"errors"
	"time"

	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"gorm.io/gorm"
)

// ConversationRepository conversation data access interface
type ConversationRepository interface {
	Create(conv *domain.Conversation) error
	FindByID(id string) (*domain.Conversation, error)
	// FindByListingID returns every thread attached to a listing; the
	// store only supports this equality lookup, so callers match the
	// participant pair themselves.
	FindByListingID(listingID string) ([]*domain.Conversation, error)
	ListByUser(userID string) ([]*domain.Conversation, error)
	UpdateLastMessage(id string, preview string, at time.Time) error
	// DeleteWithMessages removes a conversation and every message in it
	// as one transaction (all-or-nothing).
	DeleteWithMessages(id string) error
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(conv *domain.Conversation) error {
	return r.db.Create(conv).Error
}

func (r *conversationRepository) FindByID(id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindByListingID(listingID string) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	err := r.db.Where("listing_id = ?", listingID).Find(&convs).Error
	return convs, err
}

func (r *conversationRepository) ListByUser(userID string) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	err := r.db.Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

func (r *conversationRepository) UpdateLastMessage(id string, preview string, at time.Time) error {
	return r.db.Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_message_preview": preview,
			"last_message_at":      at,
		}).Error
}

func (r *conversationRepository) DeleteWithMessages(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).
			Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).
			Delete(&domain.Conversation{}).Error
	})
}
