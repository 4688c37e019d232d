package repository

import (
	"errors"
	"fmt"

	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnreadLedgerRepository keeps the per-conversation unread counters and
// the per-user global aggregate consistent. Both counters move inside a
// single transaction; neither is ever updated alone.
type UnreadLedgerRepository interface {
	// IncrementOnCreate bumps the recipient's counter in the
	// conversation and their global total by one.
	IncrementOnCreate(conversationID, recipientID string) error
	// ZeroOnRead zeroes the user's counter in the conversation and
	// decrements the global total by the value the counter held.
	// Returns that previous value.
	ZeroOnRead(conversationID, userID string) (int, error)
	GetTotal(userID string) (int, error)
}

type unreadLedgerRepository struct {
	db *gorm.DB
}

// NewUnreadLedgerRepository creates a new UnreadLedgerRepository
func NewUnreadLedgerRepository(db *gorm.DB) UnreadLedgerRepository {
	return &unreadLedgerRepository{db: db}
}

// unreadColumn resolves which counter column belongs to userID
func unreadColumn(conv *domain.Conversation, userID string) (string, error) {
	switch userID {
	case conv.BuyerID:
		return "buyer_unread", nil
	case conv.SellerID:
		return "seller_unread", nil
	default:
		return "", fmt.Errorf("%w: user %s not in conversation %s",
			common.ErrInvalidParticipants, userID, conv.ID)
	}
}

func (r *unreadLedgerRepository) IncrementOnCreate(conversationID, recipientID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var conv domain.Conversation
		if err := tx.Where("id = ?", conversationID).First(&conv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrConversationNotFound
			}
			return err
		}

		col, err := unreadColumn(&conv, recipientID)
		if err != nil {
			return err
		}

		if err := tx.Model(&domain.Conversation{}).
			Where("id = ?", conversationID).
			UpdateColumn(col, gorm.Expr(col+" + 1")).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_unread": gorm.Expr("total_unread + 1"),
			}),
		}).Create(&domain.UnreadTotal{UserID: recipientID, TotalUnread: 1}).Error
	})
}

func (r *unreadLedgerRepository) ZeroOnRead(conversationID, userID string) (int, error) {
	var prev int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var conv domain.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", conversationID).First(&conv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.ErrConversationNotFound
			}
			return err
		}

		col, err := unreadColumn(&conv, userID)
		if err != nil {
			return err
		}

		prev = conv.UnreadFor(userID)
		if prev == 0 {
			return nil
		}

		if err := tx.Model(&domain.Conversation{}).
			Where("id = ?", conversationID).
			UpdateColumn(col, 0).Error; err != nil {
			return err
		}

		// Clamped so a stale aggregate never goes negative
		return tx.Model(&domain.UnreadTotal{}).
			Where("user_id = ?", userID).
			UpdateColumn("total_unread",
				gorm.Expr("CASE WHEN total_unread > ? THEN total_unread - ? ELSE 0 END", prev, prev)).Error
	})
	if err != nil {
		return 0, err
	}
	return prev, nil
}

func (r *unreadLedgerRepository) GetTotal(userID string) (int, error) {
	var total domain.UnreadTotal
	err := r.db.Where("user_id = ?", userID).First(&total).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return total.TotalUnread, nil
}
