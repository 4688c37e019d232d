package service

import (
	"context"

	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/remercado/remercado-backend/internal/repository"
	"github.com/remercado/remercado-backend/internal/ws"
	"github.com/remercado/remercado-backend/pkg/cache"
)

// UnreadService maintains unread counters: the per-conversation entry
// and the per-user global aggregate always move together.
type UnreadService interface {
	// IncrementOnCreate applies the counter bump for one created
	// message. Safe against duplicate deliveries: messageID is the
	// dedup token.
	IncrementOnCreate(conversationID, recipientID, messageID string) error
	// ZeroOnRead zeroes the user's counter in a conversation and
	// returns the value it held.
	ZeroOnRead(conversationID, userID string) (int, error)
	GetTotal(userID string) (int, error)
}

type unreadService struct {
	ledger   repository.UnreadLedgerRepository
	cache    cache.Service
	notifier Notifier
}

// NewUnreadService creates a new UnreadService. cache and notifier may
// be nil (single instance without Redis, or tests).
func NewUnreadService(ledger repository.UnreadLedgerRepository, cacheSvc cache.Service, notifier Notifier) UnreadService {
	return &unreadService{
		ledger:   ledger,
		cache:    cacheSvc,
		notifier: notifier,
	}
}

func (s *unreadService) IncrementOnCreate(conversationID, recipientID, messageID string) error {
	ctx := context.Background()

	// Duplicate trigger delivery: the Redis token was already claimed
	if s.cache != nil && messageID != "" {
		if !s.cache.Once(ctx, cache.PrefixDedup+messageID, cache.TTLDedup) {
			return nil
		}
	}

	if err := s.ledger.IncrementOnCreate(conversationID, recipientID); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateUnreadTotal(ctx, recipientID)
	}
	s.pushTotal(recipientID)
	return nil
}

func (s *unreadService) ZeroOnRead(conversationID, userID string) (int, error) {
	prev, err := s.ledger.ZeroOnRead(conversationID, userID)
	if err != nil {
		return 0, err
	}
	if prev > 0 {
		if s.cache != nil {
			s.cache.InvalidateUnreadTotal(context.Background(), userID)
		}
		s.pushTotal(userID)
	}
	return prev, nil
}

func (s *unreadService) GetTotal(userID string) (int, error) {
	ctx := context.Background()
	if s.cache != nil {
		if total, ok := s.cache.GetUnreadTotal(ctx, userID); ok {
			return total, nil
		}
	}

	total, err := s.ledger.GetTotal(userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.SetUnreadTotal(ctx, userID, total)
	}
	return total, nil
}

// pushTotal notifies the user's open connections of the fresh aggregate
func (s *unreadService) pushTotal(userID string) {
	if s.notifier == nil {
		return
	}
	total, err := s.ledger.GetTotal(userID)
	if err != nil {
		return
	}
	s.notifier.Push(userID, ws.EventUnreadCount, &domain.UnreadSummaryResponse{TotalUnread: total})
}
