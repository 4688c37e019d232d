package service

import (
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/remercado/remercado-backend/internal/repository"
	"github.com/remercado/remercado-backend/internal/ws"
	"github.com/remercado/remercado-backend/pkg/logger"
)

const lockStripes = 64

// ConversationService resolves threads between a buyer and a seller.
// At most one thread exists per (listing, participant pair); the store
// only supports an equality lookup on listing_id, so find-or-create for
// the same pair is serialized through a striped lock keyed by the
// canonical pair key.
type ConversationService interface {
	ResolveOrCreate(senderID string, req *domain.StartConversationRequest) (*domain.ConversationResponse, error)
	ListForUser(userID string) ([]*domain.ConversationResponse, error)
	Delete(conversationID, userID string) error
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	msgRepo     repository.MessageRepository
	listingRepo repository.ListingRepository
	unread      UnreadService
	notifier    Notifier
	locks       [lockStripes]sync.Mutex
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	listingRepo repository.ListingRepository,
	unread UnreadService,
	notifier Notifier,
) ConversationService {
	return &conversationService{
		convRepo:    convRepo,
		msgRepo:     msgRepo,
		listingRepo: listingRepo,
		unread:      unread,
		notifier:    notifier,
	}
}

func (s *conversationService) pairLock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key)) //nolint:errcheck
	return &s.locks[h.Sum32()%lockStripes]
}

// ResolveOrCreate finds the existing thread for (listing, pair) and
// appends the message to it, or creates the thread with the message as
// its first entry. Returns the thread either way.
func (s *conversationService) ResolveOrCreate(senderID string, req *domain.StartConversationRequest) (*domain.ConversationResponse, error) {
	if req.ToUserID == "" || req.ToUserID == senderID {
		return nil, common.ErrInvalidParticipants
	}
	if req.ListingID == "" {
		return nil, fmt.Errorf("%w: listing_id is required", common.ErrInvalidInput)
	}
	body := strings.TrimSpace(req.Message)
	if body == "" {
		return nil, common.ErrEmptyBody
	}

	mu := s.pairLock(domain.PairKey(req.ListingID, senderID, req.ToUserID))
	mu.Lock()
	defer mu.Unlock()

	candidates, err := s.convRepo.FindByListingID(req.ListingID)
	if err != nil {
		return nil, err
	}
	for _, conv := range candidates {
		if conv.MatchesPair(senderID, req.ToUserID) {
			if err := s.appendMessage(conv, senderID, body); err != nil {
				return nil, err
			}
			return s.refresh(conv.ID)
		}
	}

	buyerID, sellerID := s.deriveRoles(senderID, req.ToUserID, req.ListingID)

	now := time.Now()
	conv := &domain.Conversation{
		ID:        uuid.New().String(),
		ListingID: req.ListingID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		CreatedAt: now,
	}
	if err := s.convRepo.Create(conv); err != nil {
		return nil, err
	}

	if err := s.appendMessage(conv, senderID, body); err != nil {
		return nil, err
	}
	return s.refresh(conv.ID)
}

// deriveRoles assigns buyer/seller from the listing owner. When the
// owner cannot be resolved, or is not one of the two participants, the
// supplied counterpart is treated as the seller and the anomaly is
// logged for follow-up.
func (s *conversationService) deriveRoles(senderID, toUserID, listingID string) (buyerID, sellerID string) {
	listing, err := s.listingRepo.FindByID(listingID)
	switch {
	case err != nil:
		logger.GetLogger().Warn().
			Err(err).
			Str("listing_id", listingID).
			Msg("listing owner unresolved, falling back to supplied counterpart as seller")
		return senderID, toUserID
	case listing.SellerID == senderID:
		return toUserID, senderID
	case listing.SellerID == toUserID:
		return senderID, toUserID
	default:
		logger.GetLogger().Warn().
			Str("listing_id", listingID).
			Str("owner_id", listing.SellerID).
			Msg("listing owner is not a participant, falling back to supplied counterpart as seller")
		return senderID, toUserID
	}
}

// appendMessage writes the message, touches the denormalized preview
// fields and bumps the counterpart's unread counters synchronously (the
// resolver path does not go through the async trigger).
func (s *conversationService) appendMessage(conv *domain.Conversation, senderID, body string) error {
	msg := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           body,
		SentAt:         time.Now(),
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return err
	}
	if err := s.convRepo.UpdateLastMessage(conv.ID, msg.Body, msg.SentAt); err != nil {
		return err
	}

	recipient := conv.Counterpart(senderID)
	if err := s.unread.IncrementOnCreate(conv.ID, recipient, msg.ID); err != nil {
		return err
	}

	if s.notifier != nil {
		resp := msg.ToResponse()
		s.notifier.Push(recipient, ws.EventMessageCreated, resp)
		s.notifier.Push(senderID, ws.EventMessageCreated, resp)
	}
	return nil
}

// refresh re-reads the conversation so the response carries the
// counters as the ledger left them
func (s *conversationService) refresh(conversationID string) (*domain.ConversationResponse, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		resp := conv.ToResponse()
		s.notifier.Push(conv.BuyerID, ws.EventConversationUpdated, resp)
		s.notifier.Push(conv.SellerID, ws.EventConversationUpdated, resp)
	}
	return conv.ToResponse(), nil
}

// ListForUser returns the caller's threads, most recent activity first
func (s *conversationService) ListForUser(userID string) ([]*domain.ConversationResponse, error) {
	convs, err := s.convRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	responses := make([]*domain.ConversationResponse, len(convs))
	for i, c := range convs {
		responses[i] = c.ToResponse()
	}
	return responses, nil
}

// Delete removes a conversation and every message in it. The global
// unread aggregate is left untouched for messages unread at deletion
// time; marking the thread read first avoids the drift.
func (s *conversationService) Delete(conversationID, userID string) error {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return common.ErrForbidden
	}

	if err := s.convRepo.DeleteWithMessages(conversationID); err != nil {
		return err
	}

	if s.notifier != nil {
		payload := map[string]string{"conversation_id": conversationID}
		s.notifier.Push(conv.BuyerID, ws.EventConversationDeleted, payload)
		s.notifier.Push(conv.SellerID, ws.EventConversationDeleted, payload)
	}
	return nil
}
