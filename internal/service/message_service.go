package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/remercado/remercado-backend/internal/events"
	"github.com/remercado/remercado-backend/internal/repository"
	"github.com/remercado/remercado-backend/internal/ws"
)

// MessageService business logic for the message log of existing threads
type MessageService interface {
	Send(conversationID, senderID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error)
	ListForConversation(conversationID, userID string) ([]*domain.MessageResponse, error)
	// MarkRead flips every unread incoming message for the user and
	// zeroes the matching counters.
	MarkRead(conversationID, userID string) error
}

type messageService struct {
	msgRepo  repository.MessageRepository
	convRepo repository.ConversationRepository
	unread   UnreadService
	queue    events.Queue
	notifier Notifier
}

// NewMessageService creates a new MessageService
func NewMessageService(
	msgRepo repository.MessageRepository,
	convRepo repository.ConversationRepository,
	unread UnreadService,
	queue events.Queue,
	notifier Notifier,
) MessageService {
	return &messageService{
		msgRepo:  msgRepo,
		convRepo: convRepo,
		unread:   unread,
		queue:    queue,
		notifier: notifier,
	}
}

// Send appends a message to an existing conversation. The append and
// the preview touch are two independent writes; the recipient's unread
// increment happens asynchronously when the trigger consumes the
// MessageCreated event. A failed call is retried whole by the client,
// which at worst duplicates the message entry.
func (s *messageService) Send(conversationID, senderID string, req *domain.SendMessageRequest) (*domain.MessageResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, common.ErrEmptyBody
	}

	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(senderID) {
		return nil, common.ErrForbidden
	}

	msg := &domain.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		SentAt:         time.Now(),
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, err
	}

	if err := s.convRepo.UpdateLastMessage(conversationID, msg.Body, msg.SentAt); err != nil {
		return nil, err
	}

	recipient := conv.Counterpart(senderID)
	if err := s.queue.Publish(events.MessageCreated{
		MessageID:      msg.ID,
		ConversationID: conversationID,
		SenderID:       senderID,
		RecipientID:    recipient,
		SentAt:         msg.SentAt,
	}); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		resp := msg.ToResponse()
		s.notifier.Push(recipient, ws.EventMessageCreated, resp)
		s.notifier.Push(senderID, ws.EventMessageCreated, resp)
	}

	return msg.ToResponse(), nil
}

// ListForConversation returns the thread oldest first
func (s *messageService) ListForConversation(conversationID, userID string) ([]*domain.MessageResponse, error) {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, common.ErrForbidden
	}

	messages, err := s.msgRepo.FindByConversation(conversationID)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = m.ToResponse()
	}
	return responses, nil
}

// MarkRead reconciles read state for one user in one conversation: the
// unread incoming messages get their read flag flipped, then the
// counter pair is zeroed in a single transaction. The store has no
// unread filter, so the thread is scanned here. No-op when nothing is
// unread.
func (s *messageService) MarkRead(conversationID, userID string) error {
	conv, err := s.convRepo.FindByID(conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return common.ErrForbidden
	}

	messages, err := s.msgRepo.FindByConversation(conversationID)
	if err != nil {
		return err
	}

	var unreadIDs []string
	for _, m := range messages {
		if m.SenderID != userID && !m.Read {
			unreadIDs = append(unreadIDs, m.ID)
		}
	}

	if len(unreadIDs) > 0 {
		if err := s.msgRepo.MarkRead(unreadIDs, time.Now()); err != nil {
			return err
		}
	}

	// The counter is zeroed by its previous value, not by
	// len(unreadIDs); the two are expected to agree.
	prev, err := s.unread.ZeroOnRead(conversationID, userID)
	if err != nil {
		return err
	}

	if prev > 0 && s.notifier != nil {
		if refreshed, err := s.convRepo.FindByID(conversationID); err == nil {
			s.notifier.Push(userID, ws.EventConversationUpdated, refreshed.ToResponse())
		}
	}
	return nil
}
