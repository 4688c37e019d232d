package service

import (
	"sync"
	"time"

	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock ConversationRepository ---

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) Create(conv *domain.Conversation) error {
	return m.Called(conv).Error(0)
}

func (m *mockConversationRepo) FindByID(id string) (*domain.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) FindByListingID(listingID string) ([]*domain.Conversation, error) {
	args := m.Called(listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) ListByUser(userID string) ([]*domain.Conversation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *mockConversationRepo) UpdateLastMessage(id string, preview string, at time.Time) error {
	return m.Called(id, preview, at).Error(0)
}

func (m *mockConversationRepo) DeleteWithMessages(id string) error {
	return m.Called(id).Error(0)
}

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageRepo) FindByConversation(conversationID string) ([]*domain.Message, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) MarkRead(ids []string, at time.Time) error {
	return m.Called(ids, at).Error(0)
}

// --- Mock ListingRepository ---

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) FindByID(id string) (*domain.Listing, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

// --- Mock UnreadLedgerRepository ---

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) IncrementOnCreate(conversationID, recipientID string) error {
	return m.Called(conversationID, recipientID).Error(0)
}

func (m *mockLedgerRepo) ZeroOnRead(conversationID, userID string) (int, error) {
	args := m.Called(conversationID, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockLedgerRepo) GetTotal(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

// --- Recording notifier ---

type pushedEvent struct {
	UserID  string
	Type    string
	Payload interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []pushedEvent
}

func (f *fakeNotifier) Push(userID string, eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, pushedEvent{UserID: userID, Type: eventType, Payload: payload})
}

func (f *fakeNotifier) byType(eventType string) []pushedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pushedEvent
	for _, e := range f.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
