package domain

import (
	"sort"
	"strings"
	"time"
)

// Conversation binds a buyer and a seller to one listing thread.
// The participant set is {BuyerID, SellerID}; both are derived once at
// creation time and never change afterwards.
type Conversation struct {
	ID                 string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	ListingID          string    `gorm:"column:listing_id;size:36;index" json:"listing_id"`
	BuyerID            string    `gorm:"column:buyer_id;size:64;index" json:"buyer_id"`
	SellerID           string    `gorm:"column:seller_id;size:64;index" json:"seller_id"`
	LastMessagePreview string    `gorm:"column:last_message_preview;size:255" json:"last_message_preview"`
	LastMessageAt      time.Time `gorm:"column:last_message_at" json:"last_message_at"`
	BuyerUnread        int       `gorm:"column:buyer_unread" json:"-"`
	SellerUnread       int       `gorm:"column:seller_unread" json:"-"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant reports whether userID is one of the two participants
func (c *Conversation) HasParticipant(userID string) bool {
	return c.BuyerID == userID || c.SellerID == userID
}

// MatchesPair reports whether the participant set equals {a, b}
// regardless of order
func (c *Conversation) MatchesPair(a, b string) bool {
	return (c.BuyerID == a && c.SellerID == b) || (c.BuyerID == b && c.SellerID == a)
}

// Counterpart returns the other participant of the thread
func (c *Conversation) Counterpart(userID string) string {
	if c.BuyerID == userID {
		return c.SellerID
	}
	return c.BuyerID
}

// UnreadFor returns the unread counter belonging to userID
func (c *Conversation) UnreadFor(userID string) int {
	if c.BuyerID == userID {
		return c.BuyerUnread
	}
	if c.SellerID == userID {
		return c.SellerUnread
	}
	return 0
}

// PairKey builds the canonical arbitration key for a (listing, pair)
// combination. Participant order does not matter.
func PairKey(listingID, a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return listingID + "|" + strings.Join(ids, "|")
}

// StartConversationRequest opens (or reuses) a thread about a listing
// with the first message included
type StartConversationRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	ToUserID  string `json:"to_user_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ConversationResponse represents a conversation in API responses
type ConversationResponse struct {
	ID                 string         `json:"id"`
	ListingID          string         `json:"listing_id"`
	BuyerID            string         `json:"buyer_id"`
	SellerID           string         `json:"seller_id"`
	LastMessagePreview string         `json:"last_message_preview"`
	LastMessageAt      string         `json:"last_message_at"`
	UnreadCount        map[string]int `json:"unread_count"`
	CreatedAt          string         `json:"created_at"`
}

// ToResponse converts Conversation to ConversationResponse
func (c *Conversation) ToResponse() *ConversationResponse {
	return &ConversationResponse{
		ID:                 c.ID,
		ListingID:          c.ListingID,
		BuyerID:            c.BuyerID,
		SellerID:           c.SellerID,
		LastMessagePreview: c.LastMessagePreview,
		LastMessageAt:      c.LastMessageAt.Format(time.RFC3339),
		UnreadCount: map[string]int{
			c.BuyerID:  c.BuyerUnread,
			c.SellerID: c.SellerUnread,
		},
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
