package domain

import "time"

// Message is a single chat entry inside a conversation. Records are
// immutable after creation except for the read/read_at flip.
type Message struct {
	ID             string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	ConversationID string     `gorm:"column:conversation_id;size:36;index" json:"conversation_id"`
	SenderID       string     `gorm:"column:sender_id;size:64" json:"sender_id"`
	Body           string     `gorm:"column:body;type:text" json:"body"`
	SentAt         time.Time  `gorm:"column:sent_at;index" json:"sent_at"`
	Read           bool       `gorm:"column:read" json:"read"`
	ReadAt         *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest appends a message to an existing conversation
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	Body           string `json:"body"`
	SentAt         string `json:"sent_at"`
	Read           bool   `json:"read"`
	ReadAt         string `json:"read_at,omitempty"`
}

// ToResponse converts Message to MessageResponse
func (m *Message) ToResponse() *MessageResponse {
	resp := &MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		SentAt:         m.SentAt.Format(time.RFC3339),
		Read:           m.Read,
	}
	if m.ReadAt != nil {
		resp.ReadAt = m.ReadAt.Format(time.RFC3339)
	}
	return resp
}
