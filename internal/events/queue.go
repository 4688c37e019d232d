package events

import (
	"errors"
	"sync"
	"time"
)

// ErrQueueClosed is returned when publishing to a closed queue
var ErrQueueClosed = errors.New("event queue closed")

// ErrQueueFull is returned when the buffer has no room; the caller
// surfaces the failure and the client retries the whole send
var ErrQueueFull = errors.New("event queue full")

// MessageCreated is emitted after a message record is durably created.
// The trigger consumes it to bump the recipient's unread counters.
type MessageCreated struct {
	MessageID      string    `json:"message_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	RecipientID    string    `json:"recipient_id"`
	SentAt         time.Time `json:"sent_at"`
}

// Queue delivers MessageCreated events to the trigger with
// at-least-once semantics.
type Queue interface {
	Publish(ev MessageCreated) error
	Events() <-chan MessageCreated
	Close()
}

type channelQueue struct {
	ch     chan MessageCreated
	mu     sync.Mutex
	closed bool
}

// NewChannelQueue creates an in-process buffered queue
func NewChannelQueue(size int) Queue {
	if size <= 0 {
		size = 256
	}
	return &channelQueue{ch: make(chan MessageCreated, size)}
}

// Publish never blocks: the send must not wait on a stalled consumer
// while holding the mutex Close needs, so a full buffer is an error.
func (q *channelQueue) Publish(ev MessageCreated) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *channelQueue) Events() <-chan MessageCreated {
	return q.ch
}

func (q *channelQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
