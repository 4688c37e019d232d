package events

import (
	"sync"

	"github.com/remercado/remercado-backend/pkg/logger"
)

// Ledger is the slice of the unread service the trigger invokes
type Ledger interface {
	IncrementOnCreate(conversationID, recipientID, messageID string) error
}

// Trigger consumes MessageCreated events and applies the unread
// increment for each one. Delivery is at-least-once; the ledger dedups
// by message ID, so a duplicate event is harmless.
type Trigger struct {
	queue  Queue
	ledger Ledger
	wg     sync.WaitGroup
}

// NewTrigger creates a new Trigger
func NewTrigger(queue Queue, ledger Ledger) *Trigger {
	return &Trigger{queue: queue, ledger: ledger}
}

// Start runs the consumer loop in its own goroutine
func (t *Trigger) Start() {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for ev := range t.queue.Events() {
			if err := t.ledger.IncrementOnCreate(ev.ConversationID, ev.RecipientID, ev.MessageID); err != nil {
				// The caller retries the whole send on failure, which
				// republishes the event.
				logger.GetLogger().Error().
					Err(err).
					Str("message_id", ev.MessageID).
					Str("conversation_id", ev.ConversationID).
					Msg("unread increment failed")
			}
		}
	}()
}

// Stop closes the queue and waits for in-flight events to drain
func (t *Trigger) Stop() {
	t.queue.Close()
	t.wg.Wait()
}
