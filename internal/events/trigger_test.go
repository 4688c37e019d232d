package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeLedger struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeLedger) IncrementOnCreate(conversationID, recipientID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messageID)
	if err, ok := f.fail[messageID]; ok {
		return err
	}
	return nil
}

func (f *fakeLedger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestTrigger_AppliesIncrementPerEvent(t *testing.T) {
	queue := NewChannelQueue(8)
	ledger := &fakeLedger{}
	trigger := NewTrigger(queue, ledger)
	trigger.Start()

	for _, id := range []string{"m1", "m2", "m3"} {
		err := queue.Publish(MessageCreated{
			MessageID:      id,
			ConversationID: "c1",
			SenderID:       "ana",
			RecipientID:    "bob",
		})
		assert.NoError(t, err)
	}

	trigger.Stop()

	assert.Equal(t, []string{"m1", "m2", "m3"}, ledger.calls)
}

func TestTrigger_ContinuesAfterLedgerError(t *testing.T) {
	queue := NewChannelQueue(8)
	ledger := &fakeLedger{fail: map[string]error{"m1": errors.New("deadlock")}}
	trigger := NewTrigger(queue, ledger)
	trigger.Start()

	assert.NoError(t, queue.Publish(MessageCreated{MessageID: "m1", ConversationID: "c1", RecipientID: "bob"}))
	assert.NoError(t, queue.Publish(MessageCreated{MessageID: "m2", ConversationID: "c1", RecipientID: "bob"}))

	trigger.Stop()

	assert.Equal(t, 2, ledger.callCount())
}

func TestChannelQueue_PublishAfterClose(t *testing.T) {
	queue := NewChannelQueue(1)
	queue.Close()

	err := queue.Publish(MessageCreated{MessageID: "m1"})

	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestChannelQueue_CloseIsIdempotent(t *testing.T) {
	queue := NewChannelQueue(1)
	queue.Close()
	queue.Close()
}

func TestChannelQueue_FullBufferDoesNotBlockClose(t *testing.T) {
	queue := NewChannelQueue(1)

	assert.NoError(t, queue.Publish(MessageCreated{MessageID: "m1"}))
	// No consumer: the next publish must fail instead of blocking
	// with the mutex held, which would deadlock Close.
	assert.ErrorIs(t, queue.Publish(MessageCreated{MessageID: "m2"}), ErrQueueFull)

	done := make(chan struct{})
	go func() {
		queue.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a full queue")
	}
}
