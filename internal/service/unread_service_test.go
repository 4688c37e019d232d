package service

import (
	"context"
	"testing"
	"time"

	"github.com/remercado/remercado-backend/internal/ws"
	"github.com/remercado/remercado-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// fakeCache is an in-memory stand-in for the Redis cache service
type fakeCache struct {
	totals  map[string]int
	claimed map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		totals:  make(map[string]int),
		claimed: make(map[string]bool),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return cache.ErrCacheMiss
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (f *fakeCache) GetUnreadTotal(ctx context.Context, userID string) (int, bool) {
	total, ok := f.totals[userID]
	return total, ok
}

func (f *fakeCache) SetUnreadTotal(ctx context.Context, userID string, total int) {
	f.totals[userID] = total
}

func (f *fakeCache) InvalidateUnreadTotal(ctx context.Context, userID string) {
	delete(f.totals, userID)
}

func (f *fakeCache) Once(ctx context.Context, key string, ttl time.Duration) bool {
	if f.claimed[key] {
		return false
	}
	f.claimed[key] = true
	return true
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func TestIncrementOnCreate_DuplicateDeliverySkipped(t *testing.T) {
	ledger := new(mockLedgerRepo)
	svc := NewUnreadService(ledger, newFakeCache(), nil)

	ledger.On("IncrementOnCreate", "c1", "bob").Return(nil).Once()

	assert.NoError(t, svc.IncrementOnCreate("c1", "bob", "m1"))
	// At-least-once delivery: the same event arrives again
	assert.NoError(t, svc.IncrementOnCreate("c1", "bob", "m1"))

	ledger.AssertNumberOfCalls(t, "IncrementOnCreate", 1)
}

func TestIncrementOnCreate_DistinctMessagesBothApplied(t *testing.T) {
	ledger := new(mockLedgerRepo)
	svc := NewUnreadService(ledger, newFakeCache(), nil)

	ledger.On("IncrementOnCreate", "c1", "bob").Return(nil)

	assert.NoError(t, svc.IncrementOnCreate("c1", "bob", "m1"))
	assert.NoError(t, svc.IncrementOnCreate("c1", "bob", "m2"))

	ledger.AssertNumberOfCalls(t, "IncrementOnCreate", 2)
}

func TestIncrementOnCreate_InvalidatesCachedTotal(t *testing.T) {
	ledger := new(mockLedgerRepo)
	fc := newFakeCache()
	fc.SetUnreadTotal(context.Background(), "bob", 3)
	svc := NewUnreadService(ledger, fc, nil)

	ledger.On("IncrementOnCreate", "c1", "bob").Return(nil)

	assert.NoError(t, svc.IncrementOnCreate("c1", "bob", "m1"))

	_, ok := fc.GetUnreadTotal(context.Background(), "bob")
	assert.False(t, ok)
}

func TestGetTotal_CachesLedgerValue(t *testing.T) {
	ledger := new(mockLedgerRepo)
	svc := NewUnreadService(ledger, newFakeCache(), nil)

	ledger.On("GetTotal", "bob").Return(5, nil).Once()

	total, err := svc.GetTotal("bob")
	assert.NoError(t, err)
	assert.Equal(t, 5, total)

	// Second read is served from cache
	total, err = svc.GetTotal("bob")
	assert.NoError(t, err)
	assert.Equal(t, 5, total)
	ledger.AssertNumberOfCalls(t, "GetTotal", 1)
}

func TestZeroOnRead_PushesFreshTotal(t *testing.T) {
	ledger := new(mockLedgerRepo)
	notifier := &fakeNotifier{}
	svc := NewUnreadService(ledger, nil, notifier)

	ledger.On("ZeroOnRead", "c1", "bob").Return(2, nil)
	ledger.On("GetTotal", "bob").Return(4, nil)

	prev, err := svc.ZeroOnRead("c1", "bob")

	assert.NoError(t, err)
	assert.Equal(t, 2, prev)
	pushed := notifier.byType(ws.EventUnreadCount)
	assert.Len(t, pushed, 1)
	assert.Equal(t, "bob", pushed[0].UserID)
}

func TestZeroOnRead_NoPushWhenAlreadyZero(t *testing.T) {
	ledger := new(mockLedgerRepo)
	notifier := &fakeNotifier{}
	svc := NewUnreadService(ledger, nil, notifier)

	ledger.On("ZeroOnRead", "c1", "bob").Return(0, nil)

	prev, err := svc.ZeroOnRead("c1", "bob")

	assert.NoError(t, err)
	assert.Equal(t, 0, prev)
	assert.Empty(t, notifier.byType(ws.EventUnreadCount))
	ledger.AssertNotCalled(t, "GetTotal", mock.Anything)
}
