package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesPair_SetEquality(t *testing.T) {
	conv := &Conversation{BuyerID: "ana", SellerID: "bob"}

	assert.True(t, conv.MatchesPair("ana", "bob"))
	assert.True(t, conv.MatchesPair("bob", "ana"))
	assert.False(t, conv.MatchesPair("ana", "carol"))
	assert.False(t, conv.MatchesPair("ana", "ana"))
}

func TestCounterpart(t *testing.T) {
	conv := &Conversation{BuyerID: "ana", SellerID: "bob"}

	assert.Equal(t, "bob", conv.Counterpart("ana"))
	assert.Equal(t, "ana", conv.Counterpart("bob"))
}

func TestUnreadFor(t *testing.T) {
	conv := &Conversation{BuyerID: "ana", SellerID: "bob", BuyerUnread: 3, SellerUnread: 1}

	assert.Equal(t, 3, conv.UnreadFor("ana"))
	assert.Equal(t, 1, conv.UnreadFor("bob"))
	assert.Equal(t, 0, conv.UnreadFor("mallory"))
}

func TestPairKey_Canonical(t *testing.T) {
	assert.Equal(t, PairKey("l42", "ana", "bob"), PairKey("l42", "bob", "ana"))
	assert.NotEqual(t, PairKey("l42", "ana", "bob"), PairKey("l43", "ana", "bob"))
	assert.NotEqual(t, PairKey("l42", "ana", "bob"), PairKey("l42", "ana", "carol"))
}

func TestConversationToResponse_UnreadMap(t *testing.T) {
	conv := &Conversation{
		ID: "c1", BuyerID: "ana", SellerID: "bob",
		BuyerUnread: 0, SellerUnread: 2,
	}

	resp := conv.ToResponse()

	assert.Len(t, resp.UnreadCount, 2)
	assert.Equal(t, 0, resp.UnreadCount["ana"])
	assert.Equal(t, 2, resp.UnreadCount["bob"])
}
