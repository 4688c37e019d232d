package repository

import (
	"testing"
	"time"

	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepo_FindByConversation_OldestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	seedConversation(t, db, "c1")

	now := time.Now()
	seedMessage(t, db, "m2", "c1", "bob", now)
	seedMessage(t, db, "m1", "c1", "ana", now.Add(-time.Minute))
	seedMessage(t, db, "m3", "c1", "ana", now.Add(time.Minute))

	messages, err := repo.FindByConversation("c1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Equal(t, "m3", messages[2].ID)
}

func TestMessageRepo_MarkRead_FlipsOnlyTheBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	seedConversation(t, db, "c1")

	now := time.Now()
	seedMessage(t, db, "m1", "c1", "ana", now)
	seedMessage(t, db, "m2", "c1", "ana", now)
	seedMessage(t, db, "m3", "c1", "bob", now)

	require.NoError(t, repo.MarkRead([]string{"m1", "m2"}, now))

	messages, err := repo.FindByConversation("c1")
	require.NoError(t, err)
	byID := make(map[string]*domain.Message, len(messages))
	for _, m := range messages {
		byID[m.ID] = m
	}

	assert.True(t, byID["m1"].Read)
	assert.NotNil(t, byID["m1"].ReadAt)
	assert.True(t, byID["m2"].Read)
	assert.False(t, byID["m3"].Read)
	assert.Nil(t, byID["m3"].ReadAt)
}

func TestMessageRepo_MarkRead_EmptyBatchIsNoop(t *testing.T) {
	repo := NewMessageRepository(setupTestDB(t))

	assert.NoError(t, repo.MarkRead(nil, time.Now()))
}
