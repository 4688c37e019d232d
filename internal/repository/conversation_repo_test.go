package repository

import (
	"testing"
	"time"

	"github.com/remercado/remercado-backend/internal/common"
	"github.com/remercado/remercado-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Listing{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.UnreadTotal{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func seedConversation(t *testing.T, db *gorm.DB, id string) *domain.Conversation {
	t.Helper()
	conv := &domain.Conversation{
		ID:            id,
		ListingID:     "l1",
		BuyerID:       "ana",
		SellerID:      "bob",
		LastMessageAt: time.Now(),
		CreatedAt:     time.Now(),
	}
	require.NoError(t, db.Create(conv).Error)
	return conv
}

func seedMessage(t *testing.T, db *gorm.DB, id, convID, senderID string, sentAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Message{
		ID:             id,
		ConversationID: convID,
		SenderID:       senderID,
		Body:           "hola",
		SentAt:         sentAt,
	}).Error)
}

func TestConversationRepo_FindByID_NotFound(t *testing.T) {
	repo := NewConversationRepository(setupTestDB(t))

	_, err := repo.FindByID("missing")
	assert.ErrorIs(t, err, common.ErrConversationNotFound)
}

func TestConversationRepo_ListByUser_OrdersByActivity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db)

	now := time.Now()
	require.NoError(t, db.Create(&domain.Conversation{
		ID: "c-old", ListingID: "l1", BuyerID: "ana", SellerID: "bob",
		LastMessageAt: now.Add(-time.Hour),
	}).Error)
	require.NoError(t, db.Create(&domain.Conversation{
		ID: "c-new", ListingID: "l2", BuyerID: "ana", SellerID: "eva",
		LastMessageAt: now,
	}).Error)
	require.NoError(t, db.Create(&domain.Conversation{
		ID: "c-other", ListingID: "l3", BuyerID: "leo", SellerID: "eva",
		LastMessageAt: now,
	}).Error)

	convs, err := repo.ListByUser("ana")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "c-new", convs[0].ID)
	assert.Equal(t, "c-old", convs[1].ID)
}

func TestConversationRepo_UpdateLastMessage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db)
	seedConversation(t, db, "c1")

	at := time.Now().Add(time.Minute)
	require.NoError(t, repo.UpdateLastMessage("c1", "¿Sigue disponible?", at))

	found, err := repo.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "¿Sigue disponible?", found.LastMessagePreview)
	assert.WithinDuration(t, at, found.LastMessageAt, time.Second)
}

func TestConversationRepo_DeleteWithMessages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db)

	seedConversation(t, db, "c1")
	seedConversation(t, db, "c2")
	seedMessage(t, db, "m1", "c1", "ana", time.Now())
	seedMessage(t, db, "m2", "c1", "bob", time.Now())
	seedMessage(t, db, "m3", "c2", "ana", time.Now())

	require.NoError(t, repo.DeleteWithMessages("c1"))

	_, err := repo.FindByID("c1")
	assert.ErrorIs(t, err, common.ErrConversationNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.Message{}).Where("conversation_id = ?", "c1").Count(&count).Error)
	assert.Zero(t, count)

	// The sibling thread is untouched
	_, err = repo.FindByID("c2")
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.Message{}).Where("conversation_id = ?", "c2").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestConversationRepo_DeleteWithMessages_AllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConversationRepository(db)

	seedConversation(t, db, "c1")
	seedMessage(t, db, "m1", "c1", "ana", time.Now())
	seedMessage(t, db, "m2", "c1", "bob", time.Now())

	// Breaking the second statement of the batch must roll back the
	// first: the messages survive.
	require.NoError(t, db.Migrator().DropTable(&domain.Conversation{}))

	err := repo.DeleteWithMessages("c1")
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Message{}).Where("conversation_id = ?", "c1").Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
