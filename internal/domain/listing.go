package domain

import "time"

// Listing is the marketplace item a conversation is attached to.
// Listing lifecycle (publishing, search, moderation) is owned by another
// service; the messaging core only reads seller_id to derive thread roles.
type Listing struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	SellerID  string    `gorm:"column:seller_id;size:64;index" json:"seller_id"`
	Title     string    `gorm:"column:title;size:255" json:"title"`
	Price     int64     `gorm:"column:price" json:"price"`
	Status    string    `gorm:"column:status;size:20" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Listing) TableName() string {
	return "listings"
}
