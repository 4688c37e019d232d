package domain

// UnreadTotal is the per-user aggregate of unread counters across all
// conversations the user participates in. It is maintained in the same
// transaction as the per-conversation counter it mirrors.
type UnreadTotal struct {
	UserID      string `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`
	TotalUnread int    `gorm:"column:total_unread" json:"total_unread"`
}

func (UnreadTotal) TableName() string {
	return "user_unread_totals"
}

// UnreadSummaryResponse carries the aggregate for the navbar badge
type UnreadSummaryResponse struct {
	TotalUnread int `json:"total_unread"`
}
