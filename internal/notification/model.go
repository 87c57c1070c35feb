package notification

import "time"

// EntityType identifies what a notification links to
type EntityType string

const (
	EntityTypeGroup   EntityType = "GROUP"
	EntityTypeExpense EntityType = "EXPENSE"
	EntityTypePayment EntityType = "PAYMENT"
)

// Notification is an in-app message delivered to one user. Notifications
// are best-effort: losing one never fails the operation that produced it.
type Notification struct {
	ID          int64       `json:"id"`
	RecipientID int64       `json:"recipient_id"`
	Message     string      `json:"message"`
	IsRead      bool        `json:"is_read"`
	EntityType  *EntityType `json:"entity_type,omitempty"`
	EntityID    *int64      `json:"entity_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
