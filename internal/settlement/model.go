package settlement

import (
	"time"

	"github.com/divvyup/divvy/internal/ledger"
)

// Payment records money actually changing hands between two group members.
// It starts PENDING when the sender records it and ends in exactly one of
// the terminal states: COMPLETED (counts toward balances) or CANCELLED
// (ignored forever). No other mutation is possible after that.
type Payment struct {
	ID           int64                `json:"id"`
	GroupID      int64                `json:"group_id"`
	FromUserID   int64                `json:"from_user_id"`
	ToUserID     int64                `json:"to_user_id"`
	AmountCents  int64                `json:"amount_cents"`
	CurrencyCode string               `json:"currency_code"`
	Reference    string               `json:"reference"` // external correlation id
	Status       ledger.PaymentStatus `json:"status"`
	CreatedAt    time.Time            `json:"created_at"`

	// Populated via JOIN
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}
