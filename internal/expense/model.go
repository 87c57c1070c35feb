package expense

import "time"

// Expense represents a committed shared expense. Amounts are integer minor
// currency units. The amount and split set are immutable once committed:
// edits replace the computed split set wholesale so the ledger stays
// auditable.
type Expense struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"group_id"`
	PayerID      int64     `json:"payer_id"`
	Description  string    `json:"description"`
	AmountCents  int64     `json:"amount_cents"`
	CurrencyCode string    `json:"currency_code"`
	SplitType    string    `json:"split_type"` // EQUAL, EXACT, PERCENTAGE, CUSTOM
	CreatedAt    time.Time `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Split is one participant's committed share of an expense. For any
// expense the split amounts sum to the expense amount exactly; the split
// calculator enforces that before anything is written.
type Split struct {
	ID          int64 `json:"id"`
	ExpenseID   int64 `json:"expense_id"`
	MemberID    int64 `json:"member_id"`
	AmountCents int64 `json:"amount_cents"`

	// Populated via JOIN
	MemberUsername string `json:"member_username,omitempty"`
}

// ExpenseWithSplits combines an expense with its committed splits.
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}
