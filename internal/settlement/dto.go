package settlement

import "github.com/divvyup/divvy/internal/ledger"

// RecordPaymentRequest represents the request to record a payment. The
// sender is the authenticated user.
type RecordPaymentRequest struct {
	GroupID      int64  `json:"group_id" validate:"required"`
	ToUserID     int64  `json:"to_user_id" validate:"required"`
	AmountCents  int64  `json:"amount_cents" validate:"required,gt=0"`
	CurrencyCode string `json:"currency_code" validate:"required,len=3"`
}

// PaymentResponse represents the response for a payment
type PaymentResponse struct {
	ID           int64                `json:"id"`
	GroupID      int64                `json:"group_id"`
	FromUserID   int64                `json:"from_user_id"`
	FromUsername string               `json:"from_username,omitempty"`
	ToUserID     int64                `json:"to_user_id"`
	ToUsername   string               `json:"to_username,omitempty"`
	AmountCents  int64                `json:"amount_cents"`
	CurrencyCode string               `json:"currency_code"`
	Reference    string               `json:"reference"`
	Status       ledger.PaymentStatus `json:"status"`
	CreatedAt    string               `json:"created_at"`
}

// BalanceResponse is one member's net position. Positive means the member
// is owed money, negative means they owe.
type BalanceResponse struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username,omitempty"`
	AmountCents int64  `json:"amount_cents"`
}

// DebtResponse is one recommended payment of the settlement plan.
type DebtResponse struct {
	FromUserID   int64  `json:"from_user_id"`
	FromUsername string `json:"from_username,omitempty"`
	ToUserID     int64  `json:"to_user_id"`
	ToUsername   string `json:"to_username,omitempty"`
	AmountCents  int64  `json:"amount_cents"`
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:           p.ID,
		GroupID:      p.GroupID,
		FromUserID:   p.FromUserID,
		FromUsername: p.FromUsername,
		ToUserID:     p.ToUserID,
		ToUsername:   p.ToUsername,
		AmountCents:  p.AmountCents,
		CurrencyCode: p.CurrencyCode,
		Reference:    p.Reference,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
