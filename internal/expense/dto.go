package expense

import (
	"github.com/divvyup/divvy/internal/expense/split"
)

// ShareInput is one participant entry in an expense request. AmountCents
// feeds EXACT and CUSTOM policies, Percent feeds PERCENTAGE; both are
// ignored for EQUAL.
type ShareInput struct {
	UserID      int64    `json:"user_id"`
	AmountCents *int64   `json:"amount_cents,omitempty"`
	Percent     *float64 `json:"percent,omitempty"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID      int64         `json:"group_id" validate:"required"`
	Description  string        `json:"description" validate:"required,min=1,max=255"`
	AmountCents  int64         `json:"amount_cents" validate:"required,gt=0"`
	CurrencyCode string        `json:"currency_code" validate:"required,len=3"`
	SplitType    string        `json:"split_type" validate:"required,oneof=EQUAL EXACT PERCENTAGE CUSTOM"`
	Participants []*ShareInput `json:"participants" validate:"required,min=1"`
}

// UpdateExpenseRequest represents the request to update an expense. When
// SplitType and Participants are present the whole split set is recomputed
// and replaced; the amount itself never changes.
type UpdateExpenseRequest struct {
	Description  *string       `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	SplitType    *string       `json:"split_type,omitempty" validate:"omitempty,oneof=EQUAL EXACT PERCENTAGE CUSTOM"`
	Participants []*ShareInput `json:"participants,omitempty"`
}

// buildPolicy turns a split type and participant list into a policy plus
// the ordered participant IDs.
func buildPolicy(splitType string, participants []*ShareInput) ([]int64, split.Policy, error) {
	ids := make([]int64, len(participants))
	amounts := make(map[int64]int64)
	percents := make(map[int64]float64)
	for i, p := range participants {
		ids[i] = p.UserID
		if p.AmountCents != nil {
			amounts[p.UserID] = *p.AmountCents
		}
		if p.Percent != nil {
			percents[p.UserID] = *p.Percent
		}
	}

	policy, err := split.ForType(splitType, amounts, percents)
	if err != nil {
		return nil, nil, err
	}
	return ids, policy, nil
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	GroupID       int64            `json:"group_id"`
	PayerID       int64            `json:"payer_id"`
	PayerUsername string           `json:"payer_username,omitempty"`
	Description   string           `json:"description"`
	AmountCents   int64            `json:"amount_cents"`
	CurrencyCode  string           `json:"currency_code"`
	SplitType     string           `json:"split_type"`
	CreatedAt     string           `json:"created_at"`
	Splits        []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID             int64  `json:"id"`
	ExpenseID      int64  `json:"expense_id"`
	MemberID       int64  `json:"member_id"`
	MemberUsername string `json:"member_username,omitempty"`
	AmountCents    int64  `json:"amount_cents"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		Description:   e.Description,
		AmountCents:   e.AmountCents,
		CurrencyCode:  e.CurrencyCode,
		SplitType:     e.SplitType,
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:             s.ID,
		ExpenseID:      s.ExpenseID,
		MemberID:       s.MemberID,
		MemberUsername: s.MemberUsername,
		AmountCents:    s.AmountCents,
	}
}
