package settlement

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/divvyup/divvy/internal/expense"
	"github.com/divvyup/divvy/internal/group"
	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/internal/metrics"
	"github.com/divvyup/divvy/internal/notification"
)

// Common errors
var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrNotParticipant      = errors.New("only the sender or receiver can act on this payment")
	ErrNotReceiver         = errors.New("only the receiver can complete a payment")
	ErrInvalidStatusChange = errors.New("payment is in a terminal state")
	ErrNotGroupMember      = errors.New("both members must belong to the group")
	ErrCurrencyMismatch    = errors.New("payment currency must match the group currency")
)

// Service handles payment recording and on-demand balance and plan
// computation. Balances are always recomputed from the full ledger, never
// cached or patched incrementally.
type Service struct {
	repo          *Repository
	expenses      *expense.Repository
	groups        *group.Repository
	notifications *notification.Service
}

// NewService creates a new settlement service
func NewService(repo *Repository, expenses *expense.Repository, groups *group.Repository, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		expenses:      expenses,
		groups:        groups,
		notifications: notifications,
	}
}

// balances loads a fresh snapshot of the group's ledger and folds it.
func (s *Service) balances(ctx context.Context, groupID int64) (ledger.Balances, error) {
	expenses, err := s.expenses.ListForLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListCompletedForLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.groups.ListMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return ledger.ComputeBalances(expenses, payments, members)
}

// GroupBalances returns each member's net position, owed-most first.
func (s *Service) GroupBalances(ctx context.Context, groupID int64) ([]*BalanceResponse, error) {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}

	balances, err := s.balances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	usernames, err := s.memberUsernames(ctx, groupID)
	if err != nil {
		return nil, err
	}

	responses := make([]*BalanceResponse, 0, len(balances))
	for userID, amount := range balances {
		responses = append(responses, &BalanceResponse{
			UserID:      userID,
			Username:    usernames[userID],
			AmountCents: amount,
		})
	}
	sort.Slice(responses, func(i, j int) bool {
		if responses[i].AmountCents != responses[j].AmountCents {
			return responses[i].AmountCents > responses[j].AmountCents
		}
		return responses[i].UserID < responses[j].UserID
	})

	return responses, nil
}

// SettlementPlan returns the recommended payments that zero out the group.
func (s *Service) SettlementPlan(ctx context.Context, groupID int64) ([]*DebtResponse, error) {
	if err := s.requireGroup(ctx, groupID); err != nil {
		return nil, err
	}

	balances, err := s.balances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	plan, err := BuildPlan(balances)
	if err != nil {
		return nil, err
	}
	metrics.PlansComputed.Inc()

	usernames, err := s.memberUsernames(ctx, groupID)
	if err != nil {
		return nil, err
	}

	responses := make([]*DebtResponse, len(plan))
	for i, d := range plan {
		responses[i] = &DebtResponse{
			FromUserID:   d.FromID,
			FromUsername: usernames[d.FromID],
			ToUserID:     d.ToID,
			ToUsername:   usernames[d.ToID],
			AmountCents:  d.Amount,
		}
	}

	return responses, nil
}

// RecordPayment validates a proposed payment against current balances and
// stores it as PENDING. Nothing counts toward balances until the receiver
// completes it.
func (s *Service) RecordPayment(ctx context.Context, fromUserID int64, req *RecordPaymentRequest) (*Payment, error) {
	g, err := s.groups.GetByID(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, group.ErrGroupNotFound
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = g.CurrencyCode
	} else if req.CurrencyCode != g.CurrencyCode {
		return nil, ErrCurrencyMismatch
	}

	members, err := s.groups.ListMemberIDs(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if !memberOf(members, fromUserID) || !memberOf(members, req.ToUserID) {
		return nil, ErrNotGroupMember
	}

	balances, err := s.balances(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if err := ValidatePayment(fromUserID, req.ToUserID, req.AmountCents, balances); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, req.GroupID, fromUserID, req.ToUserID, req.AmountCents, req.CurrencyCode, uuid.NewString())
	if err != nil {
		return nil, err
	}
	metrics.PaymentsRecorded.WithLabelValues(string(created.Status)).Inc()

	// Re-read to pick up the joined usernames.
	payment, err := s.GetByID(ctx, created.ID)
	if err != nil {
		return created, nil
	}

	if _, err := s.notifications.NotifyPaymentRecorded(ctx, payment.ToUserID, payment.FromUsername, payment.AmountCents, payment.ID); err != nil {
		// A lost notification must not fail the payment itself.
		return payment, nil
	}

	return payment, nil
}

// GetByID retrieves a payment by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// CompletePayment marks a pending payment as COMPLETED. Only the receiver
// may complete, confirming the money actually arrived. The payment is
// re-validated against a fresh snapshot so a stale pending payment cannot
// push the pair past their outstanding debt.
func (s *Service) CompletePayment(ctx context.Context, paymentID, userID int64) (*Payment, error) {
	payment, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.ToUserID != userID {
		return nil, ErrNotReceiver
	}
	if payment.Status != ledger.PaymentStatusPending {
		return nil, ErrInvalidStatusChange
	}

	balances, err := s.balances(ctx, payment.GroupID)
	if err != nil {
		return nil, err
	}
	if err := ValidatePayment(payment.FromUserID, payment.ToUserID, payment.AmountCents, balances); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, paymentID, ledger.PaymentStatusCompleted)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPaymentNotFound
	}
	metrics.PaymentsRecorded.WithLabelValues(string(updated.Status)).Inc()

	if _, err := s.notifications.NotifyPaymentCompleted(ctx, updated.FromUserID, payment.ToUsername, updated.AmountCents, updated.ID); err != nil {
		return updated, nil
	}

	return updated, nil
}

// CancelPayment marks a pending payment as CANCELLED. Either side may
// cancel. Cancelled payments never affect balances.
func (s *Service) CancelPayment(ctx context.Context, paymentID, userID int64) (*Payment, error) {
	payment, err := s.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.FromUserID != userID && payment.ToUserID != userID {
		return nil, ErrNotParticipant
	}
	if payment.Status != ledger.PaymentStatusPending {
		return nil, ErrInvalidStatusChange
	}

	updated, err := s.repo.UpdateStatus(ctx, paymentID, ledger.PaymentStatusCancelled)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPaymentNotFound
	}
	metrics.PaymentsRecorded.WithLabelValues(string(updated.Status)).Inc()

	return updated, nil
}

// ListByGroupID retrieves a group's payments
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Payment, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

func (s *Service) requireGroup(ctx context.Context, groupID int64) error {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g == nil {
		return group.ErrGroupNotFound
	}
	return nil
}

func (s *Service) memberUsernames(ctx context.Context, groupID int64) (map[int64]string, error) {
	members, err := s.groups.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	usernames := make(map[int64]string, len(members))
	for _, m := range members {
		usernames[m.UserID] = m.Username
	}
	return usernames, nil
}

func memberOf(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
