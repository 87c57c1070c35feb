package expense

import (
	"context"
	"errors"

	"github.com/divvyup/divvy/internal/expense/split"
	"github.com/divvyup/divvy/internal/group"
	"github.com/divvyup/divvy/internal/metrics"
	"github.com/divvyup/divvy/internal/notification"
)

// Common errors
var (
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrNotPayer         = errors.New("only the payer can modify an expense")
	ErrPayerNotMember   = errors.New("payer is not a member of the group")
	ErrCurrencyMismatch = errors.New("expense currency must match the group currency")
	ErrExpenseSettled   = errors.New("expense cannot be deleted after payments were settled against it")
)

// Service handles expense business logic
type Service struct {
	repo          *Repository
	groups        *group.Repository
	notifications *notification.Service
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, groups *group.Repository, notifications *notification.Service) *Service {
	return &Service{
		repo:          repo,
		groups:        groups,
		notifications: notifications,
	}
}

// CreateExpense validates the split policy against the group's member set,
// computes the per-member shares and commits expense plus splits atomically.
func (s *Service) CreateExpense(ctx context.Context, payerID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
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
	if !containsID(members, payerID) {
		return nil, ErrPayerNotMember
	}

	participants, policy, err := buildPolicy(req.SplitType, req.Participants)
	if err != nil {
		return nil, err
	}

	shares, err := split.Calculate(req.AmountCents, participants, members, policy)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.CreateExpenseWithSplits(ctx, payerID, req, participants, shares)
	if err != nil {
		return nil, err
	}
	metrics.ExpensesCreated.Inc()

	s.notifyParticipants(ctx, result)

	return result, nil
}

// notifyParticipants tells everyone but the payer about their share.
// Notification failures are swallowed; the expense is already committed.
func (s *Service) notifyParticipants(ctx context.Context, ews *ExpenseWithSplits) {
	full, err := s.GetExpenseByID(ctx, ews.Expense.ID)
	if err != nil {
		return
	}
	for _, sp := range full.Splits {
		if sp.MemberID == full.Expense.PayerID {
			continue
		}
		_, _ = s.notifications.NotifyExpenseAdded(ctx, sp.MemberID, full.Expense.PayerUsername, sp.AmountCents, full.Expense.ID)
	}
}

// GetExpenseByID retrieves an expense with its splits
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseWithSplits, error) {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// ListExpensesByGroupID retrieves expenses for a group
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByGroupID(ctx, groupID, perPage, offset)
}

// UpdateExpense edits an expense. The description may change freely; a new
// split type and participant list replace the committed split set in one
// transaction. The amount itself is immutable, so the recomputed splits
// always sum to the original total.
func (s *Service) UpdateExpense(ctx context.Context, id, userID int64, req *UpdateExpenseRequest) (*ExpenseWithSplits, error) {
	if req.SplitType != nil && len(req.Participants) == 0 {
		return nil, split.ErrEmptyParticipantSet
	}

	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return nil, ErrNotPayer
	}

	if req.Description != nil {
		expense, err = s.repo.UpdateDescription(ctx, id, *req.Description)
		if err != nil {
			return nil, err
		}
	}

	if req.SplitType != nil {
		members, err := s.groups.ListMemberIDs(ctx, expense.GroupID)
		if err != nil {
			return nil, err
		}

		participants, policy, err := buildPolicy(*req.SplitType, req.Participants)
		if err != nil {
			return nil, err
		}

		shares, err := split.Calculate(expense.AmountCents, participants, members, policy)
		if err != nil {
			return nil, err
		}

		if _, err := s.repo.ReplaceSplits(ctx, id, *req.SplitType, participants, shares); err != nil {
			return nil, err
		}
		expense.SplitType = *req.SplitType
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// DeleteExpense deletes an expense. Only the payer may do so, and only
// while the group has no completed payments recorded after the expense:
// members settled against balances that included it, so pulling it out
// would silently rewrite positions they already paid for.
func (s *Service) DeleteExpense(ctx context.Context, id, userID int64) error {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return ErrNotPayer
	}

	settled, err := s.repo.GroupHasCompletedPaymentsSince(ctx, expense.GroupID, expense.CreatedAt)
	if err != nil {
		return err
	}
	if settled {
		return ErrExpenseSettled
	}

	return s.repo.DeleteExpense(ctx, id)
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
