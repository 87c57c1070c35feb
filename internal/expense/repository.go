package expense

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/divvyup/divvy/internal/ledger"
)

// Repository handles expense and split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpenseWithSplits inserts an expense and its computed splits in one
// transaction. Shares are written in participant order so the committed
// rows mirror the calculator's output.
func (r *Repository) CreateExpenseWithSplits(ctx context.Context, payerID int64, req *CreateExpenseRequest, order []int64, shares map[int64]int64) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, payer_id, description, amount_cents, currency_code, split_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, payer_id, description, amount_cents, currency_code, split_type, created_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query,
		req.GroupID,
		payerID,
		req.Description,
		req.AmountCents,
		req.CurrencyCode,
		req.SplitType,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.AmountCents,
		&expense.CurrencyCode,
		&expense.SplitType,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	splits, err := insertSplits(ctx, tx, expense.ID, order, shares)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// ReplaceSplits swaps an expense's split set wholesale inside a
// transaction. The old rows are deleted, never partially mutated.
func (r *Repository) ReplaceSplits(ctx context.Context, expenseID int64, splitType string, order []int64, shares map[int64]int64) ([]*Split, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE expense_id = $1`, expenseID); err != nil {
		return nil, fmt.Errorf("failed to clear splits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE expenses SET split_type = $1 WHERE id = $2`, splitType, expenseID); err != nil {
		return nil, fmt.Errorf("failed to update split type: %w", err)
	}

	splits, err := insertSplits(ctx, tx, expenseID, order, shares)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit splits: %w", err)
	}
	return splits, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID int64, order []int64, shares map[int64]int64) ([]*Split, error) {
	query := `
		INSERT INTO splits (expense_id, member_id, amount_cents)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, member_id, amount_cents
	`

	splits := make([]*Split, 0, len(order))
	for _, memberID := range order {
		split := &Split{}
		err := tx.QueryRowContext(ctx, query, expenseID, memberID, shares[memberID]).Scan(
			&split.ID,
			&split.ExpenseID,
			&split.MemberID,
			&split.AmountCents,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		splits = append(splits, split)
	}
	return splits, nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.currency_code, e.split_type, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.AmountCents,
		&expense.CurrencyCode,
		&expense.SplitType,
		&expense.CreatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.member_id, s.amount_cents, u.username
		FROM splits s
		JOIN users u ON s.member_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		split := &Split{}
		if err := rows.Scan(
			&split.ID,
			&split.ExpenseID,
			&split.MemberID,
			&split.AmountCents,
			&split.MemberUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return splits, nil
}

// ListExpensesByGroupID retrieves expenses for a group, newest first
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.currency_code, e.split_type, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.Description,
			&expense.AmountCents,
			&expense.CurrencyCode,
			&expense.SplitType,
			&expense.CreatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, total, nil
}

// UpdateDescription changes an expense's description
func (r *Repository) UpdateDescription(ctx context.Context, id int64, description string) (*Expense, error) {
	query := `
		UPDATE expenses
		SET description = $1
		WHERE id = $2
		RETURNING id, group_id, payer_id, description, amount_cents, currency_code, split_type, created_at
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, description, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.AmountCents,
		&expense.CurrencyCode,
		&expense.SplitType,
		&expense.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return expense, nil
}

// DeleteExpense removes an expense and its splits
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// GroupHasCompletedPaymentsSince reports whether the group recorded any
// completed payment at or after the given time.
func (r *Repository) GroupHasCompletedPaymentsSince(ctx context.Context, groupID int64, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE group_id = $1 AND status = 'COMPLETED' AND created_at >= $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, groupID, since).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check settled payments: %w", err)
	}

	return exists, nil
}

// ListForLedger loads every committed expense of a group in the engine's
// snapshot form, splits included.
func (r *Repository) ListForLedger(ctx context.Context, groupID int64) ([]ledger.Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.amount_cents, e.currency_code, e.created_at,
		       s.member_id, s.amount_cents
		FROM expenses e
		JOIN splits s ON s.expense_id = e.id
		WHERE e.group_id = $1
		ORDER BY e.id, s.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger expenses: %w", err)
	}
	defer rows.Close()

	var (
		expenses []ledger.Expense
		current  *ledger.Expense
	)
	for rows.Next() {
		var (
			e     ledger.Expense
			share ledger.SplitShare
		)
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PaidBy, &e.Amount, &e.Currency, &e.CreatedAt,
			&share.MemberID, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan ledger expense: %w", err)
		}

		if current == nil || current.ID != e.ID {
			expenses = append(expenses, e)
			current = &expenses[len(expenses)-1]
		}
		current.Splits = append(current.Splits, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger expenses: %w", err)
	}

	return expenses, nil
}
