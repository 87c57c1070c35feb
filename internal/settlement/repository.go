package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/divvyup/divvy/internal/ledger"
)

// Repository handles payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const paymentColumns = `p.id, p.group_id, p.from_user_id, p.to_user_id, p.amount_cents, p.currency_code, p.reference, p.status, p.created_at`

// Create inserts a new payment in PENDING status
func (r *Repository) Create(ctx context.Context, groupID, fromUserID, toUserID, amountCents int64, currencyCode, reference string) (*Payment, error) {
	query := `
		INSERT INTO payments (group_id, from_user_id, to_user_id, amount_cents, currency_code, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, group_id, from_user_id, to_user_id, amount_cents, currency_code, reference, status, created_at
	`

	payment := &Payment{}
	err := r.db.QueryRowContext(ctx, query,
		groupID, fromUserID, toUserID, amountCents, currencyCode, reference, ledger.PaymentStatusPending,
	).Scan(
		&payment.ID,
		&payment.GroupID,
		&payment.FromUserID,
		&payment.ToUserID,
		&payment.AmountCents,
		&payment.CurrencyCode,
		&payment.Reference,
		&payment.Status,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return payment, nil
}

// GetByID retrieves a payment by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s, uf.username, ut.username
		FROM payments p
		JOIN users uf ON p.from_user_id = uf.id
		JOIN users ut ON p.to_user_id = ut.id
		WHERE p.id = $1
	`, paymentColumns)

	payment := &Payment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.GroupID,
		&payment.FromUserID,
		&payment.ToUserID,
		&payment.AmountCents,
		&payment.CurrencyCode,
		&payment.Reference,
		&payment.Status,
		&payment.CreatedAt,
		&payment.FromUsername,
		&payment.ToUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// UpdateStatus moves a payment to a new status
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status ledger.PaymentStatus) (*Payment, error) {
	query := `
		UPDATE payments
		SET status = $1
		WHERE id = $2
		RETURNING id, group_id, from_user_id, to_user_id, amount_cents, currency_code, reference, status, created_at
	`

	payment := &Payment{}
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(
		&payment.ID,
		&payment.GroupID,
		&payment.FromUserID,
		&payment.ToUserID,
		&payment.AmountCents,
		&payment.CurrencyCode,
		&payment.Reference,
		&payment.Status,
		&payment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	return payment, nil
}

// ListByGroupID retrieves a group's payments, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Payment, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM payments WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, uf.username, ut.username
		FROM payments p
		JOIN users uf ON p.from_user_id = uf.id
		JOIN users ut ON p.to_user_id = ut.id
		WHERE p.group_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, paymentColumns)

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		payment := &Payment{}
		if err := rows.Scan(
			&payment.ID,
			&payment.GroupID,
			&payment.FromUserID,
			&payment.ToUserID,
			&payment.AmountCents,
			&payment.CurrencyCode,
			&payment.Reference,
			&payment.Status,
			&payment.CreatedAt,
			&payment.FromUsername,
			&payment.ToUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, total, nil
}

// ListCompletedForLedger loads a group's completed payments in the engine's
// snapshot form. Pending and cancelled payments never reach the aggregator.
func (r *Repository) ListCompletedForLedger(ctx context.Context, groupID int64) ([]ledger.Payment, error) {
	query := `
		SELECT id, group_id, from_user_id, to_user_id, amount_cents, currency_code, status, created_at
		FROM payments
		WHERE group_id = $1 AND status = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, ledger.PaymentStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger payments: %w", err)
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		var p ledger.Payment
		if err := rows.Scan(&p.ID, &p.GroupID, &p.From, &p.To, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger payments: %w", err)
	}

	return payments, nil
}
