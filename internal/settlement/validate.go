package settlement

import (
	"errors"
	"fmt"

	"github.com/divvyup/divvy/internal/ledger"
)

var (
	ErrNonPositiveAmount  = errors.New("payment amount must be positive")
	ErrSelfPayment        = errors.New("cannot record a payment to yourself")
	ErrNoDebtOwed         = errors.New("sender does not owe anything in this group")
	ErrNoCreditDue        = errors.New("receiver is not owed anything in this group")
	ErrPaymentExceedsDebt = errors.New("payment exceeds the outstanding debt between these members")
)

// pairDebtTolerance allows a payment to overshoot the planned pair debt by
// one minor unit, absorbing rounding in the plan.
const pairDebtTolerance = 1

// ValidatePayment checks a proposed payment against the group's current
// balances. The directed debt between the pair is taken from the settlement
// plan derived from those balances. Acceptance never mutates anything:
// balances are always recomputed from the full ledger after the payment is
// committed, so the conservation invariant cannot drift.
func ValidatePayment(from, to, amount int64, balances ledger.Balances) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	if from == to {
		return ErrSelfPayment
	}
	if balances[from] >= 0 {
		return ErrNoDebtOwed
	}
	if balances[to] <= 0 {
		return ErrNoCreditDue
	}

	plan, err := BuildPlan(balances)
	if err != nil {
		return err
	}

	var pairDebt int64
	for _, d := range plan {
		if d.FromID == from && d.ToID == to {
			pairDebt += d.Amount
		}
	}

	if amount > pairDebt+pairDebtTolerance {
		return fmt.Errorf("%w: debt is %d, payment is %d", ErrPaymentExceedsDebt, pairDebt, amount)
	}
	return nil
}
