// Package ledger folds a group's full expense and payment history into net
// per-member balances. It is pure computation over immutable snapshot
// values: no storage handles, no locking, no I/O. Repositories build the
// snapshots; everything here is safe to call concurrently.
package ledger

import (
	"errors"
	"fmt"
	"time"
)

// ErrIntegrityViolation reports ledger data that breaks the engine's
// contracts: a split set that does not sum to its expense amount, or folded
// balances that do not sum to zero. It always indicates a bug upstream,
// never a condition to correct silently.
var ErrIntegrityViolation = errors.New("ledger integrity violation")

// PaymentStatus is the lifecycle state of a recorded payment. COMPLETED and
// CANCELLED are terminal.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// SplitShare is one participant's committed share of an expense, in minor
// currency units.
type SplitShare struct {
	MemberID int64
	Amount   int64
}

// Expense is the snapshot form of a committed expense. Splits always sum to
// Amount; the Split Calculator guarantees that before anything is committed.
type Expense struct {
	ID        int64
	GroupID   int64
	PaidBy    int64
	Amount    int64
	Currency  string
	Splits    []SplitShare
	CreatedAt time.Time
}

// Payment is the snapshot form of a recorded settlement payment.
type Payment struct {
	ID        int64
	GroupID   int64
	From      int64
	To        int64
	Amount    int64
	Currency  string
	Status    PaymentStatus
	CreatedAt time.Time
}

// Balances maps member ID to net position in minor units. Positive means
// the member is owed money, negative means they owe.
type Balances map[int64]int64

// Sum returns the total of all balances. Zero for any well-formed ledger.
func (b Balances) Sum() int64 {
	var sum int64
	for _, v := range b {
		sum += v
	}
	return sum
}

// ComputeBalances recomputes every member's net position from scratch. Each
// expense credits the payer with the full amount and debits every
// participant their share; completed payments reduce the sender's debt and
// the receiver's credit; pending and cancelled payments are ignored. The
// result is a pure sum, so input ordering never matters.
//
// Returns ErrIntegrityViolation when an expense's splits do not sum to its
// amount or the folded balances do not sum to zero.
func ComputeBalances(expenses []Expense, payments []Payment, members []int64) (Balances, error) {
	balances := make(Balances, len(members))
	for _, id := range members {
		balances[id] = 0
	}

	for _, e := range expenses {
		var splitSum int64
		for _, s := range e.Splits {
			splitSum += s.Amount
		}
		if splitSum != e.Amount {
			return nil, fmt.Errorf("%w: expense %d splits sum to %d, amount is %d",
				ErrIntegrityViolation, e.ID, splitSum, e.Amount)
		}

		balances[e.PaidBy] += e.Amount
		for _, s := range e.Splits {
			balances[s.MemberID] -= s.Amount
		}
	}

	for _, p := range payments {
		if p.Status != PaymentStatusCompleted {
			continue
		}
		// The sender handed over cash, so their debt shrinks; the
		// receiver's outstanding credit shrinks by the same amount.
		balances[p.From] += p.Amount
		balances[p.To] -= p.Amount
	}

	if sum := balances.Sum(); sum != 0 {
		return nil, fmt.Errorf("%w: balances sum to %d", ErrIntegrityViolation, sum)
	}

	return balances, nil
}
