package settlement

import (
	"errors"
	"fmt"
	"sort"

	"github.com/divvyup/divvy/internal/ledger"
)

// ErrUnbalancedLedger is returned when a settlement plan is requested for
// balances that do not sum to zero.
var ErrUnbalancedLedger = errors.New("balances do not sum to zero")

// Debt is one edge of a settlement plan: a recommendation that FromID pay
// ToID the given amount in minor units. Debts are derived from balances on
// demand and never persisted as ground truth.
type Debt struct {
	FromID int64 `json:"from_id"`
	ToID   int64 `json:"to_id"`
	Amount int64 `json:"amount"`
}

// BuildPlan reduces a set of balances to a list of recommended payments
// using greedy largest-first matching: debtors and creditors are sorted by
// descending magnitude (ties broken by member ID, so output is fully
// deterministic) and matched with two pointers, settling min(debt, credit)
// at each step.
//
// The plan is a heuristic, not a minimum-transaction solution; it emits at
// most (#debtors + #creditors - 1) edges and its total equals the sum of
// positive balances.
func BuildPlan(balances ledger.Balances) ([]Debt, error) {
	if sum := balances.Sum(); sum != 0 {
		return nil, fmt.Errorf("%w: sum is %d", ErrUnbalancedLedger, sum)
	}

	type position struct {
		memberID int64
		amount   int64 // positive magnitude
	}

	var debtors, creditors []position
	for id, balance := range balances {
		switch {
		case balance < 0:
			debtors = append(debtors, position{memberID: id, amount: -balance})
		case balance > 0:
			creditors = append(creditors, position{memberID: id, amount: balance})
		}
	}

	byMagnitude := func(entries []position) func(i, j int) bool {
		return func(i, j int) bool {
			if entries[i].amount != entries[j].amount {
				return entries[i].amount > entries[j].amount
			}
			return entries[i].memberID < entries[j].memberID
		}
	}
	sort.Slice(debtors, byMagnitude(debtors))
	sort.Slice(creditors, byMagnitude(creditors))

	plan := make([]Debt, 0, len(debtors)+len(creditors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		settled := min(debtors[i].amount, creditors[j].amount)
		if settled >= 1 {
			plan = append(plan, Debt{
				FromID: debtors[i].memberID,
				ToID:   creditors[j].memberID,
				Amount: settled,
			})
		}

		debtors[i].amount -= settled
		creditors[j].amount -= settled
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return plan, nil
}
