package ledger

import (
	"errors"
	"testing"
)

func evenSplits(amount int64, memberIDs ...int64) []SplitShare {
	n := int64(len(memberIDs))
	base := amount / n
	rem := amount % n
	splits := make([]SplitShare, len(memberIDs))
	for i, id := range memberIDs {
		share := base
		if int64(i) < rem {
			share++
		}
		splits[i] = SplitShare{MemberID: id, Amount: share}
	}
	return splits
}

func TestComputeBalancesScenario(t *testing.T) {
	// A pays 90, split equally among A, B, C.
	expenses := []Expense{
		{ID: 1, GroupID: 1, PaidBy: 1, Amount: 90, Splits: evenSplits(90, 1, 2, 3)},
	}

	balances, err := ComputeBalances(expenses, nil, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	want := Balances{1: 60, 2: -30, 3: -30}
	for id, amount := range want {
		if balances[id] != amount {
			t.Errorf("balance[%d] = %d, want %d", id, balances[id], amount)
		}
	}
	if balances.Sum() != 0 {
		t.Errorf("balances sum to %d, want 0", balances.Sum())
	}
}

func TestComputeBalancesPaymentStatuses(t *testing.T) {
	expenses := []Expense{
		{ID: 1, PaidBy: 1, Amount: 90, Splits: evenSplits(90, 1, 2, 3)},
	}
	payments := []Payment{
		{ID: 1, From: 2, To: 1, Amount: 30, Status: PaymentStatusCompleted},
		{ID: 2, From: 3, To: 1, Amount: 30, Status: PaymentStatusPending},
		{ID: 3, From: 3, To: 1, Amount: 30, Status: PaymentStatusCancelled},
	}

	balances, err := ComputeBalances(expenses, payments, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	// Only the completed payment counts: B is settled, C still owes.
	want := Balances{1: 30, 2: 0, 3: -30}
	for id, amount := range want {
		if balances[id] != amount {
			t.Errorf("balance[%d] = %d, want %d", id, balances[id], amount)
		}
	}
}

func TestComputeBalancesOrderIndependence(t *testing.T) {
	expenses := []Expense{
		{ID: 1, PaidBy: 1, Amount: 1200, Splits: evenSplits(1200, 1, 2, 3, 4)},
		{ID: 2, PaidBy: 2, Amount: 501, Splits: evenSplits(501, 2, 3)},
		{ID: 3, PaidBy: 4, Amount: 75, Splits: evenSplits(75, 1, 4)},
	}
	payments := []Payment{
		{ID: 1, From: 3, To: 1, Amount: 100, Status: PaymentStatusCompleted},
		{ID: 2, From: 2, To: 1, Amount: 50, Status: PaymentStatusCompleted},
	}
	members := []int64{1, 2, 3, 4}

	base, err := ComputeBalances(expenses, payments, members)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	if base.Sum() != 0 {
		t.Fatalf("balances sum to %d, want 0", base.Sum())
	}

	reversedExpenses := []Expense{expenses[2], expenses[1], expenses[0]}
	reversedPayments := []Payment{payments[1], payments[0]}
	reordered, err := ComputeBalances(reversedExpenses, reversedPayments, members)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	for id, amount := range base {
		if reordered[id] != amount {
			t.Errorf("reordered balance[%d] = %d, want %d", id, reordered[id], amount)
		}
	}
}

func TestComputeBalancesDeterministic(t *testing.T) {
	expenses := []Expense{
		{ID: 1, PaidBy: 1, Amount: 999, Splits: evenSplits(999, 1, 2, 3)},
	}
	members := []int64{1, 2, 3}

	first, err := ComputeBalances(expenses, nil, members)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	second, err := ComputeBalances(expenses, nil, members)
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result sizes differ: %d vs %d", len(first), len(second))
	}
	for id, amount := range first {
		if second[id] != amount {
			t.Errorf("balance[%d] differs between runs: %d vs %d", id, amount, second[id])
		}
	}
}

func TestComputeBalancesIntegrityViolation(t *testing.T) {
	expenses := []Expense{
		{ID: 1, PaidBy: 1, Amount: 100, Splits: []SplitShare{
			{MemberID: 1, Amount: 50},
			{MemberID: 2, Amount: 40}, // sums to 90, not 100
		}},
	}

	_, err := ComputeBalances(expenses, nil, []int64{1, 2})
	if !errors.Is(err, ErrIntegrityViolation) {
		t.Errorf("ComputeBalances() error = %v, want ErrIntegrityViolation", err)
	}
}

func TestComputeBalancesMembersStartAtZero(t *testing.T) {
	balances, err := ComputeBalances(nil, nil, []int64{7, 8, 9})
	if err != nil {
		t.Fatalf("ComputeBalances() error = %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("got %d balances, want 3", len(balances))
	}
	for id, amount := range balances {
		if amount != 0 {
			t.Errorf("balance[%d] = %d, want 0", id, amount)
		}
	}
}
