package settlement

import (
	"errors"
	"reflect"
	"testing"

	"github.com/divvyup/divvy/internal/ledger"
)

func TestBuildPlanScenario(t *testing.T) {
	// A paid 90 split three ways: B and C each owe A 30.
	balances := ledger.Balances{1: 60, 2: -30, 3: -30}

	plan, err := BuildPlan(balances)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	want := []Debt{
		{FromID: 2, ToID: 1, Amount: 30},
		{FromID: 3, ToID: 1, Amount: 30},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("BuildPlan() = %v, want %v", plan, want)
	}
}

func TestBuildPlanLargestFirst(t *testing.T) {
	balances := ledger.Balances{1: 100, 2: 50, 3: -120, 4: -30}

	plan, err := BuildPlan(balances)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	// Largest debtor (3) pays the largest creditor (1) first.
	want := []Debt{
		{FromID: 3, ToID: 1, Amount: 100},
		{FromID: 3, ToID: 2, Amount: 20},
		{FromID: 4, ToID: 2, Amount: 30},
	}
	if !reflect.DeepEqual(plan, want) {
		t.Errorf("BuildPlan() = %v, want %v", plan, want)
	}
}

func TestBuildPlanDeterministicTieBreak(t *testing.T) {
	// Two debtors and two creditors with identical magnitudes: ordering
	// must fall back to member IDs and stay stable across runs.
	balances := ledger.Balances{4: 50, 2: 50, 3: -50, 1: -50}

	want := []Debt{
		{FromID: 1, ToID: 2, Amount: 50},
		{FromID: 3, ToID: 4, Amount: 50},
	}
	for i := 0; i < 10; i++ {
		plan, err := BuildPlan(balances)
		if err != nil {
			t.Fatalf("BuildPlan() error = %v", err)
		}
		if !reflect.DeepEqual(plan, want) {
			t.Fatalf("BuildPlan() = %v, want %v", plan, want)
		}
	}
}

func TestBuildPlanProperties(t *testing.T) {
	balances := ledger.Balances{1: 250, 2: -80, 3: -170, 4: 0, 5: 99, 6: -99}

	plan, err := BuildPlan(balances)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	var positiveSum, planTotal int64
	nonZero := 0
	for _, b := range balances {
		if b > 0 {
			positiveSum += b
		}
		if b != 0 {
			nonZero++
		}
	}
	for _, d := range plan {
		planTotal += d.Amount
		if d.FromID == d.ToID {
			t.Errorf("self-edge in plan: %v", d)
		}
		if d.Amount < 1 {
			t.Errorf("edge below one minor unit: %v", d)
		}
	}

	if planTotal != positiveSum {
		t.Errorf("plan total = %d, want %d", planTotal, positiveSum)
	}
	if len(plan) > nonZero-1 {
		t.Errorf("plan has %d edges for %d non-zero balances", len(plan), nonZero)
	}
}

func TestBuildPlanSettledMembersExcluded(t *testing.T) {
	plan, err := BuildPlan(ledger.Balances{1: 0, 2: 0, 3: 0})
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if len(plan) != 0 {
		t.Errorf("BuildPlan() = %v, want empty plan", plan)
	}
}

func TestBuildPlanUnbalanced(t *testing.T) {
	_, err := BuildPlan(ledger.Balances{1: 100, 2: -50})
	if !errors.Is(err, ErrUnbalancedLedger) {
		t.Errorf("BuildPlan() error = %v, want ErrUnbalancedLedger", err)
	}
}
