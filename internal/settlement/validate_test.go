package settlement

import (
	"errors"
	"testing"

	"github.com/divvyup/divvy/internal/ledger"
)

func TestValidatePayment(t *testing.T) {
	// B and C each owe A 30.
	balances := ledger.Balances{1: 60, 2: -30, 3: -30}

	tests := []struct {
		name    string
		from    int64
		to      int64
		amount  int64
		wantErr error
	}{
		{"full repayment accepted", 2, 1, 30, nil},
		{"partial repayment accepted", 2, 1, 10, nil},
		{"one minor unit over is tolerated", 2, 1, 31, nil},
		{"payment exceeds debt", 2, 1, 50, ErrPaymentExceedsDebt},
		{"zero amount", 2, 1, 0, ErrNonPositiveAmount},
		{"negative amount", 2, 1, -5, ErrNonPositiveAmount},
		{"self payment", 2, 2, 10, ErrSelfPayment},
		{"sender owes nothing", 1, 2, 10, ErrNoDebtOwed},
		{"receiver is owed nothing", 2, 3, 10, ErrNoCreditDue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayment(tt.from, tt.to, tt.amount, balances)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePayment() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePayment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePaymentPairNotInPlan(t *testing.T) {
	// The greedy plan routes member 3's debt to member 1 only, so a payment
	// from 3 to 2 has no directed debt backing it beyond the tolerance.
	balances := ledger.Balances{1: 100, 2: 30, 3: -130}

	if err := ValidatePayment(3, 1, 100, balances); err != nil {
		t.Errorf("payment along plan edge rejected: %v", err)
	}
	if err := ValidatePayment(3, 2, 30, balances); err != nil {
		t.Errorf("payment along plan edge rejected: %v", err)
	}
	if err := ValidatePayment(3, 2, 100, balances); !errors.Is(err, ErrPaymentExceedsDebt) {
		t.Errorf("ValidatePayment() error = %v, want ErrPaymentExceedsDebt", err)
	}
}

func TestValidatePaymentUnbalancedLedger(t *testing.T) {
	err := ValidatePayment(2, 1, 10, ledger.Balances{1: 60, 2: -30})
	if !errors.Is(err, ErrUnbalancedLedger) {
		t.Errorf("ValidatePayment() error = %v, want ErrUnbalancedLedger", err)
	}
}
