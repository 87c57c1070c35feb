package split

import (
	"errors"
	"testing"
)

var members = []int64{1, 2, 3, 4, 5, 6, 7}

func sumShares(shares map[int64]int64) int64 {
	var sum int64
	for _, v := range shares {
		sum += v
	}
	return sum
}

func TestCalculateEqual(t *testing.T) {
	tests := []struct {
		name         string
		amount       int64
		participants []int64
		want         map[int64]int64
	}{
		{
			name:         "seven way split of 100 cents",
			amount:       100,
			participants: []int64{1, 2, 3, 4, 5, 6, 7},
			want:         map[int64]int64{1: 15, 2: 15, 3: 14, 4: 14, 5: 14, 6: 14, 7: 14},
		},
		{
			name:         "three way split of 90 cents",
			amount:       90,
			participants: []int64{1, 2, 3},
			want:         map[int64]int64{1: 30, 2: 30, 3: 30},
		},
		{
			name:         "single participant owes everything",
			amount:       501,
			participants: []int64{3},
			want:         map[int64]int64{3: 501},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.amount, tt.participants, members, Equal{})
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if sumShares(got) != tt.amount {
				t.Errorf("shares sum to %d, want %d", sumShares(got), tt.amount)
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("share[%d] = %d, want %d", id, got[id], want)
				}
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	t.Run("60/40 of 1000", func(t *testing.T) {
		got, err := Calculate(1000, []int64{1, 2}, members, Percentage{
			Percents: map[int64]float64{1: 60, 2: 40},
		})
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if got[1] != 600 || got[2] != 400 {
			t.Errorf("got %v, want {1:600, 2:400}", got)
		}
	})

	t.Run("rounding residue lands on largest share", func(t *testing.T) {
		// Rounded shares are 17+17+67 = 101; the extra cent comes off
		// member 3, the largest share.
		got, err := Calculate(100, []int64{1, 2, 3}, members, Percentage{
			Percents: map[int64]float64{1: 16.67, 2: 16.67, 3: 66.66},
		})
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if sumShares(got) != 100 {
			t.Fatalf("shares sum to %d, want 100", sumShares(got))
		}
		if got[3] != 66 {
			t.Errorf("share[3] = %d, want 66", got[3])
		}
	})

	t.Run("all shares tied sends residue to first participant", func(t *testing.T) {
		// Each third of 100 rounds to 33; the missing cent goes to the
		// first participant in input order.
		got, err := Calculate(100, []int64{1, 2, 3}, members, Percentage{
			Percents: map[int64]float64{1: 33.33, 2: 33.33, 3: 33.34},
		})
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if sumShares(got) != 100 {
			t.Fatalf("shares sum to %d, want 100", sumShares(got))
		}
		if got[1] != 34 {
			t.Errorf("share[1] = %d, want 34", got[1])
		}
	})

	t.Run("residue tie breaks to first participant in input order", func(t *testing.T) {
		got, err := Calculate(101, []int64{2, 1}, members, Percentage{
			Percents: map[int64]float64{1: 50, 2: 50},
		})
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if sumShares(got) != 101 {
			t.Fatalf("shares sum to %d, want 101", sumShares(got))
		}
		// Both round to 51 (sum 102); member 2 is first in input order.
		if got[2] != 50 {
			t.Errorf("share[2] = %d, want 50", got[2])
		}
	})

	t.Run("percentages must sum to 100", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2}, members, Percentage{
			Percents: map[int64]float64{1: 60, 2: 50},
		})
		if !errors.Is(err, ErrPercentageSum) {
			t.Errorf("error = %v, want ErrPercentageSum", err)
		}
	})

	t.Run("missing percentage", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2}, members, Percentage{
			Percents: map[int64]float64{1: 100},
		})
		if !errors.Is(err, ErrMissingPercentage) {
			t.Errorf("error = %v, want ErrMissingPercentage", err)
		}
	})

	t.Run("percentage out of range", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2}, members, Percentage{
			Percents: map[int64]float64{1: 150, 2: -50},
		})
		if !errors.Is(err, ErrPercentageOutOfRange) {
			t.Errorf("error = %v, want ErrPercentageOutOfRange", err)
		}
	})
}

func TestCalculateExact(t *testing.T) {
	t.Run("valid exact split", func(t *testing.T) {
		got, err := Calculate(1000, []int64{1, 2, 3}, members, Exact{
			Amounts: map[int64]int64{1: 500, 2: 300, 3: 200},
		})
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if got[1] != 500 || got[2] != 300 || got[3] != 200 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("sum mismatch", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2}, members, Exact{
			Amounts: map[int64]int64{1: 500, 2: 400},
		})
		if !errors.Is(err, ErrSplitTotalMismatch) {
			t.Errorf("error = %v, want ErrSplitTotalMismatch", err)
		}
	})

	t.Run("missing share", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2}, members, Exact{
			Amounts: map[int64]int64{1: 1000},
		})
		if !errors.Is(err, ErrMissingShare) {
			t.Errorf("error = %v, want ErrMissingShare", err)
		}
	})

	t.Run("negative share", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2}, members, Exact{
			Amounts: map[int64]int64{1: 1100, 2: -100},
		})
		if !errors.Is(err, ErrNegativeShare) {
			t.Errorf("error = %v, want ErrNegativeShare", err)
		}
	})

	t.Run("share for non-participant", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2}, members, Exact{
			Amounts: map[int64]int64{1: 500, 2: 300, 3: 200},
		})
		if !errors.Is(err, ErrUnknownMember) {
			t.Errorf("error = %v, want ErrUnknownMember", err)
		}
	})
}

func TestCalculateCustom(t *testing.T) {
	t.Run("omitted participants owe zero", func(t *testing.T) {
		got, err := Calculate(1000, []int64{1, 2, 3}, members, Custom{
			Amounts: map[int64]int64{1: 700, 3: 300},
		})
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if got[1] != 700 || got[2] != 0 || got[3] != 300 {
			t.Errorf("got %v, want {1:700, 2:0, 3:300}", got)
		}
	})

	t.Run("sum must still match", func(t *testing.T) {
		_, err := Calculate(1000, []int64{1, 2, 3}, members, Custom{
			Amounts: map[int64]int64{1: 700},
		})
		if !errors.Is(err, ErrSplitTotalMismatch) {
			t.Errorf("error = %v, want ErrSplitTotalMismatch", err)
		}
	})
}

func TestCalculateSharedValidation(t *testing.T) {
	tests := []struct {
		name         string
		amount       int64
		participants []int64
		wantErr      error
	}{
		{"zero amount", 0, []int64{1, 2}, ErrNonPositiveAmount},
		{"negative amount", -100, []int64{1, 2}, ErrNonPositiveAmount},
		{"no participants", 100, nil, ErrEmptyParticipantSet},
		{"duplicate participant", 100, []int64{1, 2, 1}, ErrDuplicateParticipant},
		{"participant outside group", 100, []int64{1, 99}, ErrUnknownMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.amount, tt.participants, members, Equal{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Calculate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestForType(t *testing.T) {
	for _, typ := range []string{"EQUAL", "EXACT", "PERCENTAGE", "CUSTOM"} {
		p, err := ForType(typ, nil, nil)
		if err != nil {
			t.Errorf("ForType(%q) error = %v", typ, err)
			continue
		}
		if string(p.Type()) != typ {
			t.Errorf("ForType(%q).Type() = %q", typ, p.Type())
		}
	}

	if _, err := ForType("HALVSIES", nil, nil); !errors.Is(err, ErrUnknownPolicyType) {
		t.Errorf("ForType(HALVSIES) error = %v, want ErrUnknownPolicyType", err)
	}
}
