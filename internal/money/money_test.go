package money

import (
	"errors"
	"testing"
)

func TestDistributeEvenly(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		n     int
		want  []int64
	}{
		{
			name:  "divides exactly",
			total: 900,
			n:     3,
			want:  []int64{300, 300, 300},
		},
		{
			name:  "first entries absorb remainder",
			total: 100,
			n:     7,
			want:  []int64{15, 15, 14, 14, 14, 14, 14},
		},
		{
			name:  "single participant",
			total: 250,
			n:     1,
			want:  []int64{250},
		},
		{
			name:  "negative total carries sign on remainder",
			total: -100,
			n:     3,
			want:  []int64{-34, -33, -33},
		},
		{
			name:  "more participants than minor units",
			total: 2,
			n:     5,
			want:  []int64{1, 1, 0, 0, 0},
		},
		{
			name:  "zero total",
			total: 0,
			n:     4,
			want:  []int64{0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DistributeEvenly(tt.total, tt.n)
			if err != nil {
				t.Fatalf("DistributeEvenly(%d, %d) error = %v", tt.total, tt.n, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d shares, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("share[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDistributeEvenlyInvalidCount(t *testing.T) {
	for _, n := range []int{0, -1, -10} {
		if _, err := DistributeEvenly(100, n); !errors.Is(err, ErrInvalidParticipantCount) {
			t.Errorf("DistributeEvenly(100, %d) error = %v, want ErrInvalidParticipantCount", n, err)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{1250, "12.50"},
		{100000, "1000.00"},
		{-5, "-0.05"},
		{-1299, "-12.99"},
	}

	for _, tt := range tests {
		if got := Format(tt.cents); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

// Shares must sum to the total for any total and any positive n.
func TestDistributeEvenlySumProperty(t *testing.T) {
	totals := []int64{0, 1, 2, 7, 99, 100, 101, 12345, -1, -7, -100, -99999}
	for _, total := range totals {
		for n := 1; n <= 12; n++ {
			shares, err := DistributeEvenly(total, n)
			if err != nil {
				t.Fatalf("DistributeEvenly(%d, %d) error = %v", total, n, err)
			}
			var sum int64
			for _, s := range shares {
				sum += s
			}
			if sum != total {
				t.Errorf("DistributeEvenly(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
}
