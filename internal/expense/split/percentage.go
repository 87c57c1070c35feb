package split

import (
	"fmt"
	"math"
)

// percentageTolerance absorbs float noise when checking that percentages
// sum to 100.
const percentageTolerance = 0.01

// Percentage divides the amount according to caller-supplied per-member
// percentages summing to 100. Each share is rounded to the nearest minor
// unit; any rounding residue lands on the largest share so the shares sum
// to the amount exactly.
type Percentage struct {
	Percents map[int64]float64
}

// Type returns the policy identifier.
func (Percentage) Type() PolicyType {
	return TypePercentage
}

func (p Percentage) split(amount int64, participants []int64) (map[int64]int64, error) {
	entries := make(map[int64]struct{}, len(p.Percents))
	for id := range p.Percents {
		entries[id] = struct{}{}
	}
	if err := requireParticipants(entries, participants); err != nil {
		return nil, err
	}

	var totalPct float64
	for _, id := range participants {
		pct, ok := p.Percents[id]
		if !ok {
			return nil, fmt.Errorf("%w: member %d", ErrMissingPercentage, id)
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("%w: member %d has %v", ErrPercentageOutOfRange, id, pct)
		}
		totalPct += pct
	}
	if math.Abs(totalPct-100) > percentageTolerance {
		return nil, fmt.Errorf("%w: got %v", ErrPercentageSum, totalPct)
	}

	out := make(map[int64]int64, len(participants))
	var sum int64
	for _, id := range participants {
		share := int64(math.Round(float64(amount) * p.Percents[id] / 100))
		out[id] = share
		sum += share
	}

	// Rounding residue goes to the single largest share; ties break to the
	// first such participant in input order.
	if residue := amount - sum; residue != 0 {
		largest := participants[0]
		for _, id := range participants[1:] {
			if out[id] > out[largest] {
				largest = id
			}
		}
		out[largest] += residue
	}

	return out, nil
}
