package split

import "fmt"

// Custom is Exact with omission allowed: participants without an entry owe
// zero. Supplied entries must still sum to the expense amount exactly.
type Custom struct {
	Amounts map[int64]int64
}

// Type returns the policy identifier.
func (Custom) Type() PolicyType {
	return TypeCustom
}

func (p Custom) split(amount int64, participants []int64) (map[int64]int64, error) {
	entries := make(map[int64]struct{}, len(p.Amounts))
	for id := range p.Amounts {
		entries[id] = struct{}{}
	}
	if err := requireParticipants(entries, participants); err != nil {
		return nil, err
	}

	out := make(map[int64]int64, len(participants))
	var sum int64
	for _, id := range participants {
		share := p.Amounts[id]
		if share < 0 {
			return nil, fmt.Errorf("%w: member %d", ErrNegativeShare, id)
		}
		out[id] = share
		sum += share
	}

	if sum != amount {
		return nil, fmt.Errorf("%w: shares sum to %d, expense is %d", ErrSplitTotalMismatch, sum, amount)
	}
	return out, nil
}
