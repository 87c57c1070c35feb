package split

import "fmt"

// Exact assigns each participant a caller-supplied share. Every participant
// must have an entry and the entries must sum to the expense amount with no
// tolerance.
type Exact struct {
	Amounts map[int64]int64
}

// Type returns the policy identifier.
func (Exact) Type() PolicyType {
	return TypeExact
}

func (p Exact) split(amount int64, participants []int64) (map[int64]int64, error) {
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
		share, ok := p.Amounts[id]
		if !ok {
			return nil, fmt.Errorf("%w: member %d", ErrMissingShare, id)
		}
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
