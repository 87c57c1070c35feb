package split

import "github.com/divvyup/divvy/internal/money"

// Equal divides the amount evenly among all participants. Participants
// earlier in the input order absorb any indivisible remainder, one minor
// unit each.
type Equal struct{}

// Type returns the policy identifier.
func (Equal) Type() PolicyType {
	return TypeEqual
}

func (Equal) split(amount int64, participants []int64) (map[int64]int64, error) {
	shares, err := money.DistributeEvenly(amount, len(participants))
	if err != nil {
		return nil, err
	}

	out := make(map[int64]int64, len(participants))
	for i, id := range participants {
		out[id] = shares[i]
	}
	return out, nil
}
