// Package split divides an expense amount among participating members
// according to a split policy. Amounts are integer minor units throughout.
//
// Policies form a closed variant: the Policy interface has an unexported
// method, so EQUAL, EXACT, PERCENTAGE and CUSTOM are the only possible
// implementations and invalid policy/field combinations are unrepresentable.
package split

import (
	"errors"
	"fmt"
)

// PolicyType identifies a split policy on the wire.
type PolicyType string

const (
	TypeEqual      PolicyType = "EQUAL"
	TypeExact      PolicyType = "EXACT"
	TypePercentage PolicyType = "PERCENTAGE"
	TypeCustom     PolicyType = "CUSTOM"
)

var (
	ErrNonPositiveAmount    = errors.New("expense amount must be positive")
	ErrEmptyParticipantSet  = errors.New("at least one participant is required")
	ErrDuplicateParticipant = errors.New("duplicate participant")
	ErrUnknownMember        = errors.New("member is not part of the group")
	ErrSplitTotalMismatch   = errors.New("split amounts must sum to the expense amount")
	ErrMissingShare         = errors.New("share amount required for all participants")
	ErrNegativeShare        = errors.New("share amounts cannot be negative")
	ErrMissingPercentage    = errors.New("percentage required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrPercentageSum        = errors.New("percentages must sum to 100")
	ErrUnknownPolicyType    = errors.New("unknown split policy type")
)

// Policy is a split rule. The unexported method keeps the set of policies
// closed to this package.
type Policy interface {
	Type() PolicyType

	// split runs after the shared participant validation in Calculate.
	split(amount int64, participants []int64) (map[int64]int64, error)
}

// ForType builds a Policy from its wire representation. Share amounts feed
// EXACT and CUSTOM policies, percents feeds PERCENTAGE; the fields not used
// by the requested type are ignored.
func ForType(policyType string, amounts map[int64]int64, percents map[int64]float64) (Policy, error) {
	switch PolicyType(policyType) {
	case TypeEqual:
		return Equal{}, nil
	case TypeExact:
		return Exact{Amounts: amounts}, nil
	case TypePercentage:
		return Percentage{Percents: percents}, nil
	case TypeCustom:
		return Custom{Amounts: amounts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicyType, policyType)
	}
}

// Calculate applies a policy to an expense amount, returning the share owed
// by each participant. Shares always sum to amount exactly. The paying
// member is not treated specially: their own share, if present, offsets the
// credit they receive as payer when balances are aggregated.
func Calculate(amount int64, participants []int64, members []int64, policy Policy) (map[int64]int64, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if len(participants) == 0 {
		return nil, ErrEmptyParticipantSet
	}

	memberSet := make(map[int64]struct{}, len(members))
	for _, id := range members {
		memberSet[id] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(participants))
	for _, id := range participants {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: member %d", ErrDuplicateParticipant, id)
		}
		seen[id] = struct{}{}
		if _, ok := memberSet[id]; !ok {
			return nil, fmt.Errorf("%w: member %d", ErrUnknownMember, id)
		}
	}

	return policy.split(amount, participants)
}

// requireParticipants rejects share entries for members outside the
// participant list.
func requireParticipants(entries map[int64]struct{}, participants []int64) error {
	set := make(map[int64]struct{}, len(participants))
	for _, id := range participants {
		set[id] = struct{}{}
	}
	for id := range entries {
		if _, ok := set[id]; !ok {
			return fmt.Errorf("%w: member %d is not a participant", ErrUnknownMember, id)
		}
	}
	return nil
}
