// Package money provides integer minor-unit (cents) arithmetic for the
// expense engine. All amounts everywhere in the system are int64 cents;
// floating point never touches committed data.
package money

import (
	"errors"
	"fmt"
)

// ErrInvalidParticipantCount is returned when an amount is distributed
// across zero or a negative number of participants.
var ErrInvalidParticipantCount = errors.New("participant count must be positive")

// DistributeEvenly divides total into n integer shares that sum to total
// exactly. Shares are returned in participant order: the first |total| mod n
// entries absorb one extra minor unit each, with the extra unit carrying the
// sign of total. When n exceeds |total| the trailing entries are zero.
func DistributeEvenly(total int64, n int) ([]int64, error) {
	if n <= 0 {
		return nil, ErrInvalidParticipantCount
	}

	abs := total
	sign := int64(1)
	if total < 0 {
		abs = -total
		sign = -1
	}

	base := abs / int64(n)
	remainder := abs % int64(n)

	shares := make([]int64, n)
	for i := range shares {
		share := base
		if int64(i) < remainder {
			share++
		}
		shares[i] = sign * share
	}

	return shares, nil
}

// Format renders cents as a decimal string, e.g. 1250 -> "12.50" and
// -5 -> "-0.05". Used for notification messages; never parsed back.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
