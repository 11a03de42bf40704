// Package decay computes the current effective value of a stake from its
// settled principal, stake time and the policy decay rate. All functions are
// pure; stored principal is never modified here.
package decay

import (
	"math/bits"
	"time"

	"github.com/onusone/stakeledger/internal/model"
)

const (
	// BpsDenominator is the basis-point scale: 10000 bps == 100%.
	BpsDenominator = 10000

	// UnitSeconds is the decay time unit. DecayRateBps is value lost, in
	// basis points, per elapsed unit.
	UnitSeconds = 86400
)

// EffectiveValue returns principal reduced by linear basis-point decay over
// the elapsed time between stakedAt and now. The result is clamped at zero
// once accrued decay reaches 100%, including for rates above 10000 bps.
// A now earlier than stakedAt is rejected with ErrClockSkew; callers must
// supply monotonic timestamps.
func EffectiveValue(principal uint64, stakedAt, now time.Time, decayRateBps uint64) (uint64, error) {
	if now.Before(stakedAt) {
		return 0, model.ErrClockSkew
	}
	if principal == 0 || decayRateBps == 0 {
		return principal, nil
	}

	elapsed := uint64(now.Unix() - stakedAt.Unix())
	loss := accruedBps(decayRateBps, elapsed)
	if loss >= BpsDenominator {
		return 0, nil
	}

	// principal * loss / 10000 in 128-bit space; hi < 10000 is guaranteed
	// because loss < 10000, so Div64 cannot panic.
	hi, lo := bits.Mul64(principal, loss)
	deducted, _ := bits.Div64(hi, lo, BpsDenominator)
	return principal - deducted, nil
}

// FullyDecayed reports whether a stake opened at stakedAt has no remaining
// value at now under the given rate.
func FullyDecayed(stakedAt, now time.Time, decayRateBps uint64) bool {
	if decayRateBps == 0 || now.Before(stakedAt) {
		return false
	}
	return accruedBps(decayRateBps, uint64(now.Unix()-stakedAt.Unix())) >= BpsDenominator
}

// accruedBps returns rate*elapsed/UnitSeconds, saturating at BpsDenominator.
func accruedBps(rateBps, elapsedSeconds uint64) uint64 {
	hi, lo := bits.Mul64(rateBps, elapsedSeconds)
	if hi >= UnitSeconds {
		// Quotient would exceed 2^64; decay is far past 100%.
		return BpsDenominator
	}
	q, _ := bits.Div64(hi, lo, UnitSeconds)
	if q > BpsDenominator {
		return BpsDenominator
	}
	return q
}
