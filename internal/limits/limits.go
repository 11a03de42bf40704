// Package limits validates staking intents against policy bounds. Checks are
// pure and evaluate a snapshot supplied by the caller.
package limits

import (
	"github.com/onusone/stakeledger/internal/model"
)

// ValidateStake checks a proposed stake amount against the policy and the
// user's current usage. Checks run in a fixed order and the first failure
// wins: emergency halt, minimum, maximum, daily cap, lifetime cap.
func ValidateStake(policy *model.PolicyState, usage model.UserUsage, amount uint64) error {
	if policy.EmergencyActive {
		return model.ErrEmergencyHalt
	}
	if amount < policy.MinStake {
		return model.ErrBelowMinimum
	}
	if amount > policy.MaxStake {
		return model.ErrAboveMaximum
	}
	if exceeds(usage.DailyTotal, amount, policy.DailyUserLimit) {
		return model.ErrDailyLimitExceeded
	}
	if exceeds(usage.LifetimeTotal, amount, policy.TotalUserLimit) {
		return model.ErrTotalLimitExceeded
	}
	return nil
}

// exceeds reports whether used+amount > limit, treating u64 overflow of the
// sum as exceeded.
func exceeds(used, amount, limit uint64) bool {
	sum := used + amount
	if sum < used {
		return true
	}
	return sum > limit
}
