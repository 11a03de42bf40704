package limits

import (
	"errors"
	"math"
	"testing"

	"github.com/onusone/stakeledger/internal/model"
)

func testPolicy() *model.PolicyState {
	return &model.PolicyState{
		DecayRateBps:   100,
		MinStake:       10,
		MaxStake:       1000,
		DailyUserLimit: 2000,
		TotalUserLimit: 10000,
	}
}

func TestValidateStake_Accepts(t *testing.T) {
	if err := ValidateStake(testPolicy(), model.UserUsage{}, 100); err != nil {
		t.Fatalf("expected accept, got %v", err)
	}
	// Exactly at the caps is still allowed.
	if err := ValidateStake(testPolicy(), model.UserUsage{DailyTotal: 1000, LifetimeTotal: 9000}, 1000); err != nil {
		t.Fatalf("expected accept at cap, got %v", err)
	}
}

func TestValidateStake_EmergencyHaltWinsEverything(t *testing.T) {
	p := testPolicy()
	p.EmergencyActive = true
	// Amount also below minimum; the halt must be reported, not BelowMinimum.
	if err := ValidateStake(p, model.UserUsage{}, 1); !errors.Is(err, model.ErrEmergencyHalt) {
		t.Fatalf("expected ErrEmergencyHalt, got %v", err)
	}
}

func TestValidateStake_Bounds(t *testing.T) {
	if err := ValidateStake(testPolicy(), model.UserUsage{}, 9); !errors.Is(err, model.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
	if err := ValidateStake(testPolicy(), model.UserUsage{}, 1001); !errors.Is(err, model.ErrAboveMaximum) {
		t.Fatalf("expected ErrAboveMaximum, got %v", err)
	}
}

func TestValidateStake_DailyBeforeLifetime(t *testing.T) {
	// Both caps would trip; daily is checked first.
	usage := model.UserUsage{DailyTotal: 1950, LifetimeTotal: 9950}
	if err := ValidateStake(testPolicy(), usage, 100); !errors.Is(err, model.ErrDailyLimitExceeded) {
		t.Fatalf("expected ErrDailyLimitExceeded, got %v", err)
	}
}

func TestValidateStake_LifetimeCap(t *testing.T) {
	usage := model.UserUsage{DailyTotal: 0, LifetimeTotal: 9950}
	if err := ValidateStake(testPolicy(), usage, 100); !errors.Is(err, model.ErrTotalLimitExceeded) {
		t.Fatalf("expected ErrTotalLimitExceeded, got %v", err)
	}
}

func TestValidateStake_OverflowCountsAsExceeded(t *testing.T) {
	p := testPolicy()
	p.MaxStake = math.MaxUint64
	p.DailyUserLimit = math.MaxUint64
	usage := model.UserUsage{DailyTotal: math.MaxUint64 - 5}
	if err := ValidateStake(p, usage, 10); !errors.Is(err, model.ErrDailyLimitExceeded) {
		t.Fatalf("expected ErrDailyLimitExceeded on overflow, got %v", err)
	}
}
