package decay

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/onusone/stakeledger/internal/model"
)

var t0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func days(n int) time.Time { return t0.Add(time.Duration(n) * 24 * time.Hour) }

func TestEffectiveValue_OnePercentPerDay(t *testing.T) {
	// 100 staked at t0 with 100 bps/day loses 1 per day.
	got, err := EffectiveValue(100, t0, days(10), 100)
	if err != nil {
		t.Fatalf("EffectiveValue: %v", err)
	}
	if got != 90 {
		t.Fatalf("expected 90 after 10 days at 1%%/day, got %d", got)
	}
}

func TestEffectiveValue_ZeroRateAndZeroElapsed(t *testing.T) {
	if got, _ := EffectiveValue(500, t0, days(365), 0); got != 500 {
		t.Fatalf("zero rate must not decay, got %d", got)
	}
	if got, _ := EffectiveValue(500, t0, t0, 250); got != 500 {
		t.Fatalf("zero elapsed must not decay, got %d", got)
	}
}

func TestEffectiveValue_ClampsAtZero(t *testing.T) {
	// Fully decayed at exactly 100 days.
	if got, _ := EffectiveValue(100, t0, days(100), 100); got != 0 {
		t.Fatalf("expected 0 at full decay, got %d", got)
	}
	// And stays at zero past that point, never negative.
	if got, _ := EffectiveValue(100, t0, days(5000), 100); got != 0 {
		t.Fatalf("expected 0 past full decay, got %d", got)
	}
	// Rates beyond 100%/unit are tolerated by clamping.
	if got, _ := EffectiveValue(100, t0, days(1), 25000); got != 0 {
		t.Fatalf("expected 0 for >100%%/day rate after a day, got %d", got)
	}
}

func TestEffectiveValue_ClockSkew(t *testing.T) {
	_, err := EffectiveValue(100, t0, t0.Add(-time.Second), 100)
	if !errors.Is(err, model.ErrClockSkew) {
		t.Fatalf("expected ErrClockSkew, got %v", err)
	}
}

func TestEffectiveValue_Monotonic(t *testing.T) {
	prev := uint64(math.MaxUint64)
	for d := 0; d <= 120; d++ {
		got, err := EffectiveValue(1_000_000, t0, days(d), 137)
		if err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
		if got > prev {
			t.Fatalf("effective value increased at day %d: %d > %d", d, got, prev)
		}
		prev = got
	}
}

func TestEffectiveValue_ReadIdempotent(t *testing.T) {
	a, _ := EffectiveValue(12345, t0, days(7), 333)
	b, _ := EffectiveValue(12345, t0, days(7), 333)
	if a != b {
		t.Fatalf("same inputs gave %d then %d", a, b)
	}
}

func TestEffectiveValue_LargePrincipalNoOverflow(t *testing.T) {
	principal := uint64(math.MaxUint64)
	got, err := EffectiveValue(principal, t0, days(50), 100)
	if err != nil {
		t.Fatalf("EffectiveValue: %v", err)
	}
	want := principal - principal/2 // 50% decayed
	// Integer division of the 128-bit product is exact here.
	if got != want && got != want+1 {
		t.Fatalf("expected ~%d, got %d", want, got)
	}
}

func TestEffectiveValue_SaturatedElapsedProduct(t *testing.T) {
	// rate * elapsed overflows 64 bits; must clamp to zero, not wrap.
	far := t0.Add(200 * 365 * 24 * time.Hour)
	got, err := EffectiveValue(100, t0, far, math.MaxUint64/1000)
	if err != nil {
		t.Fatalf("EffectiveValue: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 on saturated product, got %d", got)
	}
}

func TestFullyDecayed(t *testing.T) {
	if FullyDecayed(t0, days(99), 100) {
		t.Fatalf("not yet fully decayed at day 99")
	}
	if !FullyDecayed(t0, days(100), 100) {
		t.Fatalf("fully decayed at day 100")
	}
	if FullyDecayed(t0, days(100000), 0) {
		t.Fatalf("zero rate never fully decays")
	}
}
