package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onusone/stakeledger/internal/events"
	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/store/memory"
)

var policyT0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func defaultInit() InitializePolicyRequest {
	return InitializePolicyRequest{
		Authority:      "authority-1",
		DecayRateBps:   100,
		MinStake:       10,
		MaxStake:       1000,
		DailyUserLimit: 2000,
		TotalUserLimit: 10000,
	}
}

func TestInitialize_ZeroAggregates(t *testing.T) {
	svc := NewPolicyService(memory.New(), nil)

	p, err := svc.Initialize(context.Background(), defaultInit(), policyT0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), p.TotalStaked)
	assert.Equal(t, uint64(0), p.TotalRewardsPaid)
	assert.False(t, p.EmergencyActive)
	assert.Equal(t, "authority-1", p.Authority)
}

func TestInitialize_Twice(t *testing.T) {
	svc := NewPolicyService(memory.New(), nil)

	_, err := svc.Initialize(context.Background(), defaultInit(), policyT0)
	require.NoError(t, err)
	_, err = svc.Initialize(context.Background(), defaultInit(), policyT0)
	assert.ErrorIs(t, err, model.ErrAlreadyInitialized)
}

func TestInitialize_InvalidBounds(t *testing.T) {
	svc := NewPolicyService(memory.New(), nil)

	req := defaultInit()
	req.MinStake = 2000
	req.MaxStake = 1000
	_, err := svc.Initialize(context.Background(), req, policyT0)
	assert.ErrorIs(t, err, model.ErrInvalidPolicy)

	req = defaultInit()
	req.Authority = ""
	_, err = svc.Initialize(context.Background(), req, policyT0)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdate_AuthorityGate(t *testing.T) {
	svc := NewPolicyService(memory.New(), nil)
	ctx := context.Background()
	_, err := svc.Initialize(ctx, defaultInit(), policyT0)
	require.NoError(t, err)

	newMin := uint64(50)
	_, err = svc.Update(ctx, "someone-else", model.PolicyChanges{MinStake: &newMin}, policyT0)
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	// Rejected update leaves the policy untouched.
	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), p.MinStake)

	updated, err := svc.Update(ctx, "authority-1", model.PolicyChanges{MinStake: &newMin}, policyT0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint64(50), updated.MinStake)
	assert.Equal(t, uint64(1000), updated.MaxStake, "unchanged fields preserved")
}

func TestUpdate_RejectsInvertedBounds(t *testing.T) {
	svc := NewPolicyService(memory.New(), nil)
	ctx := context.Background()
	_, err := svc.Initialize(ctx, defaultInit(), policyT0)
	require.NoError(t, err)

	badMin := uint64(5000)
	_, err = svc.Update(ctx, "authority-1", model.PolicyChanges{MinStake: &badMin}, policyT0)
	assert.ErrorIs(t, err, model.ErrInvalidPolicy)

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), p.MinStake, "failed update must not partially apply")
}

func TestUpdate_BeforeInitialize(t *testing.T) {
	svc := NewPolicyService(memory.New(), nil)
	newMin := uint64(50)
	_, err := svc.Update(context.Background(), "authority-1", model.PolicyChanges{MinStake: &newMin}, policyT0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSetEmergency(t *testing.T) {
	bus := events.NewBus(8)
	svc := NewPolicyService(memory.New(), bus)
	ctx := context.Background()
	_, err := svc.Initialize(ctx, defaultInit(), policyT0)
	require.NoError(t, err)

	require.ErrorIs(t, svc.SetEmergency(ctx, "intruder", true, policyT0), model.ErrUnauthorized)
	require.NoError(t, svc.SetEmergency(ctx, "authority-1", true, policyT0))

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.True(t, p.EmergencyActive)

	require.NoError(t, svc.SetEmergency(ctx, "authority-1", false, policyT0))
	p, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, p.EmergencyActive)

	// Init + two toggles made it onto the bus.
	kinds := map[events.EventKind]int{}
	for i := 0; i < 3; i++ {
		select {
		case e := <-bus.Subscribe():
			kinds[e.Kind]++
		default:
			t.Fatalf("expected 3 events, got %d", i)
		}
	}
	assert.Equal(t, 2, kinds[events.EventEmergencyToggled])
}
