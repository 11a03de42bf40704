package services

import (
	"context"
	"fmt"
	"time"

	"github.com/onusone/stakeledger/internal/events"
	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/store"
)

// PolicyService owns the policy singleton: one-time initialization and
// authority-gated updates. The authority set at initialization cannot be
// changed here.
type PolicyService struct {
	store store.Store
	bus   *events.Bus
}

func NewPolicyService(s store.Store, bus *events.Bus) *PolicyService {
	return &PolicyService{store: s, bus: bus}
}

// InitializePolicyRequest carries the one-time deployment configuration.
type InitializePolicyRequest struct {
	Authority      string `json:"authority"`
	DecayRateBps   uint64 `json:"decayRateBps"`
	MinStake       uint64 `json:"minStake"`
	MaxStake       uint64 `json:"maxStake"`
	DailyUserLimit uint64 `json:"dailyUserLimit"`
	TotalUserLimit uint64 `json:"totalUserLimit"`
}

// Initialize creates the policy singleton with zeroed aggregates. It fails
// with ErrAlreadyInitialized on a second call and ErrInvalidPolicy when
// minStake exceeds maxStake.
func (s *PolicyService) Initialize(ctx context.Context, req InitializePolicyRequest, now time.Time) (*model.PolicyState, error) {
	if req.Authority == "" {
		return nil, fmt.Errorf("%w: authority is required", model.ErrValidation)
	}
	if req.MinStake > req.MaxStake {
		return nil, fmt.Errorf("%w: minStake %d exceeds maxStake %d", model.ErrInvalidPolicy, req.MinStake, req.MaxStake)
	}

	p := &model.PolicyState{
		Authority:      req.Authority,
		DecayRateBps:   req.DecayRateBps,
		MinStake:       req.MinStake,
		MaxStake:       req.MaxStake,
		DailyUserLimit: req.DailyUserLimit,
		TotalUserLimit: req.TotalUserLimit,
		CreationTime:   now,
		UpdateTime:     now,
	}
	if err := s.store.Policies().Create(ctx, p); err != nil {
		return nil, err
	}
	s.publish(events.Event{Kind: events.EventPolicyInitialized, User: req.Authority, OccurredAt: now})
	return p, nil
}

// Get returns the current policy, including aggregates.
func (s *PolicyService) Get(ctx context.Context) (*model.PolicyState, error) {
	return s.store.Policies().Get(ctx)
}

// Update applies the non-nil fields of changes. Only the recorded authority
// may call it; existing stakes keep decaying from their original staked_at
// under the new rate (no retroactive reinterpretation of settled principal).
func (s *PolicyService) Update(ctx context.Context, caller string, changes model.PolicyChanges, now time.Time) (*model.PolicyState, error) {
	var out *model.PolicyState
	err := s.store.InTx(ctx, func(v store.View) error {
		p, err := v.Policies().Get(ctx)
		if err != nil {
			return err
		}
		if caller != p.Authority {
			return model.ErrUnauthorized
		}
		if changes.DecayRateBps != nil {
			p.DecayRateBps = *changes.DecayRateBps
		}
		if changes.MinStake != nil {
			p.MinStake = *changes.MinStake
		}
		if changes.MaxStake != nil {
			p.MaxStake = *changes.MaxStake
		}
		if changes.DailyUserLimit != nil {
			p.DailyUserLimit = *changes.DailyUserLimit
		}
		if changes.TotalUserLimit != nil {
			p.TotalUserLimit = *changes.TotalUserLimit
		}
		if p.MinStake > p.MaxStake {
			return fmt.Errorf("%w: minStake %d exceeds maxStake %d", model.ErrInvalidPolicy, p.MinStake, p.MaxStake)
		}
		p.UpdateTime = now
		if err := v.Policies().Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(events.Event{Kind: events.EventPolicyUpdated, User: caller, OccurredAt: now})
	return out, nil
}

// SetEmergency toggles the kill switch. While active, every new stake is
// rejected with ErrEmergencyHalt; the toggle is visible to admission checks
// as soon as this call returns.
func (s *PolicyService) SetEmergency(ctx context.Context, caller string, active bool, now time.Time) error {
	err := s.store.InTx(ctx, func(v store.View) error {
		p, err := v.Policies().Get(ctx)
		if err != nil {
			return err
		}
		if caller != p.Authority {
			return model.ErrUnauthorized
		}
		p.EmergencyActive = active
		p.UpdateTime = now
		return v.Policies().Update(ctx, p)
	})
	if err != nil {
		return err
	}
	s.publish(events.Event{Kind: events.EventEmergencyToggled, User: caller, OccurredAt: now})
	return nil
}

func (s *PolicyService) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
