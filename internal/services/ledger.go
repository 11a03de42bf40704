package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/onusone/stakeledger/internal/decay"
	"github.com/onusone/stakeledger/internal/events"
	"github.com/onusone/stakeledger/internal/limits"
	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/store"
)

// dailyWindow is the rolling window for the per-user daily cap.
const dailyWindow = 24 * time.Hour

// LedgerService owns the stake record set. Every mutation runs in one store
// transaction covering the record write, the event journal append and the
// policy aggregate update, so total_staked always equals the sum of settled
// active principals.
type LedgerService struct {
	store store.Store
	bus   *events.Bus
}

func NewLedgerService(s store.Store, bus *events.Bus) *LedgerService {
	return &LedgerService{store: s, bus: bus}
}

// Stake opens a position for (user, content) or tops up an existing one.
// On top-up the accrued decay is settled into principal first, then the new
// amount is added and staked_at resets to now. Limit checks use the policy
// and the user's usage as of the same transaction.
func (s *LedgerService) Stake(ctx context.Context, req model.StakeRequest, now time.Time) (*model.StakeRecord, error) {
	if req.User == "" || req.ContentID == "" {
		return nil, fmt.Errorf("%w: user and contentId are required", model.ErrValidation)
	}

	var (
		out       *model.StakeRecord
		decayLoss uint64
	)
	err := s.store.InTx(ctx, func(v store.View) error {
		pol, err := v.Policies().Get(ctx)
		if err != nil {
			return err
		}
		usage, err := v.Stakes().Usage(ctx, req.User, now.Add(-dailyWindow))
		if err != nil {
			return err
		}
		if err := limits.ValidateStake(pol, usage, req.Amount); err != nil {
			return err
		}

		rec, err := v.Stakes().Get(ctx, req.User, req.ContentID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		switch {
		case err == nil && rec.IsActive:
			// Settle-then-add: fold accrued decay into principal before
			// adding, so the aggregate never double-counts decayed value.
			settled, err := decay.EffectiveValue(rec.Amount, rec.StakedAt, now, pol.DecayRateBps)
			if err != nil {
				return err
			}
			decayLoss = rec.Amount - settled
			newAmount := settled + req.Amount
			if newAmount < settled {
				return fmt.Errorf("%w: stake amount overflows position", model.ErrValidation)
			}
			pol.TotalStaked -= rec.Amount
			pol.TotalStaked += newAmount
			rec.Amount = newAmount
			rec.StakedAt = now
			if req.ContentType != "" {
				rec.ContentType = req.ContentType
			}
		case err == nil && !rec.IsActive:
			// A released position reopens as a fresh stake on the same key.
			rec.Amount = req.Amount
			rec.StakedAt = now
			rec.IsActive = true
			if req.ContentType != "" {
				rec.ContentType = req.ContentType
			}
			pol.TotalStaked += req.Amount
		default:
			rec = &model.StakeRecord{
				User:        req.User,
				ContentID:   req.ContentID,
				ContentType: req.ContentType,
				Amount:      req.Amount,
				StakedAt:    now,
				IsActive:    true,
			}
			pol.TotalStaked += req.Amount
		}

		if err := v.Stakes().Put(ctx, rec); err != nil {
			return err
		}
		if err := v.Stakes().AppendEvent(ctx, &model.StakeEvent{
			EventID:    uuid.New().String(),
			User:       req.User,
			ContentID:  req.ContentID,
			Kind:       model.EventStake,
			Amount:     req.Amount,
			DecayLoss:  decayLoss,
			OccurredAt: now,
		}); err != nil {
			return err
		}
		pol.UpdateTime = now
		if err := v.Policies().Update(ctx, pol); err != nil {
			return err
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(events.Event{
		Kind:       events.EventStakeAccepted,
		User:       req.User,
		ContentID:  req.ContentID,
		Amount:     req.Amount,
		DecayLoss:  decayLoss,
		OccurredAt: now,
	})
	return out, nil
}

// Unstake settles and closes the position, returning the settled amount.
// The aggregate drops by the record's stored principal; the difference
// between stored and settled value is recorded as decay loss in the journal.
func (s *LedgerService) Unstake(ctx context.Context, user, contentID string, now time.Time) (uint64, error) {
	var (
		released  uint64
		decayLoss uint64
	)
	err := s.store.InTx(ctx, func(v store.View) error {
		pol, err := v.Policies().Get(ctx)
		if err != nil {
			return err
		}
		rec, err := v.Stakes().Get(ctx, user, contentID)
		if err != nil {
			return err
		}
		if !rec.IsActive {
			return model.ErrNotFound
		}
		settled, err := decay.EffectiveValue(rec.Amount, rec.StakedAt, now, pol.DecayRateBps)
		if err != nil {
			return err
		}
		decayLoss = rec.Amount - settled
		released = settled

		pol.TotalStaked -= rec.Amount
		rec.Amount = settled
		rec.IsActive = false
		if err := v.Stakes().Put(ctx, rec); err != nil {
			return err
		}
		if err := v.Stakes().AppendEvent(ctx, &model.StakeEvent{
			EventID:    uuid.New().String(),
			User:       user,
			ContentID:  contentID,
			Kind:       model.EventUnstake,
			Amount:     settled,
			DecayLoss:  decayLoss,
			OccurredAt: now,
		}); err != nil {
			return err
		}
		pol.UpdateTime = now
		return v.Policies().Update(ctx, pol)
	})
	if err != nil {
		return 0, err
	}
	s.publish(events.Event{
		Kind:       events.EventStakeReleased,
		User:       user,
		ContentID:  contentID,
		Amount:     released,
		DecayLoss:  decayLoss,
		OccurredAt: now,
	})
	return released, nil
}

// EffectiveValue computes the position's current decayed value without
// writing anything. Two calls with the same now return the same value.
func (s *LedgerService) EffectiveValue(ctx context.Context, user, contentID string, now time.Time) (uint64, error) {
	pol, err := s.store.Policies().Get(ctx)
	if err != nil {
		return 0, err
	}
	rec, err := s.store.Stakes().Get(ctx, user, contentID)
	if err != nil {
		return 0, err
	}
	if !rec.IsActive {
		return 0, model.ErrNotFound
	}
	return decay.EffectiveValue(rec.Amount, rec.StakedAt, now, pol.DecayRateBps)
}

// ListStakes returns every record for the user, active and released.
func (s *LedgerService) ListStakes(ctx context.Context, user string) ([]*model.StakeRecord, error) {
	return s.store.Stakes().ListByUser(ctx, user)
}

// ListEvents returns the user's journal, newest first.
func (s *LedgerService) ListEvents(ctx context.Context, user string, limit int) ([]*model.StakeEvent, error) {
	return s.store.Stakes().ListEvents(ctx, user, limit)
}

func (s *LedgerService) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}
