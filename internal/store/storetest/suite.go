// Package storetest holds a conformance suite run against every store driver.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/store"
)

// Run exercises the store contract. Implementations should provide a clean,
// isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := "user-" + uuid.New().String()

	// Policy singleton lifecycle.
	if _, err := s.Policies().Get(ctx); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get before init: want ErrNotFound, got %v", err)
	}
	pol := &model.PolicyState{
		Authority:      "authority-1",
		DecayRateBps:   100,
		MinStake:       10,
		MaxStake:       1000,
		DailyUserLimit: 2000,
		TotalUserLimit: 10000,
		CreationTime:   now,
		UpdateTime:     now,
	}
	if err := s.Policies().Create(ctx, pol); err != nil {
		t.Fatalf("Create policy: %v", err)
	}
	if err := s.Policies().Create(ctx, pol); !errors.Is(err, model.ErrAlreadyInitialized) {
		t.Fatalf("second Create: want ErrAlreadyInitialized, got %v", err)
	}
	got, err := s.Policies().Get(ctx)
	if err != nil {
		t.Fatalf("Get policy: %v", err)
	}
	if got.Authority != "authority-1" || got.TotalStaked != 0 || got.TotalRewardsPaid != 0 {
		t.Fatalf("unexpected policy after init: %+v", got)
	}

	got.TotalStaked = 500
	got.EmergencyActive = true
	got.UpdateTime = now.Add(time.Minute)
	if err := s.Policies().Update(ctx, got); err != nil {
		t.Fatalf("Update policy: %v", err)
	}
	got2, err := s.Policies().Get(ctx)
	if err != nil || got2.TotalStaked != 500 || !got2.EmergencyActive {
		t.Fatalf("policy after update: %+v err=%v", got2, err)
	}
	got2.EmergencyActive = false
	got2.TotalStaked = 0
	if err := s.Policies().Update(ctx, got2); err != nil {
		t.Fatalf("Update policy back: %v", err)
	}

	// Stake records.
	if _, err := s.Stakes().Get(ctx, user, "content-1"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get missing stake: want ErrNotFound, got %v", err)
	}
	rec := &model.StakeRecord{
		User:        user,
		ContentID:   "content-1",
		ContentType: "post",
		Amount:      100,
		StakedAt:    now,
		IsActive:    true,
	}
	if err := s.Stakes().Put(ctx, rec); err != nil {
		t.Fatalf("Put stake: %v", err)
	}
	gotRec, err := s.Stakes().Get(ctx, user, "content-1")
	if err != nil || gotRec.Amount != 100 || !gotRec.IsActive || gotRec.ContentType != "post" {
		t.Fatalf("Get stake: %+v err=%v", gotRec, err)
	}
	if !gotRec.StakedAt.Equal(now) {
		t.Fatalf("StakedAt round-trip: want %v got %v", now, gotRec.StakedAt)
	}

	// Upsert overwrites in place.
	rec.Amount = 250
	rec.StakedAt = now.Add(time.Hour)
	if err := s.Stakes().Put(ctx, rec); err != nil {
		t.Fatalf("Put stake update: %v", err)
	}
	gotRec, err = s.Stakes().Get(ctx, user, "content-1")
	if err != nil || gotRec.Amount != 250 {
		t.Fatalf("Get updated stake: %+v err=%v", gotRec, err)
	}

	rec2 := &model.StakeRecord{User: user, ContentID: "content-2", ContentType: "message", Amount: 40, StakedAt: now, IsActive: true}
	if err := s.Stakes().Put(ctx, rec2); err != nil {
		t.Fatalf("Put second stake: %v", err)
	}
	lst, err := s.Stakes().ListByUser(ctx, user)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListByUser: n=%d err=%v", len(lst), err)
	}
	if lst[0].ContentID != "content-1" || lst[1].ContentID != "content-2" {
		t.Fatalf("ListByUser order: %s, %s", lst[0].ContentID, lst[1].ContentID)
	}

	// Event journal and usage sums.
	evs := []*model.StakeEvent{
		{EventID: uuid.New().String(), User: user, ContentID: "content-1", Kind: model.EventStake, Amount: 100, OccurredAt: now.Add(-48 * time.Hour)},
		{EventID: uuid.New().String(), User: user, ContentID: "content-1", Kind: model.EventStake, Amount: 150, OccurredAt: now},
		{EventID: uuid.New().String(), User: user, ContentID: "content-2", Kind: model.EventStake, Amount: 40, OccurredAt: now.Add(time.Minute)},
		{EventID: uuid.New().String(), User: user, ContentID: "content-2", Kind: model.EventUnstake, Amount: 40, DecayLoss: 1, OccurredAt: now.Add(2 * time.Minute)},
	}
	for _, e := range evs {
		if err := s.Stakes().AppendEvent(ctx, e); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}
	usage, err := s.Stakes().Usage(ctx, user, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	// Unstake events never count toward stake caps.
	if usage.DailyTotal != 190 || usage.LifetimeTotal != 290 {
		t.Fatalf("Usage: daily=%d lifetime=%d", usage.DailyTotal, usage.LifetimeTotal)
	}

	journal, err := s.Stakes().ListEvents(ctx, user, 2)
	if err != nil || len(journal) != 2 {
		t.Fatalf("ListEvents: n=%d err=%v", len(journal), err)
	}
	if journal[0].Kind != model.EventUnstake || journal[0].DecayLoss != 1 {
		t.Fatalf("ListEvents newest-first: %+v", journal[0])
	}

	// Transaction atomicity: a failing body must leave nothing behind.
	sentinel := errors.New("boom")
	err = s.InTx(ctx, func(v store.View) error {
		if err := v.Stakes().Put(ctx, &model.StakeRecord{User: user, ContentID: "content-3", ContentType: "post", Amount: 5, StakedAt: now, IsActive: true}); err != nil {
			return err
		}
		p, err := v.Policies().Get(ctx)
		if err != nil {
			return err
		}
		p.TotalStaked += 5
		if err := v.Policies().Update(ctx, p); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("InTx: want sentinel error, got %v", err)
	}
	if _, err := s.Stakes().Get(ctx, user, "content-3"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("rolled-back stake visible: err=%v", err)
	}
	p, err := s.Policies().Get(ctx)
	if err != nil || p.TotalStaked != 0 {
		t.Fatalf("rolled-back aggregate visible: total=%d err=%v", p.TotalStaked, err)
	}

	// And a successful transaction commits everything.
	err = s.InTx(ctx, func(v store.View) error {
		if err := v.Stakes().Put(ctx, &model.StakeRecord{User: user, ContentID: "content-3", ContentType: "post", Amount: 5, StakedAt: now, IsActive: true}); err != nil {
			return err
		}
		p, err := v.Policies().Get(ctx)
		if err != nil {
			return err
		}
		p.TotalStaked += 5
		return v.Policies().Update(ctx, p)
	})
	if err != nil {
		t.Fatalf("InTx commit: %v", err)
	}
	if r, err := s.Stakes().Get(ctx, user, "content-3"); err != nil || r.Amount != 5 {
		t.Fatalf("committed stake: %+v err=%v", r, err)
	}
	if p, err := s.Policies().Get(ctx); err != nil || p.TotalStaked != 5 {
		t.Fatalf("committed aggregate: %+v err=%v", p, err)
	}
}
