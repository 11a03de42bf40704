// Package memory provides an in-process store used by tests and by hosts that
// embed the ledger without durable storage.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/store"
)

// New returns an empty in-memory store. A single mutex serializes every
// operation, so each InTx body is one atomic transition; rollback restores a
// snapshot taken at transaction start.
func New() store.Store {
	return &memStore{stakes: make(map[string]*model.StakeRecord)}
}

type memStore struct {
	mu     sync.Mutex
	policy *model.PolicyState
	stakes map[string]*model.StakeRecord
	events []*model.StakeEvent
}

func key(user, contentID string) string { return user + "\x00" + contentID }

func (m *memStore) Policies() store.Policies { return &policies{m: m, locked: false} }
func (m *memStore) Stakes() store.Stakes     { return &stakes{m: m, locked: false} }

func (m *memStore) InTx(ctx context.Context, fn func(v store.View) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	v := &view{m: m}
	if err := fn(v); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// HealthPing implements health.HealthPinger; the memory store is always up.
func (m *memStore) HealthPing(ctx context.Context) error { return nil }

type snapshot struct {
	policy *model.PolicyState
	stakes map[string]*model.StakeRecord
	events int
}

func (m *memStore) snapshot() snapshot {
	s := snapshot{stakes: make(map[string]*model.StakeRecord, len(m.stakes)), events: len(m.events)}
	if m.policy != nil {
		cp := *m.policy
		s.policy = &cp
	}
	for k, r := range m.stakes {
		cp := *r
		s.stakes[k] = &cp
	}
	return s
}

func (m *memStore) restore(s snapshot) {
	m.policy = s.policy
	m.stakes = s.stakes
	m.events = m.events[:s.events]
}

type view struct{ m *memStore }

func (v *view) Policies() store.Policies { return &policies{m: v.m, locked: true} }
func (v *view) Stakes() store.Stakes     { return &stakes{m: v.m, locked: true} }

// policies and stakes operate either standalone (taking the lock per call) or
// inside a transaction that already holds it.

type policies struct {
	m      *memStore
	locked bool
}

func (p *policies) lock() func() {
	if p.locked {
		return func() {}
	}
	p.m.mu.Lock()
	return p.m.mu.Unlock
}

func (p *policies) Create(ctx context.Context, ps *model.PolicyState) error {
	defer p.lock()()
	if p.m.policy != nil {
		return model.ErrAlreadyInitialized
	}
	cp := *ps
	p.m.policy = &cp
	return nil
}

func (p *policies) Get(ctx context.Context) (*model.PolicyState, error) {
	defer p.lock()()
	if p.m.policy == nil {
		return nil, model.ErrNotFound
	}
	cp := *p.m.policy
	return &cp, nil
}

func (p *policies) Update(ctx context.Context, ps *model.PolicyState) error {
	defer p.lock()()
	if p.m.policy == nil {
		return model.ErrNotFound
	}
	cp := *ps
	p.m.policy = &cp
	return nil
}

type stakes struct {
	m      *memStore
	locked bool
}

func (s *stakes) lock() func() {
	if s.locked {
		return func() {}
	}
	s.m.mu.Lock()
	return s.m.mu.Unlock
}

func (s *stakes) Get(ctx context.Context, user, contentID string) (*model.StakeRecord, error) {
	defer s.lock()()
	r, ok := s.m.stakes[key(user, contentID)]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *stakes) ListByUser(ctx context.Context, user string) ([]*model.StakeRecord, error) {
	defer s.lock()()
	var out []*model.StakeRecord
	for _, r := range s.m.stakes {
		if r.User == user {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContentID < out[j].ContentID })
	return out, nil
}

func (s *stakes) Put(ctx context.Context, r *model.StakeRecord) error {
	defer s.lock()()
	cp := *r
	s.m.stakes[key(r.User, r.ContentID)] = &cp
	return nil
}

func (s *stakes) Usage(ctx context.Context, user string, since time.Time) (model.UserUsage, error) {
	defer s.lock()()
	var u model.UserUsage
	for _, e := range s.m.events {
		if e.User != user || e.Kind != model.EventStake {
			continue
		}
		u.LifetimeTotal += e.Amount
		if !e.OccurredAt.Before(since) {
			u.DailyTotal += e.Amount
		}
	}
	return u, nil
}

func (s *stakes) AppendEvent(ctx context.Context, e *model.StakeEvent) error {
	defer s.lock()()
	cp := *e
	s.m.events = append(s.m.events, &cp)
	return nil
}

func (s *stakes) ListEvents(ctx context.Context, user string, limit int) ([]*model.StakeEvent, error) {
	defer s.lock()()
	var out []*model.StakeEvent
	for i := len(s.m.events) - 1; i >= 0; i-- {
		if s.m.events[i].User != user {
			continue
		}
		cp := *s.m.events[i]
		out = append(out, &cp)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
