package store

import (
	"context"
	"time"

	"github.com/onusone/stakeledger/internal/model"
)

// Store exposes persistence operations required by the ledger services.
// Implementations live under internal/store/<driver>/ (memory, sqlite, postgres).
type Store interface {
	Policies() Policies
	Stakes() Stakes

	// InTx runs fn against a transactional view of the store. Every mutation
	// made through the view commits atomically when fn returns nil and rolls
	// back entirely when it returns an error. Ledger mutations that touch a
	// stake record and the policy aggregate must go through InTx so readers
	// never observe a partially applied update.
	InTx(ctx context.Context, fn func(v View) error) error
}

// View is the transaction-scoped face of the store.
type View interface {
	Policies() Policies
	Stakes() Stakes
}

type Policies interface {
	// Create persists the singleton policy. Returns model.ErrAlreadyInitialized
	// if a policy already exists for this deployment.
	Create(ctx context.Context, p *model.PolicyState) error
	// Get returns the policy or model.ErrNotFound before initialization.
	Get(ctx context.Context) (*model.PolicyState, error)
	// Update overwrites the policy row. Returns model.ErrNotFound if absent.
	Update(ctx context.Context, p *model.PolicyState) error
}

type Stakes interface {
	// Get returns the record for (user, contentID), active or not, or
	// model.ErrNotFound.
	Get(ctx context.Context, user, contentID string) (*model.StakeRecord, error)
	ListByUser(ctx context.Context, user string) ([]*model.StakeRecord, error)
	// Put inserts or overwrites the record keyed by (user, contentID).
	Put(ctx context.Context, r *model.StakeRecord) error
	// Usage sums accepted stake amounts for the user: DailyTotal over events
	// at or after since, LifetimeTotal over all stake events.
	Usage(ctx context.Context, user string, since time.Time) (model.UserUsage, error)
	AppendEvent(ctx context.Context, e *model.StakeEvent) error
	// ListEvents returns the user's journal, newest first, at most limit rows.
	ListEvents(ctx context.Context, user string, limit int) ([]*model.StakeEvent, error)
}
