// Package postgres implements store.Store on PostgreSQL via the pgx stdlib
// driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the database and applies the ledger schema.
func New(dsn string) (store.Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	for _, stmt := range store.DDLStatements() {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return NewWithDB(db), nil
}

// NewWithDB constructs a store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *pgStore) Policies() store.Policies { return &policies{q: s.db} }
func (s *pgStore) Stakes() store.Stakes     { return &stakes{q: s.db} }

func (s *pgStore) InTx(ctx context.Context, fn func(v store.View) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&txView{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// HealthPing implements health.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type txView struct{ tx *sql.Tx }

func (v *txView) Policies() store.Policies { return &policies{q: v.tx} }
func (v *txView) Stakes() store.Stakes     { return &stakes{q: v.tx} }

// --- Policies ---

type policies struct{ q querier }

func (p *policies) Create(ctx context.Context, ps *model.PolicyState) error {
	_, err := p.q.ExecContext(ctx, `INSERT INTO policy (
        policy_id, authority, decay_rate_bps, min_stake, max_stake,
        daily_user_limit, total_user_limit, total_staked, total_rewards_paid,
        emergency_active, creation_time, update_time)
        VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		ps.Authority, int64(ps.DecayRateBps), int64(ps.MinStake), int64(ps.MaxStake),
		int64(ps.DailyUserLimit), int64(ps.TotalUserLimit), int64(ps.TotalStaked),
		int64(ps.TotalRewardsPaid), ps.EmergencyActive, ps.CreationTime, ps.UpdateTime)
	if isUniqueViolation(err) {
		return model.ErrAlreadyInitialized
	}
	return err
}

func (p *policies) Get(ctx context.Context) (*model.PolicyState, error) {
	row := p.q.QueryRowContext(ctx, `SELECT authority, decay_rate_bps, min_stake,
        max_stake, daily_user_limit, total_user_limit, total_staked,
        total_rewards_paid, emergency_active, creation_time, update_time
        FROM policy WHERE policy_id = 1`)

	var out model.PolicyState
	var rate, minS, maxS, daily, total, staked, rewards int64
	err := row.Scan(&out.Authority, &rate, &minS, &maxS, &daily, &total,
		&staked, &rewards, &out.EmergencyActive, &out.CreationTime, &out.UpdateTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out.DecayRateBps = uint64(rate)
	out.MinStake = uint64(minS)
	out.MaxStake = uint64(maxS)
	out.DailyUserLimit = uint64(daily)
	out.TotalUserLimit = uint64(total)
	out.TotalStaked = uint64(staked)
	out.TotalRewardsPaid = uint64(rewards)
	return &out, nil
}

func (p *policies) Update(ctx context.Context, ps *model.PolicyState) error {
	res, err := p.q.ExecContext(ctx, `UPDATE policy SET authority=$1,
        decay_rate_bps=$2, min_stake=$3, max_stake=$4, daily_user_limit=$5,
        total_user_limit=$6, total_staked=$7, total_rewards_paid=$8,
        emergency_active=$9, update_time=$10 WHERE policy_id = 1`,
		ps.Authority, int64(ps.DecayRateBps), int64(ps.MinStake), int64(ps.MaxStake),
		int64(ps.DailyUserLimit), int64(ps.TotalUserLimit), int64(ps.TotalStaked),
		int64(ps.TotalRewardsPaid), ps.EmergencyActive, ps.UpdateTime)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Stakes ---

type stakes struct{ q querier }

func (s *stakes) Get(ctx context.Context, user, contentID string) (*model.StakeRecord, error) {
	row := s.q.QueryRowContext(ctx, `SELECT user_address, content_id, content_type,
        amount, staked_at, is_active FROM stakes
        WHERE user_address = $1 AND content_id = $2`, user, contentID)

	var r model.StakeRecord
	var amt int64
	err := row.Scan(&r.User, &r.ContentID, &r.ContentType, &amt, &r.StakedAt, &r.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.Amount = uint64(amt)
	return &r, nil
}

func (s *stakes) ListByUser(ctx context.Context, user string) ([]*model.StakeRecord, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT user_address, content_id, content_type,
        amount, staked_at, is_active FROM stakes
        WHERE user_address = $1 ORDER BY content_id`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.StakeRecord
	for rows.Next() {
		var r model.StakeRecord
		var amt int64
		if err := rows.Scan(&r.User, &r.ContentID, &r.ContentType, &amt, &r.StakedAt, &r.IsActive); err != nil {
			return nil, err
		}
		r.Amount = uint64(amt)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *stakes) Put(ctx context.Context, r *model.StakeRecord) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO stakes (
        user_address, content_id, content_type, amount, staked_at, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_address, content_id) DO UPDATE SET
        content_type = excluded.content_type, amount = excluded.amount,
        staked_at = excluded.staked_at, is_active = excluded.is_active`,
		r.User, r.ContentID, r.ContentType, int64(r.Amount), r.StakedAt, r.IsActive)
	return err
}

func (s *stakes) Usage(ctx context.Context, user string, since time.Time) (model.UserUsage, error) {
	row := s.q.QueryRowContext(ctx, `SELECT
        COALESCE(SUM(amount) FILTER (WHERE occurred_at >= $1), 0),
        COALESCE(SUM(amount), 0)
        FROM stake_events WHERE user_address = $2 AND kind = 'stake'`, since, user)
	var daily, lifetime int64
	if err := row.Scan(&daily, &lifetime); err != nil {
		return model.UserUsage{}, err
	}
	return model.UserUsage{DailyTotal: uint64(daily), LifetimeTotal: uint64(lifetime)}, nil
}

func (s *stakes) AppendEvent(ctx context.Context, e *model.StakeEvent) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO stake_events (
        event_id, user_address, content_id, kind, amount, decay_loss, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.EventID, e.User, e.ContentID, string(e.Kind), int64(e.Amount), int64(e.DecayLoss), e.OccurredAt)
	return err
}

func (s *stakes) ListEvents(ctx context.Context, user string, limit int) ([]*model.StakeEvent, error) {
	q := `SELECT event_id, user_address, content_id, kind, amount, decay_loss, occurred_at
        FROM stake_events WHERE user_address = $1 ORDER BY occurred_at DESC, event_id DESC`
	args := []any{user}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.StakeEvent
	for rows.Next() {
		var e model.StakeEvent
		var kind string
		var amt, loss int64
		if err := rows.Scan(&e.EventID, &e.User, &e.ContentID, &kind, &amt, &loss, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Kind = model.StakeEventKind(kind)
		e.Amount = uint64(amt)
		e.DecayLoss = uint64(loss)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
