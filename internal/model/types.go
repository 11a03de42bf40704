package model

import "time"

// PolicyState is the singleton configuration and aggregate record for a deployment.
type PolicyState struct {
	Authority        string    `json:"authority"`
	DecayRateBps     uint64    `json:"decayRateBps"`
	MinStake         uint64    `json:"minStake"`
	MaxStake         uint64    `json:"maxStake"`
	DailyUserLimit   uint64    `json:"dailyUserLimit"`
	TotalUserLimit   uint64    `json:"totalUserLimit"`
	TotalStaked      uint64    `json:"totalStaked"`
	TotalRewardsPaid uint64    `json:"totalRewardsPaid"`
	EmergencyActive  bool      `json:"emergencyActive"`
	CreationTime     time.Time `json:"creationTime"`
	UpdateTime       time.Time `json:"updateTime"`
}

// StakeRecord is one position per (user, content) pair. Amount holds the settled
// principal; decay accrued since StakedAt is computed at read time and never
// written back except by an explicit settlement (top-up or release).
type StakeRecord struct {
	User        string    `json:"user"`
	ContentID   string    `json:"contentId"`
	ContentType string    `json:"contentType"`
	Amount      uint64    `json:"amount"`
	StakedAt    time.Time `json:"stakedAt"`
	IsActive    bool      `json:"isActive"`
}

// StakeEventKind discriminates journal entries.
type StakeEventKind string

const (
	EventStake   StakeEventKind = "stake"
	EventUnstake StakeEventKind = "unstake"
)

// StakeEvent is an immutable journal row appended for every accepted mutation.
// The journal doubles as the usage ledger for the daily and lifetime caps and
// as the audit trail.
type StakeEvent struct {
	EventID    string         `json:"eventId"`
	User       string         `json:"user"`
	ContentID  string         `json:"contentId"`
	Kind       StakeEventKind `json:"kind"`
	Amount     uint64         `json:"amount"`
	DecayLoss  uint64         `json:"decayLoss"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// StakeRequest captures a staking intent submitted by the host.
type StakeRequest struct {
	User        string `json:"user"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
	Amount      uint64 `json:"amount"`
}

// PolicyChanges carries optional policy-update fields; nil means unchanged.
type PolicyChanges struct {
	DecayRateBps   *uint64 `json:"decayRateBps,omitempty"`
	MinStake       *uint64 `json:"minStake,omitempty"`
	MaxStake       *uint64 `json:"maxStake,omitempty"`
	DailyUserLimit *uint64 `json:"dailyUserLimit,omitempty"`
	TotalUserLimit *uint64 `json:"totalUserLimit,omitempty"`
}

// UserUsage is a snapshot of a user's cumulative staking totals used by limit checks.
type UserUsage struct {
	DailyTotal    uint64
	LifetimeTotal uint64
}
