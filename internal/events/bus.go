// Package events carries ledger domain events to in-process consumers (the
// audit logger). Publishing is best-effort and never blocks a mutation.
package events

import "time"

// EventKind represents the type of domain event produced by the ledger.
type EventKind string

const (
	EventStakeAccepted     EventKind = "stake_accepted"
	EventStakeReleased     EventKind = "stake_released"
	EventPolicyUpdated     EventKind = "policy_updated"
	EventEmergencyToggled  EventKind = "emergency_toggled"
	EventPolicyInitialized EventKind = "policy_initialized"
)

// Event is emitted after a mutation has committed. Amount carries the staked
// or released value; DecayLoss the principal folded away by settlement.
type Event struct {
	Kind       EventKind
	User       string
	ContentID  string
	Amount     uint64
	DecayLoss  uint64
	OccurredAt time.Time
}

// Bus is a lightweight in-process pub-sub backed by a buffered channel.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish attempts to enqueue the event without blocking.
// Returns true if published, false if the buffer is full.
func (b *Bus) Publish(evt Event) bool {
	select {
	case b.ch <- evt:
		return true
	default:
		return false
	}
}

// Subscribe returns a read-only channel for consumers.
func (b *Bus) Subscribe() <-chan Event {
	return b.ch
}
