package domain

import (
	"time"

	"github.com/google/uuid"
)

type ResponseStatus string

const (
	ResponsePending  ResponseStatus = "pending"
	ResponseAccepted ResponseStatus = "accepted"
	ResponseRejected ResponseStatus = "rejected"
)

// Action is a participant's answer to a pairing.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

func (a Action) Status() (ResponseStatus, error) {
	switch a {
	case ActionAccept:
		return ResponseAccepted, nil
	case ActionReject:
		return ResponseRejected, nil
	}
	return "", ErrInvalidAction
}

// Side addresses one of the two profiles of a pairing.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeMutual    Outcome = "mutual"
	OutcomeNonMutual Outcome = "non_mutual"
)

// Pairing is a candidate match between two profiles of one event. Mutual is
// derived from the two statuses and is only ever written through Respond.
type Pairing struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	EventID     uuid.UUID      `json:"event_id" db:"event_id"`
	ProfileAID  uuid.UUID      `json:"profile_a_id" db:"profile_a_id"`
	ProfileBID  uuid.UUID      `json:"profile_b_id" db:"profile_b_id"`
	StatusA     ResponseStatus `json:"status_a" db:"status_a"`
	StatusB     ResponseStatus `json:"status_b" db:"status_b"`
	Mutual      bool           `json:"mutual" db:"mutual"`
	Icebreakers []string       `json:"icebreakers,omitempty" db:"icebreakers"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// NewPairing returns a pairing with both sides pending.
func NewPairing(eventID, a, b uuid.UUID) *Pairing {
	return &Pairing{
		ID:         uuid.New(),
		EventID:    eventID,
		ProfileAID: a,
		ProfileBID: b,
		StatusA:    ResponsePending,
		StatusB:    ResponsePending,
	}
}

func (p *Pairing) HasProfile(profileID uuid.UUID) bool {
	return p.ProfileAID == profileID || p.ProfileBID == profileID
}

func (p *Pairing) SideOf(profileID uuid.UUID) (Side, bool) {
	if p.ProfileAID == profileID {
		return SideA, true
	}
	if p.ProfileBID == profileID {
		return SideB, true
	}
	return "", false
}

func (p *Pairing) OtherProfile(profileID uuid.UUID) (uuid.UUID, bool) {
	if p.ProfileAID == profileID {
		return p.ProfileBID, true
	}
	if p.ProfileBID == profileID {
		return p.ProfileAID, true
	}
	return uuid.Nil, false
}

func (p *Pairing) StatusOf(side Side) ResponseStatus {
	if side == SideA {
		return p.StatusA
	}
	return p.StatusB
}

// IsMutual is true iff both sides accepted.
func (p *Pairing) IsMutual() bool {
	return p.StatusA == ResponseAccepted && p.StatusB == ResponseAccepted
}

func (p *Pairing) Outcome() Outcome {
	switch {
	case p.IsMutual():
		return OutcomeMutual
	case p.StatusA == ResponseRejected || p.StatusB == ResponseRejected:
		return OutcomeNonMutual
	default:
		return OutcomePending
	}
}

// Apply records a side's first answer and recomputes Mutual. It reports
// whether this answer turned the pairing mutual. A side that already
// answered yields ErrAlreadyResponded and leaves the pairing untouched.
func (p *Pairing) Apply(side Side, status ResponseStatus) (bool, error) {
	if status != ResponseAccepted && status != ResponseRejected {
		return false, ErrInvalidAction
	}
	if p.StatusOf(side) != ResponsePending {
		return false, ErrAlreadyResponded
	}
	wasMutual := p.Mutual
	if side == SideA {
		p.StatusA = status
	} else {
		p.StatusB = status
	}
	p.Mutual = p.IsMutual()
	return p.Mutual && !wasMutual, nil
}

// PairKey identifies the unordered profile pair of a pairing within an event.
type PairKey struct {
	EventID uuid.UUID
	Low     uuid.UUID
	High    uuid.UUID
}

func NewPairKey(eventID, a, b uuid.UUID) PairKey {
	if a.String() > b.String() {
		a, b = b, a
	}
	return PairKey{EventID: eventID, Low: a, High: b}
}

func (p *Pairing) Key() PairKey {
	return NewPairKey(p.EventID, p.ProfileAID, p.ProfileBID)
}
