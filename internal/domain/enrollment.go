package domain

import (
	"time"

	"github.com/google/uuid"
)

type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryAccepted  EntryStatus = "accepted"
	EntryRejected  EntryStatus = "rejected"
	EntryAbandoned EntryStatus = "abandoned"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case EntryPending, EntryAccepted, EntryRejected, EntryAbandoned:
		return true
	}
	return false
}

// Enrollment is a participant's admission record for one event. ProfileID is
// nil for guests, who hold a ticket but are never matched.
type Enrollment struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	EventID     uuid.UUID   `json:"event_id" db:"event_id"`
	ProfileID   *uuid.UUID  `json:"profile_id,omitempty" db:"profile_id"`
	GuestName   *string     `json:"guest_name,omitempty" db:"guest_name"`
	GuestEmail  *string     `json:"guest_email,omitempty" db:"guest_email"`
	OptIn       bool        `json:"opt_in" db:"opt_in"`
	Status      EntryStatus `json:"status" db:"status"`
	TicketCode  string      `json:"ticket_code" db:"ticket_code"`
	CheckedIn   bool        `json:"checked_in" db:"checked_in"`
	CheckedInAt *time.Time  `json:"checked_in_at,omitempty" db:"checked_in_at"`
	JoinedAt    time.Time   `json:"joined_at" db:"joined_at"`
}

func (e *Enrollment) IsGuest() bool {
	return e.ProfileID == nil
}
