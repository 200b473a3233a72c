package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a party. MatchingStarted is the only field the matching core writes.
type Event struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Location         string    `json:"location" db:"location"`
	StartsAt         time.Time `json:"starts_at" db:"starts_at"`
	MatchingStartsAt time.Time `json:"matching_starts_at" db:"matching_starts_at"`
	MatchingStarted  bool      `json:"matching_started" db:"matching_started"`
	TicketPrice      *int64    `json:"ticket_price,omitempty" db:"ticket_price"`
	Expenses         *int64    `json:"expenses,omitempty" db:"expenses"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// MatchingOpen reports whether enrollment intent may still change at now.
func (e *Event) MatchingOpen(now time.Time) bool {
	return now.Before(e.MatchingStartsAt)
}

// EventStats is the manager-facing summary of one event. Money values are in
// minor currency units.
type EventStats struct {
	EventID       uuid.UUID `json:"event_id"`
	Pending       int       `json:"pending"`
	Accepted      int       `json:"accepted"`
	Rejected      int       `json:"rejected"`
	Abandoned     int       `json:"abandoned"`
	Guests        int       `json:"guests"`
	CheckedIn     int       `json:"checked_in"`
	OptedIn       int       `json:"opted_in"`
	Pairings      int       `json:"pairings"`
	MutualMatches int       `json:"mutual_matches"`
	TotalIncome   int64     `json:"total_income"`
	Expenses      int64     `json:"expenses"`
	GrossRevenue  int64     `json:"gross_revenue"`
}
