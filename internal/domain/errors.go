package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrPairingNotFound    = errors.New("pairing not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrForbidden              = errors.New("forbidden")
	ErrProfileIncomplete      = errors.New("profile is incomplete")
	ErrAlreadyJoined          = errors.New("already joined this event")
	ErrNotEnrolled            = errors.New("not enrolled in this event")
	ErrMatchingAlreadyStarted = errors.New("matching has already started")
	ErrInvalidTicket          = errors.New("invalid ticket")
	ErrNotAccepted            = errors.New("entry has not been accepted")
	ErrTicketAlreadyUsed      = errors.New("ticket already used")
	ErrAlreadyResponded       = errors.New("already responded to this pairing")
	ErrInvalidAction          = errors.New("invalid action")
	ErrInvalidEntryStatus     = errors.New("invalid entry status")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidToken           = errors.New("invalid token")
)

// TicketUsedError is returned by check-in when the ticket was redeemed
// before. It matches ErrTicketAlreadyUsed.
type TicketUsedError struct {
	CheckedInAt time.Time
}

func (e *TicketUsedError) Error() string {
	return fmt.Sprintf("%s at %s", ErrTicketAlreadyUsed, e.CheckedInAt.Format(time.RFC3339))
}

func (e *TicketUsedError) Is(target error) bool {
	return target == ErrTicketAlreadyUsed
}
