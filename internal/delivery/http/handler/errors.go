package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents error response
type ErrorResponse struct {
	Error       string     `json:"error"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// statusFor maps a domain error to its HTTP status; 0 means unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrPairingNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrEnrollmentNotFound),
		errors.Is(err, domain.ErrInvalidTicket):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrTicketAlreadyUsed),
		errors.Is(err, domain.ErrMatchingAlreadyStarted),
		errors.Is(err, domain.ErrAlreadyResponded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrProfileIncomplete),
		errors.Is(err, domain.ErrNotAccepted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAction),
		errors.Is(err, domain.ErrInvalidEntryStatus),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return 0
}

// respondError writes err as JSON. Unexpected errors are hidden behind
// fallback and recorded on the context for the request logger.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	status := statusFor(err)
	if status == 0 {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
		return
	}

	resp := ErrorResponse{Error: err.Error()}
	var used *domain.TicketUsedError
	if errors.As(err, &used) {
		resp.Error = domain.ErrTicketAlreadyUsed.Error()
		resp.CheckedInAt = &used.CheckedInAt
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func currentProfile(c *gin.Context) (uuid.UUID, bool) {
	profileID, ok := middleware.GetProfileID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return uuid.Nil, false
	}
	return profileID, true
}
