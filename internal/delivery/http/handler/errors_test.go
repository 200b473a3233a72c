package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrEventNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", domain.ErrPairingNotFound), http.StatusNotFound},
		{domain.ErrInvalidTicket, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotEnrolled, http.StatusForbidden},
		{domain.ErrAlreadyJoined, http.StatusConflict},
		{&domain.TicketUsedError{}, http.StatusConflict},
		{domain.ErrMatchingAlreadyStarted, http.StatusConflict},
		{domain.ErrProfileIncomplete, http.StatusUnprocessableEntity},
		{domain.ErrNotAccepted, http.StatusUnprocessableEntity},
		{domain.ErrInvalidAction, http.StatusBadRequest},
		{fmt.Errorf("%w: name", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("connection reset"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
